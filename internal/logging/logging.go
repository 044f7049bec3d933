// Package logging builds the zap logger. The TUI owns the terminal, so
// logs always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New opens path for appending and returns a logger writing to it. In
// production the output is JSON at info level; otherwise console format
// at debug level. The returned func flushes and closes the file.
func New(path string, production bool) (*zap.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging.New: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging.New: %w", err)
	}

	log := zap.New(newCore(zapcore.AddSync(f), production), zap.AddCaller())
	return log, func() {
		_ = log.Sync()
		_ = f.Close()
	}, nil
}

func newCore(w zapcore.WriteSyncer, production bool) zapcore.Core {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var encoder zapcore.Encoder
	level := zap.DebugLevel
	if production {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
		level = zap.InfoLevel
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewCore(encoder, w, zap.NewAtomicLevelAt(level))
}
