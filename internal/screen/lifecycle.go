package screen

import "context"

// Lifecycle ties in-flight work to one mount of a screen. Every message a
// screen receives from a command carries the generation it was issued
// under; Current rejects anything from an earlier mount.
type Lifecycle struct {
	gen    uint64
	cancel context.CancelFunc
}

// Mount starts a new generation, cancelling the previous one, and returns
// the context in-flight requests should use.
func (l *Lifecycle) Mount() (context.Context, uint64) {
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.gen++
	l.cancel = cancel
	return ctx, l.gen
}

// Unmount cancels in-flight requests and invalidates the current generation.
func (l *Lifecycle) Unmount() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

// Gen returns the current generation.
func (l *Lifecycle) Gen() uint64 { return l.gen }

// Mounted reports whether a mount is live.
func (l *Lifecycle) Mounted() bool { return l.cancel != nil }

// Current reports whether gen belongs to the live mount.
func (l *Lifecycle) Current(gen uint64) bool {
	return l.cancel != nil && gen == l.gen
}
