package screen

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/naveenspark/roster/internal/form"
	"github.com/naveenspark/roster/internal/gate"
	"github.com/naveenspark/roster/pkg/client"
)

// Class is the failure taxonomy screens react to.
type Class int

const (
	ClassTransient Class = iota
	ClassNotFound
	ClassValidation
	ClassDenied
)

func (c Class) String() string {
	switch c {
	case ClassNotFound:
		return "not_found"
	case ClassValidation:
		return "validation"
	case ClassDenied:
		return "denied"
	}
	return "transient"
}

// Classify buckets err. Anything unrecognised is transient.
func Classify(err error) Class {
	var fe form.Errors
	var denied *gate.DeniedError
	switch {
	case err == nil:
		return ClassTransient
	case errors.As(err, &fe):
		return ClassValidation
	case errors.As(err, &denied):
		return ClassDenied
	case client.IsNotFound(err):
		return ClassNotFound
	case client.IsStatus(err, http.StatusBadRequest), client.IsStatus(err, http.StatusUnprocessableEntity):
		return ClassValidation
	case client.IsStatus(err, http.StatusUnauthorized), client.IsStatus(err, http.StatusForbidden):
		return ClassDenied
	}
	return ClassTransient
}

// Level is how a notice is styled.
type Level int

const (
	Info Level = iota
	Success
	Failure
)

// Notice is a transient user-visible message.
type Notice struct {
	ID    string
	Level Level
	Text  string
}

// Succeeded builds a success notice.
func Succeeded(text string) Notice {
	return Notice{ID: uuid.NewString(), Level: Success, Text: text}
}

// Informed builds a neutral notice.
func Informed(text string) Notice {
	return Notice{ID: uuid.NewString(), Level: Info, Text: text}
}

// Failed builds the single failure notice for err: the server's message
// when it sent one, the denial text for gate errors, else fallback.
func Failed(err error, fallback string) Notice {
	text := fallback
	var denied *gate.DeniedError
	if msg, ok := client.ServerMessage(err); ok {
		text = msg
	} else if errors.As(err, &denied) {
		text = denied.Error()
	}
	return Notice{ID: uuid.NewString(), Level: Failure, Text: text}
}
