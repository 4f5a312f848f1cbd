package search

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when an operation is already in flight.
var ErrBusy = errors.New("search: operation already in flight")

// errNoResidentsField marks a next-batch record without a residents list.
var errNoResidentsField = errors.New("record has no residents field")

// ErrorKind classifies the failure shown to the user.
type ErrorKind string

const (
	// KindNotFound: the name matched no planet.
	KindNotFound ErrorKind = "not_found"

	// KindEmptyResult: the planet has no residents.
	KindEmptyResult ErrorKind = "empty_result"

	// KindResidentFetch: at least one resident fetch in a batch failed.
	KindResidentFetch ErrorKind = "resident_fetch"

	// KindLookup: the planet search call itself failed.
	KindLookup ErrorKind = "lookup"

	// KindPaging: the next-batch record could not be read.
	KindPaging ErrorKind = "paging"
)

var messages = map[ErrorKind]string{
	KindNotFound:      "Planet not found.",
	KindEmptyResult:   "No residents found for this planet.",
	KindResidentFetch: "Error retrieving resident data.",
	KindLookup:        "Error retrieving planet data.",
	KindPaging:        "Error retrieving next page data.",
}

// Message returns the user-facing text for k.
func (k ErrorKind) Message() string {
	return messages[k]
}

// Error is the single active error of a controller.
type Error struct {
	Kind  ErrorKind
	Cause error
}

// Message returns the static user-facing text.
func (e *Error) Message() string {
	return e.Kind.Message()
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind.Message(), e.Cause)
	}
	return e.Kind.Message()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
