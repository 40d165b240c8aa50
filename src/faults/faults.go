package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Category distinguishes the failure classes reported to callers.
type Category string

const (
	CategoryValidation  Category = "validation"
	CategoryAcquisition Category = "acquisition"
	CategoryOracle      Category = "oracle"
	CategoryConfig      Category = "config"
)

// Error is the structured failure returned by the verification core.
type Error struct {
	Category Category
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed caller input. No oracle call is made.
func Validation(msg string) *Error {
	return &Error{Category: CategoryValidation, Status: http.StatusBadRequest, Message: msg}
}

// Acquisition reports a failure to turn input into an oracle payload.
func Acquisition(status int, msg string, err error) *Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return &Error{Category: CategoryAcquisition, Status: status, Message: msg, Err: err}
}

// Oracle reports a transport or service failure while invoking the oracle.
func Oracle(err error) *Error {
	return &Error{Category: CategoryOracle, Status: http.StatusBadGateway, Message: "oracle request failed", Err: err}
}

// Config reports process-level misconfiguration (e.g. missing credential).
func Config(msg string) *Error {
	return &Error{Category: CategoryConfig, Status: http.StatusInternalServerError, Message: msg}
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// StatusOf maps err to an HTTP status, defaulting to 500.
func StatusOf(err error) int {
	if fe, ok := As(err); ok && fe.Status != 0 {
		return fe.Status
	}
	return http.StatusInternalServerError
}

// Is reports whether err carries a fault of the given category.
func Is(err error, c Category) bool {
	fe, ok := As(err)
	return ok && fe.Category == c
}
