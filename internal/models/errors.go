package models

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInFlight is returned when an operation is already waiting on the backend
var ErrInFlight = errors.New("request already in progress")

var errEmptyPayload = errors.New("empty payload")

// DefaultFetchMessage is shown when the backend gave no usable message
const DefaultFetchMessage = "An error occurred while connecting to the server."

// ValidationError reports missing or invalid user input. It never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError reports a transport failure or non-2xx response
type FetchError struct {
	// Op is the backend operation, e.g. "list commits"
	Op string
	// StatusCode is 0 when no response was received
	StatusCode int
	// Message is the human readable cause, from the response body when available
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.message())
	}
	return fmt.Sprintf("%s: %s", e.Op, e.message())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the backend answered 404
func (e *FetchError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func (e *FetchError) message() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return DefaultFetchMessage
}

// ParseError reports malformed JSON where structure is required
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.What, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 FetchError
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.NotFound()
}

// UserMessage converts an error into the single line shown to the user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		if fe.Message != "" {
			return fe.Message
		}
		return DefaultFetchMessage
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("Failed to parse the %s response.", pe.What)
	}
	return err.Error()
}
