package entsoe

import (
	"errors"
	"fmt"
)

// ErrRetrieval is matched by every error returned for a failed download.
var ErrRetrieval = errors.New("retrieval failed")

// RetrievalError describes a failed download.
type RetrievalError struct {
	Query      Query
	StatusCode int    // HTTP status, 0 if no response was received
	Reason     string // acknowledgement reason text, if any
	Err        error
}

func (e *RetrievalError) Error() string {
	msg := fmt.Sprintf("retrieve %s %s", e.Query.Kind, e.Query.Name())
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RetrievalError) Unwrap() error { return e.Err }

func (e *RetrievalError) Is(target error) bool { return target == ErrRetrieval }
