package net

import (
	"net/http"

	perr "lorebook/internal/platform/errors"
)

// Wire is the error envelope shared by every transport
// success bodies are written bare so only failures use it
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code"`
	Error      string         `json:"error"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
}

// Error builds an error envelope
// a nil error maps to Unknown so callers never emit an empty 200 envelope by accident
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		err = perr.Internalf("unknown error")
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
