// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmptyMessage is returned when Chat is called with a blank message.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMalformedResponse indicates the body could not be decoded or lacked
	// required fields.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrResponseTooLarge indicates the body exceeded the size limit.
	ErrResponseTooLarge = errors.New("response too large")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Detail     string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend returned HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
