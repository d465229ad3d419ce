/*
Copyright 2025 the Unikorn Authors.
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package client

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// AuthenticationError is returned when the credential cannot produce a token.
type AuthenticationError struct {
	Audience string
	Err      error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("acquiring %s token: %v", e.Audience, e.Err)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// TransportError is returned when a request never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http request failed [%s %s]: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnexpectedStatusError is returned when a response status is not one the
// operation documents as success.
type UnexpectedStatusError struct {
	Method     string
	URL        string
	StatusCode int
	Expected   []int
	Body       string
	RequestID  string
}

func (e *UnexpectedStatusError) Error() string {
	expected := make([]string, len(e.Expected))
	for i, code := range e.Expected {
		expected[i] = strconv.Itoa(code)
	}

	return fmt.Sprintf("unexpected status code [%s %s]: expected %s, got %d, body: %s (request ID: %s)", e.Method, e.URL, strings.Join(expected, " or "), e.StatusCode, e.Body, e.RequestID)
}

// MalformedResponseError is returned when a response cannot be decoded or
// lacks a field the operation relies on.
type MalformedResponseError struct {
	Operation string
	Field     string
	Err       error
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed %s response: missing field %q", e.Operation, e.Field)
	}

	return fmt.Sprintf("malformed %s response: %v", e.Operation, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status from an UnexpectedStatusError anywhere
// in the chain.
func StatusCode(err error) (int, bool) {
	var statusErr *UnexpectedStatusError
	if !errors.As(err, &statusErr) {
		return 0, false
	}

	return statusErr.StatusCode, true
}

// IsStatus reports whether err carries one of the given status codes.
func IsStatus(err error, codes ...int) bool {
	code, ok := StatusCode(err)

	return ok && slices.Contains(codes, code)
}
