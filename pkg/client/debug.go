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
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"regexp"
)

var bearerRegex = regexp.MustCompile(`(?m)^(Authorization: Bearer )\S+`)

// debuggingRoundTripper dumps requests and responses with bearer tokens
// replaced.
type debuggingRoundTripper struct {
	out      io.Writer
	delegate Doer
}

var _ Doer = (*debuggingRoundTripper)(nil)

func (d *debuggingRoundTripper) Do(request *http.Request) (*http.Response, error) {
	raw, err := httputil.DumpRequestOut(request, true)
	if err != nil {
		return nil, fmt.Errorf("failed to dump request: %w", err)
	}

	raw = bearerRegex.ReplaceAll(raw, []byte("${1}REDACTED"))
	fmt.Fprintln(d.out, string(bytes.TrimSpace(raw)))

	resp, err := d.delegate.Do(request)
	if err != nil {
		return resp, err
	}

	raw, err = httputil.DumpResponse(resp, true)
	if err != nil {
		return resp, fmt.Errorf("failed to dump response: %w", err)
	}

	fmt.Fprintln(d.out, string(bytes.TrimSpace(raw)))

	return resp, nil
}
