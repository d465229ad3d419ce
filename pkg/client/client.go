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

// Package client is a bearer authenticated client for the Synapse
// management and workspace (dev) planes. Every call is a single attempt,
// there are no retries and tokens are requested afresh for each request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/unikorn-cloud/synapse/pkg/constants"
	"github.com/unikorn-cloud/synapse/pkg/credentials"
	"github.com/unikorn-cloud/synapse/pkg/workspace"
)

const (
	// DefaultTimeout bounds a single request when no HTTP client is supplied.
	DefaultTimeout = 30 * time.Second

	// ClientRequestIDHeader is echoed by Azure so failures can be correlated.
	ClientRequestIDHeader = "x-ms-client-request-id"

	// RequestIDHeader is the service assigned request ID.
	RequestIDHeader = "x-ms-request-id"
)

var (
	ErrMissingWorkspace  = errors.New("workspace context is required")
	ErrMissingCredential = errors.New("token credential is required")
)

// Doer sends a single HTTP request, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type options struct {
	client  Doer
	timeout time.Duration
	debug   io.Writer
}

// Option modifies client construction.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client Doer) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithDebug dumps every request and response to w with tokens redacted.
func WithDebug(w io.Writer) Option {
	return func(o *options) {
		o.debug = w
	}
}

// Client talks to a single workspace. It holds no mutable state and is
// safe for concurrent use.
type Client struct {
	workspace  *workspace.Context
	credential azcore.TokenCredential
	client     Doer
	endpoints  *Endpoints
}

// New creates a client for the workspace using the given credential.
func New(ws *workspace.Context, credential azcore.TokenCredential, opts ...Option) (*Client, error) {
	if ws == nil {
		return nil, ErrMissingWorkspace
	}

	if credential == nil {
		return nil, ErrMissingCredential
	}

	o := &options{
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(o)
	}

	var client Doer = &http.Client{
		Timeout: o.timeout,
	}

	if o.client != nil {
		client = o.client
	}

	if o.debug != nil {
		client = &debuggingRoundTripper{
			out:      o.debug,
			delegate: client,
		}
	}

	return &Client{
		workspace:  ws,
		credential: credential,
		client:     client,
		endpoints:  NewEndpoints(ws),
	}, nil
}

// Workspace returns the workspace the client is bound to.
func (c *Client) Workspace() *workspace.Context {
	return c.workspace
}

// Endpoints returns the URL builder for the workspace.
func (c *Client) Endpoints() *Endpoints {
	return c.endpoints
}

// Token requests a bearer token for the audience from the credential.
func (c *Client) Token(ctx context.Context, audience credentials.Audience) (string, error) {
	scope, err := audience.Scope()
	if err != nil {
		return "", &AuthenticationError{Audience: string(audience), Err: err}
	}

	token, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{scope},
	})
	if err != nil {
		return "", &AuthenticationError{Audience: string(audience), Err: err}
	}

	return token.Token, nil
}

// Headers returns the headers common to every request for the audience.
func (c *Client) Headers(ctx context.Context, audience credentials.Audience) (http.Header, error) {
	token, err := c.Token(ctx, audience)
	if err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Content-Type", "application/json")

	return header, nil
}

// ResourceURL returns the fully qualified URL of a kind's collection, or of
// the named member.
func (c *Client) ResourceURL(kind Kind, name ...string) (string, error) {
	return c.endpoints.Resource(kind, name...)
}

func audienceFor(plane Plane) credentials.Audience {
	if plane == DevPlane {
		return credentials.Dev
	}

	return credentials.Management
}

// doRequest performs a single attempt. The response body is read and closed
// before returning, a status not in expected yields an UnexpectedStatusError
// alongside the response so callers can inspect it.
//
//nolint:cyclop
func (c *Client) doRequest(ctx context.Context, plane Plane, method, url string, body any, expected ...int) (*http.Response, []byte, error) {
	log := logr.FromContextOrDiscard(ctx)

	header, err := c.Headers(ctx, audienceFor(plane))
	if err != nil {
		return nil, nil, err
	}

	var reader io.Reader = http.NoBody

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("marshaling request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()

	req.Header = header
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constants.UserAgent())
	req.Header.Set(ClientRequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "method", method, "url", url, "duration", duration, "clientRequestID", requestID)

		return nil, nil, &TransportError{Method: method, URL: url, Err: err}
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if id := resp.Header.Get(RequestIDHeader); id != "" {
		requestID = id
	}

	log.V(1).Info("http request", "method", method, "url", url, "status", resp.StatusCode, "duration", duration, "requestID", requestID)

	if len(expected) > 0 && !slices.Contains(expected, resp.StatusCode) {
		err := &UnexpectedStatusError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Expected:   expected,
			Body:       string(respBody),
			RequestID:  requestID,
		}

		log.V(1).Info("unexpected status", "method", method, "url", url, "status", resp.StatusCode, "requestID", requestID)

		return resp, respBody, err
	}

	return resp, respBody, nil
}

// decode unmarshals a response and checks the record's required fields.
func decode(operation string, data []byte, out record) error {
	if err := json.Unmarshal(data, out); err != nil {
		return &MalformedResponseError{Operation: operation, Err: err}
	}

	if field := out.missingField(); field != "" {
		return &MalformedResponseError{Operation: operation, Field: field}
	}

	return nil
}

// get fetches a single record.
func get(ctx context.Context, c *Client, plane Plane, operation, url string, out record) error {
	//nolint:bodyclose // response body is closed in doRequest
	_, body, err := c.doRequest(ctx, plane, http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return fmt.Errorf("getting %s: %w", operation, err)
	}

	return decode(operation, body, out)
}

// ErrForeignLink is returned when a page link points away from the plane.
var ErrForeignLink = errors.New("nextLink leaves the service endpoint")

// sameOrigin checks a link returned by the service points back at the
// plane's base URL, the plane's token is attached to every page request.
func (c *Client) sameOrigin(plane Plane, link string) error {
	base, _ := c.endpoints.base(plane)

	expected, err := url.Parse(base)
	if err != nil {
		return err
	}

	actual, err := url.Parse(link)
	if err != nil {
		return err
	}

	if actual.Scheme != expected.Scheme || !strings.EqualFold(actual.Host, expected.Host) {
		return fmt.Errorf("%w: %s://%s", ErrForeignLink, actual.Scheme, actual.Host)
	}

	return nil
}

// list fetches every page of a collection, following nextLink. When strict
// is set a page without a value array is malformed, otherwise it ends the
// listing.
func list[T any, PT interface {
	*T
	record
}](ctx context.Context, c *Client, plane Plane, operation, url string, strict bool) ([]T, error) {
	items := []T{}
	seen := map[string]bool{}

	for url != "" {
		if seen[url] {
			return nil, &MalformedResponseError{Operation: operation, Err: fmt.Errorf("nextLink %s repeats", url)}
		}

		seen[url] = true

		//nolint:bodyclose // response body is closed in doRequest
		_, body, err := c.doRequest(ctx, plane, http.MethodGet, url, nil, http.StatusOK)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", operation, err)
		}

		var page listResponse[T]

		if err := json.Unmarshal(body, &page); err != nil {
			return nil, &MalformedResponseError{Operation: operation, Err: err}
		}

		if page.Value == nil {
			if strict {
				return nil, &MalformedResponseError{Operation: operation, Field: "value"}
			}

			break
		}

		for i := range *page.Value {
			if field := PT(&(*page.Value)[i]).missingField(); field != "" {
				return nil, &MalformedResponseError{Operation: operation, Field: fmt.Sprintf("value[%d].%s", i, field)}
			}
		}

		items = append(items, *page.Value...)

		if page.NextLink != "" {
			if err := c.sameOrigin(plane, page.NextLink); err != nil {
				return nil, &MalformedResponseError{Operation: operation, Err: err}
			}
		}

		url = page.NextLink
	}

	return items, nil
}
