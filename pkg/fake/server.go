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

// Package fake provides an in-process stand in for the Synapse management
// and workspace endpoints. Responses are scripted per route and every
// request is recorded for later assertion.
package fake

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/constants"
	"github.com/unikorn-cloud/synapse/pkg/workspace"
)

const (
	WorkspaceName  = "test-workspace"
	SubscriptionID = "00000000-0000-0000-0000-000000000000"
	ResourceGroup  = "rg-synapse"
)

// Response is a single scripted reply. Body is sent verbatim when it is a
// string or []byte, otherwise it is encoded as JSON.
type Response struct {
	Status int
	Body   any
}

// Request is a recorded inbound request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Query  map[string][]string
	Body   []byte
}

type script struct {
	responses []Response
	served    int
}

// next returns scripted responses in order, repeating the last once the
// script is exhausted.
func (s *script) next() Response {
	i := min(s.served, len(s.responses)-1)
	s.served++

	return s.responses[i]
}

// Server is a fake Synapse service.
type Server struct {
	*httptest.Server

	lock     sync.Mutex
	scripts  map[string]*script
	requests []Request
}

// NewServer starts a fake server, call Close when done.
func NewServer() *Server {
	s := &Server{
		scripts: map[string]*script{},
	}

	s.Server = httptest.NewServer(s.router())

	return s
}

func key(method, path string) string {
	return method + " " + path
}

// ManagementPath returns the server path of the workspace resource, or of
// a resource beneath it.
func ManagementPath(segments ...string) string {
	path := fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s", SubscriptionID, ResourceGroup, workspace.ResourceType, WorkspaceName)

	if len(segments) == 0 {
		return path
	}

	return path + "/" + strings.Join(segments, "/")
}

// DevPath returns the server path of a workspace plane resource.
func DevPath(segments ...string) string {
	return "/" + strings.Join(segments, "/")
}

// Workspace returns a workspace context with both planes pointed at the server.
func (s *Server) Workspace() (*workspace.Context, error) {
	return workspace.New(WorkspaceName, SubscriptionID, ResourceGroup,
		workspace.WithManagementBaseURL(s.URL),
		workspace.WithDevBaseURL(s.URL),
	)
}

// Script sets the responses for a route, replacing any previous script.
// A route scripted without responses answers 500.
func (s *Server) Script(method, path string, responses ...Response) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.scripts[key(method, path)] = &script{
		responses: responses,
	}
}

// RunStatuses scripts the status endpoint of a run to report each status in
// turn.
func (s *Server) RunStatuses(pipelineName, runID string, statuses ...client.RunStatus) {
	responses := make([]Response, len(statuses))

	for i, status := range statuses {
		responses[i] = Response{
			Status: http.StatusOK,
			Body: map[string]any{
				"runId":        runID,
				"pipelineName": pipelineName,
				"status":       status,
			},
		}
	}

	s.Script(http.MethodGet, DevPath("pipelineruns", runID), responses...)
}

// SQLPoolStatus scripts a pool to report the given status.
func (s *Server) SQLPoolStatus(pool, status string) {
	s.Script(http.MethodGet, ManagementPath("sqlPools", pool), Response{
		Status: http.StatusOK,
		Body: map[string]any{
			"name": pool,
			"sku": map[string]any{
				"name": "DW100c",
			},
			"properties": map[string]any{
				"status": status,
			},
		},
	})
}

// Requests returns every recorded request.
func (s *Server) Requests() []Request {
	s.lock.Lock()
	defer s.lock.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)

	return out
}

// RequestsTo returns the recorded requests for a method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request

	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}

	return out
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NotFound", "no route for "+r.URL.Path)
	})

	r.Route(ManagementPath(), func(r chi.Router) {
		r.Use(s.record, requireBearer, requireAPIVersion(constants.ManagementAPIVersion))
		r.Get("/", s.serve)
		r.Get("/{kind}", s.serve)
		r.Get("/sqlPools/{pool}", s.serve)
		r.Post("/sqlPools/{pool}/{action}", s.serve)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.record, requireBearer, requireAPIVersion(constants.DevAPIVersion))
		r.Get("/{kind}", s.serve)
		r.Get("/{kind}/{name}", s.serve)
		r.Post("/pipelines/{pipeline}/createRun", s.serve)
		r.Post("/pipelineruns/{runID}/cancel", s.serve)
		r.Post("/queryPipelineRuns", s.serve)
	})

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BadRequest", err.Error())
			return
		}

		s.lock.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Header: r.Header.Clone(),
			Query:  r.URL.Query(),
			Body:   body,
		})
		s.lock.Unlock()

		next.ServeHTTP(w, r)
	})
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "AuthenticationFailed", "missing bearer token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requireAPIVersion(version string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("api-version"); got != version {
				writeError(w, http.StatusBadRequest, "InvalidApiVersionParameter", fmt.Sprintf("api-version %q is not supported", got))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.lock.Lock()

	script, ok := s.scripts[key(r.Method, r.URL.Path)]
	if !ok {
		s.lock.Unlock()
		writeError(w, http.StatusNotFound, "NotFound", fmt.Sprintf("%s %s is not scripted", r.Method, r.URL.Path))

		return
	}

	if len(script.responses) == 0 {
		s.lock.Unlock()
		writeError(w, http.StatusInternalServerError, "EmptyScript", fmt.Sprintf("%s %s has no scripted responses", r.Method, r.URL.Path))

		return
	}

	response := script.next()

	s.lock.Unlock()

	write(w, response.Status, response.Body)
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("x-ms-request-id", uuid.NewString())

	var data []byte

	switch t := body.(type) {
	case nil:
	case string:
		data = []byte(t)
	case []byte:
		data = t
	default:
		var err error

		if data, err = json.Marshal(t); err != nil {
			status = http.StatusInternalServerError
			data = []byte(err.Error())
		}
	}

	if len(data) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}

	w.WriteHeader(status)

	//nolint:errcheck
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	write(w, status, map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
