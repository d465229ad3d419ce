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
	"net/url"
	"strings"

	"github.com/unikorn-cloud/synapse/pkg/workspace"
)

var ErrUnknownKind = errors.New("unknown resource kind")

// Plane selects which base URL and API version a resource lives under.
type Plane int

const (
	ManagementPlane Plane = iota
	DevPlane
)

// Kind is a collection of resources addressable on one of the planes.
type Kind string

const (
	SQLPools            Kind = "sqlPools"
	BigDataPools        Kind = "bigDataPools"
	FirewallRules       Kind = "firewallRules"
	IntegrationRuntimes Kind = "integrationRuntimes"
	Pipelines           Kind = "pipelines"
	PipelineRuns        Kind = "pipelineruns"
	Notebooks           Kind = "notebooks"
	Datasets            Kind = "datasets"
	LinkedServices      Kind = "linkedservices"
)

// Plane returns the plane the kind is served from.
func (k Kind) Plane() (Plane, error) {
	switch k {
	case SQLPools, BigDataPools, FirewallRules, IntegrationRuntimes:
		return ManagementPlane, nil
	case Pipelines, PipelineRuns, Notebooks, Datasets, LinkedServices:
		return DevPlane, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// Endpoints contains all API endpoint patterns.
type Endpoints struct {
	workspace *workspace.Context
}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints(ws *workspace.Context) *Endpoints {
	return &Endpoints{
		workspace: ws,
	}
}

func (e *Endpoints) base(plane Plane) (string, string) {
	if plane == DevPlane {
		return e.workspace.DevURL(), e.workspace.DevAPIVersion()
	}

	return e.workspace.ManagementURL(), e.workspace.ManagementAPIVersion()
}

// build joins escaped path segments onto the plane base URL and appends
// the plane's api-version.
func (e *Endpoints) build(plane Plane, segments ...string) string {
	base, version := e.base(plane)

	var b strings.Builder

	b.WriteString(base)

	for _, segment := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(segment))
	}

	query := url.Values{}
	query.Set("api-version", version)

	return b.String() + "?" + query.Encode()
}

// Resource returns the collection URL for a kind, or the URL of a single
// named member when name is given.
func (e *Endpoints) Resource(kind Kind, name ...string) (string, error) {
	plane, err := kind.Plane()
	if err != nil {
		return "", err
	}

	return e.build(plane, append([]string{string(kind)}, name...)...), nil
}

// Workspace endpoint.
func (e *Endpoints) Workspace() string {
	return e.build(ManagementPlane)
}

// SQL pool endpoints.
func (e *Endpoints) SQLPool(name string) string {
	return e.build(ManagementPlane, string(SQLPools), name)
}

func (e *Endpoints) PauseSQLPool(name string) string {
	return e.build(ManagementPlane, string(SQLPools), name, "pause")
}

func (e *Endpoints) ResumeSQLPool(name string) string {
	return e.build(ManagementPlane, string(SQLPools), name, "resume")
}

// Pipeline endpoints.
func (e *Endpoints) Pipeline(name string) string {
	return e.build(DevPlane, string(Pipelines), name)
}

func (e *Endpoints) CreatePipelineRun(name string) string {
	return e.build(DevPlane, string(Pipelines), name, "createRun")
}

// Pipeline run endpoints.
func (e *Endpoints) PipelineRun(runID string) string {
	return e.build(DevPlane, string(PipelineRuns), runID)
}

func (e *Endpoints) CancelPipelineRun(runID string) string {
	return e.build(DevPlane, string(PipelineRuns), runID, "cancel")
}

func (e *Endpoints) QueryPipelineRuns() string {
	return e.build(DevPlane, "queryPipelineRuns")
}

// Notebook endpoints.
func (e *Endpoints) Notebook(name string) string {
	return e.build(DevPlane, string(Notebooks), name)
}
