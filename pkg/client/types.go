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
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// record is implemented by every decoded response type, it returns the
// JSON path of the first required field that is absent.
type record interface {
	missingField() string
}

// Workspace is the management plane view of a workspace.
type Workspace struct {
	ID         string               `json:"id,omitempty"`
	Name       string               `json:"name"`
	Location   string               `json:"location"`
	Properties *WorkspaceProperties `json:"properties"`
}

type WorkspaceProperties struct {
	DefaultDataLakeStorage   *DataLakeStorageAccountDetails `json:"defaultDataLakeStorage"`
	ProvisioningState        string                         `json:"provisioningState,omitempty"`
	ManagedResourceGroupName string                         `json:"managedResourceGroupName,omitempty"`
	ConnectivityEndpoints    map[string]string              `json:"connectivityEndpoints,omitempty"`
}

type DataLakeStorageAccountDetails struct {
	AccountURL string `json:"accountUrl,omitempty"`
	Filesystem string `json:"filesystem,omitempty"`
}

func (w *Workspace) missingField() string {
	switch {
	case w.Name == "":
		return "name"
	case w.Properties == nil:
		return "properties"
	case w.Properties.DefaultDataLakeStorage == nil:
		return "properties.defaultDataLakeStorage"
	}

	return ""
}

// SKU is the sizing of a dedicated SQL pool.
type SKU struct {
	Name     string `json:"name"`
	Tier     string `json:"tier,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}

// SQLPool is a dedicated SQL pool.
type SQLPool struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Location   string             `json:"location,omitempty"`
	SKU        *SKU               `json:"sku"`
	Properties *SQLPoolProperties `json:"properties,omitempty"`
}

type SQLPoolProperties struct {
	Status            string `json:"status,omitempty"`
	ProvisioningState string `json:"provisioningState,omitempty"`
	Collation         string `json:"collation,omitempty"`
	MaxSizeBytes      *int64 `json:"maxSizeBytes,omitempty"`
}

func (p *SQLPool) missingField() string {
	switch {
	case p.Name == "":
		return "name"
	case p.SKU == nil || p.SKU.Name == "":
		return "sku.name"
	}

	return ""
}

// sqlPoolStatus is a pool fetched to read its status.
type sqlPoolStatus struct {
	SQLPool
}

func (p *sqlPoolStatus) missingField() string {
	if p.Properties == nil || p.Properties.Status == "" {
		return "properties.status"
	}

	return ""
}

// SparkPool is an Apache Spark (big data) pool.
type SparkPool struct {
	ID         string               `json:"id,omitempty"`
	Name       string               `json:"name"`
	Location   string               `json:"location,omitempty"`
	Properties *SparkPoolProperties `json:"properties"`
}

type SparkPoolProperties struct {
	NodeSize          string               `json:"nodeSize"`
	NodeSizeFamily    string               `json:"nodeSizeFamily,omitempty"`
	NodeCount         *int32               `json:"nodeCount,omitempty"`
	SparkVersion      string               `json:"sparkVersion,omitempty"`
	ProvisioningState string               `json:"provisioningState,omitempty"`
	AutoScale         *AutoScaleProperties `json:"autoScale,omitempty"`
}

type AutoScaleProperties struct {
	Enabled      bool   `json:"enabled"`
	MinNodeCount *int32 `json:"minNodeCount,omitempty"`
	MaxNodeCount *int32 `json:"maxNodeCount,omitempty"`
}

func (p *SparkPool) missingField() string {
	switch {
	case p.Name == "":
		return "name"
	case p.Properties == nil || p.Properties.NodeSize == "":
		return "properties.nodeSize"
	}

	return ""
}

// FirewallRule is an IP firewall rule on the workspace.
type FirewallRule struct {
	ID         string                  `json:"id,omitempty"`
	Name       string                  `json:"name"`
	Properties *FirewallRuleProperties `json:"properties,omitempty"`
}

type FirewallRuleProperties struct {
	StartIPAddress    string `json:"startIpAddress,omitempty"`
	EndIPAddress      string `json:"endIpAddress,omitempty"`
	ProvisioningState string `json:"provisioningState,omitempty"`
}

func (r *FirewallRule) missingField() string {
	if r.Name == "" {
		return "name"
	}

	return ""
}

// IntegrationRuntime is a compute environment for data integration.
type IntegrationRuntime struct {
	ID         string                        `json:"id,omitempty"`
	Name       string                        `json:"name"`
	Properties *IntegrationRuntimeProperties `json:"properties"`
}

type IntegrationRuntimeProperties struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
}

func (r *IntegrationRuntime) missingField() string {
	switch {
	case r.Name == "":
		return "name"
	case r.Properties == nil || r.Properties.Type == "":
		return "properties.type"
	}

	return ""
}

// Pipeline is a workspace pipeline definition.
type Pipeline struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name"`
	Etag       string              `json:"etag,omitempty"`
	Properties *PipelineProperties `json:"properties,omitempty"`
}

type PipelineProperties struct {
	Description string                            `json:"description,omitempty"`
	Activities  []Activity                        `json:"activities"`
	Parameters  map[string]ParameterSpecification `json:"parameters,omitempty"`
}

type Activity struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type ParameterSpecification struct {
	Type         string          `json:"type"`
	DefaultValue json.RawMessage `json:"defaultValue,omitempty"`
}

func (p *Pipeline) missingField() string {
	if p.Name == "" {
		return "name"
	}

	return ""
}

// pipelineDetail is a pipeline fetched to inspect its activities.
type pipelineDetail struct {
	Pipeline
}

func (p *pipelineDetail) missingField() string {
	switch {
	case p.Properties == nil:
		return "properties"
	case p.Properties.Activities == nil:
		return "properties.activities"
	}

	return ""
}

// CreateRunResponse is returned by a pipeline createRun call.
type CreateRunResponse struct {
	RunID string `json:"runId"`
}

func (r *CreateRunResponse) missingField() string {
	if r.RunID == "" {
		return "runId"
	}

	return ""
}

// RunStatus is the scheduler reported state of a pipeline run.
type RunStatus string

const (
	RunQueued     RunStatus = "Queued"
	RunInProgress RunStatus = "InProgress"
	RunSucceeded  RunStatus = "Succeeded"
	RunFailed     RunStatus = "Failed"
	RunCancelling RunStatus = "Cancelling"
	RunCancelled  RunStatus = "Cancelled"
)

var ErrUnknownRunStatus = errors.New("unknown pipeline run status")

// ParseRunStatus accepts only the documented run statuses.
func ParseRunStatus(s string) (RunStatus, error) {
	switch status := RunStatus(s); status {
	case RunQueued, RunInProgress, RunSucceeded, RunFailed, RunCancelling, RunCancelled:
		return status, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRunStatus, s)
}

// IsTerminal reports whether no further transition can occur.
func (s RunStatus) IsTerminal() bool {
	return s == RunSucceeded || s == RunFailed || s == RunCancelled
}

func (s *RunStatus) UnmarshalText(text []byte) error {
	status, err := ParseRunStatus(string(text))
	if err != nil {
		return err
	}

	*s = status

	return nil
}

// PipelineRun is the state of a single pipeline run.
type PipelineRun struct {
	RunID         string            `json:"runId"`
	PipelineName  string            `json:"pipelineName,omitempty"`
	Status        RunStatus         `json:"status"`
	Message       string            `json:"message,omitempty"`
	RunStart      *time.Time        `json:"runStart,omitempty"`
	RunEnd        *time.Time        `json:"runEnd,omitempty"`
	DurationInMs  *int64            `json:"durationInMs,omitempty"`
	LastUpdated   *time.Time        `json:"lastUpdated,omitempty"`
	Parameters    map[string]string `json:"parameters,omitempty"`
	IsLatest      *bool             `json:"isLatest,omitempty"`
	RunGroupID    string            `json:"runGroupId,omitempty"`
	InvokedBy     *InvokedBy        `json:"invokedBy,omitempty"`
}

// InvokedBy identifies what started a run.
type InvokedBy struct {
	Name          string `json:"name,omitempty"`
	ID            string `json:"id,omitempty"`
	InvokedByType string `json:"invokedByType,omitempty"`
}

func (r *PipelineRun) missingField() string {
	if r.Status == "" {
		return "status"
	}

	return ""
}

// queriedRun is a run returned by queryPipelineRuns, which always carries
// its identity.
type queriedRun struct {
	PipelineRun
}

func (r *queriedRun) missingField() string {
	switch {
	case r.RunID == "":
		return "runId"
	case r.PipelineName == "":
		return "pipelineName"
	}

	return r.PipelineRun.missingField()
}

// RunQueryFilter bounds a pipeline run query by last update time.
type RunQueryFilter struct {
	LastUpdatedAfter  time.Time `json:"lastUpdatedAfter"`
	LastUpdatedBefore time.Time `json:"lastUpdatedBefore"`
	ContinuationToken string    `json:"continuationToken,omitempty"`
}

// runQueryResponse is one page of queried runs, an absent value is an
// empty page.
type runQueryResponse struct {
	Value             []queriedRun `json:"value"`
	ContinuationToken string       `json:"continuationToken,omitempty"`
}

func (r *runQueryResponse) missingField() string {
	for i := range r.Value {
		if field := r.Value[i].missingField(); field != "" {
			return fmt.Sprintf("value[%d].%s", i, field)
		}
	}

	return ""
}

// Notebook is a workspace notebook.
type Notebook struct {
	ID         string              `json:"id,omitempty"`
	Name       string              `json:"name"`
	Etag       string              `json:"etag,omitempty"`
	Properties *NotebookProperties `json:"properties,omitempty"`
}

type NotebookProperties struct {
	Description string            `json:"description,omitempty"`
	BigDataPool *Reference        `json:"bigDataPool,omitempty"`
	Cells       []json.RawMessage `json:"cells,omitempty"`
}

type Reference struct {
	ReferenceName string `json:"referenceName"`
	Type          string `json:"type,omitempty"`
}

func (n *Notebook) missingField() string {
	if n.Name == "" {
		return "name"
	}

	return ""
}

type notebookDetail struct {
	Notebook
}

func (n *notebookDetail) missingField() string {
	if n.Properties == nil {
		return "properties"
	}

	return ""
}

// LinkedService is a connection definition to an external store.
type LinkedService struct {
	ID         string                   `json:"id,omitempty"`
	Name       string                   `json:"name"`
	Properties *LinkedServiceProperties `json:"properties,omitempty"`
}

type LinkedServiceProperties struct {
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

func (s *LinkedService) missingField() string {
	if s.Name == "" {
		return "name"
	}

	return ""
}

// Dataset is a named view of data in a linked service.
type Dataset struct {
	ID         string             `json:"id,omitempty"`
	Name       string             `json:"name"`
	Properties *DatasetProperties `json:"properties,omitempty"`
}

type DatasetProperties struct {
	Type              string     `json:"type,omitempty"`
	Description       string     `json:"description,omitempty"`
	LinkedServiceName *Reference `json:"linkedServiceName,omitempty"`
}

func (d *Dataset) missingField() string {
	if d.Name == "" {
		return "name"
	}

	return ""
}

// listResponse is the envelope of every list call on both planes.
type listResponse[T any] struct {
	Value    *[]T   `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}
