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
	"context"
	"fmt"
	"net/http"
	"time"
)

func (c *Client) listDev(kind Kind) string {
	// Dev kinds are fixed so this cannot fail.
	url, _ := c.endpoints.Resource(kind)

	return url
}

// ListPipelines lists pipeline definitions.
func (c *Client) ListPipelines(ctx context.Context) ([]Pipeline, error) {
	return list[Pipeline](ctx, c, DevPlane, "pipelines", c.listDev(Pipelines), false)
}

// GetPipeline reads a pipeline definition including its activities.
func (c *Client) GetPipeline(ctx context.Context, name string) (*Pipeline, error) {
	var out pipelineDetail

	if err := get(ctx, c, DevPlane, "pipeline", c.endpoints.Pipeline(name), &out); err != nil {
		return nil, err
	}

	return &out.Pipeline, nil
}

// CreateRunRequest is the body of a createRun call.
type CreateRunRequest struct {
	Parameters map[string]any `json:"parameters"`
}

// CreatePipelineRun starts a pipeline run. Both 200 and 202 are success.
func (c *Client) CreatePipelineRun(ctx context.Context, name string, parameters map[string]any) (*CreateRunResponse, error) {
	if parameters == nil {
		parameters = map[string]any{}
	}

	request := &CreateRunRequest{
		Parameters: parameters,
	}

	//nolint:bodyclose // response body is closed in doRequest
	_, body, err := c.doRequest(ctx, DevPlane, http.MethodPost, c.endpoints.CreatePipelineRun(name), request, http.StatusOK, http.StatusAccepted)
	if err != nil {
		return nil, fmt.Errorf("creating pipeline run for %s: %w", name, err)
	}

	var out CreateRunResponse

	if err := decode("create pipeline run", body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// GetPipelineRun reads the state of a run.
func (c *Client) GetPipelineRun(ctx context.Context, runID string) (*PipelineRun, error) {
	var out PipelineRun

	if err := get(ctx, c, DevPlane, "pipeline run", c.endpoints.PipelineRun(runID), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// DefaultRunQueryFilter covers runs updated since midnight UTC today.
func DefaultRunQueryFilter(now time.Time) *RunQueryFilter {
	now = now.UTC()

	return &RunQueryFilter{
		LastUpdatedAfter:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		LastUpdatedBefore: now,
	}
}

// QueryPipelineRuns returns all runs matching the filter, following
// continuation tokens. A nil filter uses DefaultRunQueryFilter.
func (c *Client) QueryPipelineRuns(ctx context.Context, filter *RunQueryFilter) ([]PipelineRun, error) {
	if filter == nil {
		filter = DefaultRunQueryFilter(time.Now())
	}

	request := *filter
	seen := map[string]bool{}

	runs := []PipelineRun{}

	for {
		//nolint:bodyclose // response body is closed in doRequest
		_, body, err := c.doRequest(ctx, DevPlane, http.MethodPost, c.endpoints.QueryPipelineRuns(), &request, http.StatusOK)
		if err != nil {
			return nil, fmt.Errorf("querying pipeline runs: %w", err)
		}

		var page runQueryResponse

		if err := decode("query pipeline runs", body, &page); err != nil {
			return nil, err
		}

		for i := range page.Value {
			runs = append(runs, page.Value[i].PipelineRun)
		}

		if page.ContinuationToken == "" {
			return runs, nil
		}

		if seen[page.ContinuationToken] {
			return nil, &MalformedResponseError{Operation: "query pipeline runs", Err: fmt.Errorf("continuation token %s repeats", page.ContinuationToken)}
		}

		seen[page.ContinuationToken] = true
		request.ContinuationToken = page.ContinuationToken
	}
}

// CancelPipelineRun requests cancellation. It reports false, without error,
// when the service no longer knows the run.
func (c *Client) CancelPipelineRun(ctx context.Context, runID string) (bool, error) {
	//nolint:bodyclose // response body is closed in doRequest
	resp, _, err := c.doRequest(ctx, DevPlane, http.MethodPost, c.endpoints.CancelPipelineRun(runID), nil, http.StatusOK, http.StatusNotFound)
	if err != nil {
		return false, fmt.Errorf("cancelling pipeline run %s: %w", runID, err)
	}

	return resp.StatusCode == http.StatusOK, nil
}

// ListNotebooks lists notebooks.
func (c *Client) ListNotebooks(ctx context.Context) ([]Notebook, error) {
	return list[Notebook](ctx, c, DevPlane, "notebooks", c.listDev(Notebooks), false)
}

// GetNotebook reads a notebook including its properties.
func (c *Client) GetNotebook(ctx context.Context, name string) (*Notebook, error) {
	var out notebookDetail

	if err := get(ctx, c, DevPlane, "notebook", c.endpoints.Notebook(name), &out); err != nil {
		return nil, err
	}

	return &out.Notebook, nil
}

// ListLinkedServices lists linked services.
func (c *Client) ListLinkedServices(ctx context.Context) ([]LinkedService, error) {
	return list[LinkedService](ctx, c, DevPlane, "linked services", c.listDev(LinkedServices), false)
}

// ListDatasets lists datasets.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	return list[Dataset](ctx, c, DevPlane, "datasets", c.listDev(Datasets), false)
}
