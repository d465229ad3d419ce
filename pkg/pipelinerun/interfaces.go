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

package pipelinerun

import (
	"context"

	"github.com/unikorn-cloud/synapse/pkg/client"
)

//go:generate mockgen -source=interfaces.go -destination=mock/interfaces.go -package=mock

// RunClient is the subset of the workspace client the poller drives.
type RunClient interface {
	CreatePipelineRun(ctx context.Context, name string, parameters map[string]any) (*client.CreateRunResponse, error)
	GetPipelineRun(ctx context.Context, runID string) (*client.PipelineRun, error)
	CancelPipelineRun(ctx context.Context, runID string) (bool, error)
}

var _ RunClient = (*client.Client)(nil)
