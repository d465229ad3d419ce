/*
Copyright 2024-2025 the Unikorn Authors.

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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/unikorn-cloud/synapse/pkg/constants"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun"
)

// RunParametersBuilder builds pipeline run parameters for testing.
type RunParametersBuilder struct {
	parameters map[string]any
}

// NewRunParameters creates a builder with ProcessDate set to today.
func NewRunParameters() *RunParametersBuilder {
	return &RunParametersBuilder{
		parameters: map[string]any{
			pipelinerun.ProcessDateParameter: time.Now().Format(constants.ProcessDateLayout),
		},
	}
}

// WithProcessDate overrides the ProcessDate parameter.
func (b *RunParametersBuilder) WithProcessDate(date string) *RunParametersBuilder {
	b.parameters[pipelinerun.ProcessDateParameter] = date

	return b
}

// WithParameter sets an arbitrary pipeline parameter.
func (b *RunParametersBuilder) WithParameter(name string, value any) *RunParametersBuilder {
	b.parameters[name] = value

	return b
}

// Build returns the completed parameters.
func (b *RunParametersBuilder) Build() map[string]any {
	return b.parameters
}

// TriggerRunWithCleanup starts a run of the configured pipeline. When the
// service declines to start it the test is skipped, as the workspace may
// simply not have the pipeline deployed. The run is cancelled on cleanup,
// which is a no-op once it has finished.
func TriggerRunWithCleanup(ctx context.Context, client *APIClient, config *TestConfig, parameters map[string]any) *pipelinerun.Run {
	run, err := client.Poller.Trigger(ctx, config.PipelineName, parameters)
	if errors.Is(err, pipelinerun.ErrNotStarted) {
		Skip("Pipeline not found or cannot be triggered: " + err.Error())
	}

	Expect(err).NotTo(HaveOccurred())
	Expect(run.RunID).NotTo(BeEmpty())

	GinkgoWriter.Printf("Pipeline run started: %s\n", run.RunID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't leave runs behind
	DeferCleanup(func(ctx SpecContext) {
		if _, err := client.Poller.Cancel(client.Context(ctx), run.RunID); err != nil {
			GinkgoWriter.Printf("Warning: Failed to cancel pipeline run %s: %v\n", run.RunID, err)
		}
	})

	return run
}

// Names extracts resource names for presence checks.
func Names[T any](items []T, name func(T) string) []string {
	names := make([]string, len(items))

	for i := range items {
		names[i] = name(items[i])
	}

	return names
}

// VerifyNamePresence verifies that every expected name is in the list.
func VerifyNamePresence(kind string, names []string, expected ...string) {
	var missing []string

	for name := range set.New[string](expected...).Difference(set.New[string](names...)).All() {
		missing = append(missing, name)
	}

	Expect(missing).To(BeEmpty(), "Expected %s %v to be present in %v", kind, missing, names)
}
