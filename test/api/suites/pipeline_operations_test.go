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
package suites

import (
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	synapse "github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun"
	"github.com/unikorn-cloud/synapse/test/api"
)

var _ = Describe("Pipeline Operations", Label("integration", "requires_auth"), func() {
	Context("When discovering pipelines", func() {
		It("should list pipelines in the workspace", func() {
			// Given: A workspace
			// When: I list pipelines
			pipelines, err := client.ListPipelines(ctx)
			// Then: Every pipeline should be named
			Expect(err).NotTo(HaveOccurred())

			for _, pipeline := range pipelines {
				Expect(pipeline.Name).NotTo(BeEmpty())
				GinkgoWriter.Printf("Pipeline: %s\n", pipeline.Name)
			}
		})

		It("should return the activities of the configured pipeline", func() {
			// Given: The configured pipeline is deployed
			// When: I request its definition
			pipeline, err := client.GetPipeline(ctx, config.PipelineName)
			if synapse.IsStatus(err, http.StatusNotFound) {
				Skip("Pipeline not deployed: " + config.PipelineName)
			}

			// Then: It should carry at least one activity
			Expect(err).NotTo(HaveOccurred())
			Expect(pipeline.Properties.Activities).NotTo(BeEmpty())

			for _, activity := range pipeline.Properties.Activities {
				GinkgoWriter.Printf("Activity: %s (%s)\n", activity.Name, activity.Type)
			}
		})
	})

	Context("When triggering a pipeline run", func() {
		It("should start a run with a run ID", func() {
			// Given: Run parameters with today's ProcessDate
			parameters := api.NewRunParameters().Build()
			// When: I trigger the pipeline
			run := api.TriggerRunWithCleanup(ctx, client, config, parameters)
			// Then: The run should be tracked under the pipeline
			Expect(run.PipelineName).To(Equal(config.PipelineName))
			Expect(run.ProcessDate).To(Equal(parameters[pipelinerun.ProcessDateParameter]))
		})

		It("should report a known status for a started run", func() {
			// Given: A started run
			run := api.TriggerRunWithCleanup(ctx, client, config, api.NewRunParameters().Build())
			// When: I read its status once
			status, err := client.GetPipelineRun(ctx, run.RunID)
			// Then: The status should parse as a known value
			Expect(err).NotTo(HaveOccurred())
			Expect(status.RunID).To(Equal(run.RunID))

			_, err = pipelinerun.ParseStatus(string(status.Status))
			Expect(err).NotTo(HaveOccurred())

			GinkgoWriter.Printf("Run %s status: %s\n", run.RunID, status.Status)
		})

		It("should poll a started run", Label("slow"), func() {
			// Given: A started run
			run := api.TriggerRunWithCleanup(ctx, client, config, api.NewRunParameters().Build())
			// When: I poll until terminal or attempts run out
			polled, err := client.Poller.Poll(ctx, run.RunID, config.PollAttempts, config.PollInterval)
			// Then: The last observed state should be returned
			Expect(err).NotTo(HaveOccurred())
			Expect(polled.RunID).To(Equal(run.RunID))

			if polled.Status.IsTerminal() {
				GinkgoWriter.Printf("Run %s finished: %s %s\n", polled.RunID, polled.Status, polled.Message)
			} else {
				GinkgoWriter.Printf("Run %s still %s after %d attempts\n", polled.RunID, polled.Status, config.PollAttempts)
			}
		})
	})

	Context("When querying pipeline runs", func() {
		It("should return runs updated today", func() {
			// Given: A window covering today
			filter := synapse.DefaultRunQueryFilter(time.Now())
			// When: I query runs in the window
			runs, err := client.QueryPipelineRuns(ctx, filter)
			// Then: Every run should carry an identity and a pipeline name
			Expect(err).NotTo(HaveOccurred())

			for _, run := range runs {
				Expect(run.RunID).NotTo(BeEmpty())
				Expect(run.PipelineName).NotTo(BeEmpty())
			}

			GinkgoWriter.Printf("Found %d runs today\n", len(runs))
		})
	})

	Context("When cancelling a pipeline run", func() {
		It("should accept cancellation of a started run", func() {
			// Given: A started run
			run := api.TriggerRunWithCleanup(ctx, client, config, api.NewRunParameters().Build())
			// When: I cancel it
			cancelled, err := client.Poller.Cancel(ctx, run.RunID)
			// Then: The cancellation should be accepted
			Expect(err).NotTo(HaveOccurred())
			Expect(cancelled).To(BeTrue())
		})
	})
})
