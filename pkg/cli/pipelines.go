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

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun"
)

const (
	DefaultPollAttempts = 10
	DefaultPollInterval = 10 * time.Second
)

var ErrRunUnsuccessful = errors.New("pipeline run did not succeed")

type pipelineSummary struct {
	*client.Pipeline

	ActivityCount int `json:"activityCount"`
}

type cancellation struct {
	RunID     string `json:"runId"`
	Cancelled bool   `json:"cancelled"`
}

func newPipelinesCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "pipelines", func(ctx context.Context, options *Options) ([]client.Pipeline, error) {
		return options.Client.ListPipelines(ctx)
	}, func(p client.Pipeline) string {
		return p.Name
	})

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a pipeline and its activities",
		Args:  cobra.ExactArgs(1),
		RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
			pipeline, err := options.Client.GetPipeline(ctx, args[0])
			if err != nil {
				return err
			}

			return options.Printer.Print(&pipelineSummary{
				Pipeline:      pipeline,
				ActivityCount: len(pipeline.Properties.Activities),
			})
		}),
	}

	status := &cobra.Command{
		Use:   "status RUN_ID",
		Short: "Show the state of a pipeline run",
		Args:  cobra.ExactArgs(1),
		RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
			run, err := options.Client.GetPipelineRun(ctx, args[0])
			if err != nil {
				return err
			}

			return options.Printer.Print(run)
		}),
	}

	cancel := &cobra.Command{
		Use:   "cancel RUN_ID",
		Short: "Cancel a pipeline run, a run that already finished is not an error",
		Args:  cobra.ExactArgs(1),
		RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
			cancelled, err := options.Poller.Cancel(ctx, args[0])
			if err != nil {
				return err
			}

			return options.Printer.Print(&cancellation{RunID: args[0], Cancelled: cancelled})
		}),
	}

	return group("pipelines", "Inspect and run pipelines", list, get, newRunCommand(o), status, cancel, newQueryCommand(o))
}

type runOptions struct {
	parameters  map[string]string
	processDate string
	attempts    int
	interval    time.Duration
	wait        bool
}

func newRunCommand(o *RawOptions) *cobra.Command {
	r := &runOptions{
		attempts: DefaultPollAttempts,
		interval: DefaultPollInterval,
		wait:     true,
	}

	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Trigger a pipeline run and follow it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
			parameters := map[string]any{}

			for k, v := range r.parameters {
				parameters[k] = v
			}

			if r.processDate != "" {
				parameters[pipelinerun.ProcessDateParameter] = r.processDate
			}

			if !r.wait {
				run, err := options.Poller.Trigger(ctx, args[0], parameters)
				if err != nil {
					return err
				}

				return options.Printer.Print(run)
			}

			run, err := options.Poller.Run(ctx, args[0], parameters, r.attempts, r.interval)
			if err != nil {
				return err
			}

			if err := options.Printer.Print(run); err != nil {
				return err
			}

			switch {
			case run.Status == pipelinerun.StatusSucceeded:
				return nil
			case run.Status.IsTerminal():
				return fmt.Errorf("%w: run %s %s", ErrRunUnsuccessful, run.RunID, run.Status)
			}

			logr.FromContextOrDiscard(ctx).Info("pipeline run has not finished, check again with 'pipelines status'", "runID", run.RunID, "status", run.Status)

			return nil
		}),
	}

	flags := cmd.Flags()
	flags.StringToStringVarP(&r.parameters, "param", "p", nil, "pipeline parameter as key=value, may be repeated")
	flags.StringVar(&r.processDate, "process-date", "", "ProcessDate parameter as YYYY-MM-DD, defaults to today")
	flags.IntVar(&r.attempts, "attempts", r.attempts, "maximum number of status reads")
	flags.DurationVar(&r.interval, "interval", r.interval, "delay between status reads")
	flags.BoolVar(&r.wait, "wait", r.wait, "poll until the run finishes or attempts are exhausted")

	return cmd
}

func newQueryCommand(o *RawOptions) *cobra.Command {
	var after, before string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List pipeline runs updated in a window, defaulting to today",
		Args:  cobra.NoArgs,
		RunE: runner(o, func(ctx context.Context, options *Options, _ []string) error {
			filter := client.DefaultRunQueryFilter(time.Now())

			if after != "" {
				t, err := time.Parse(time.RFC3339, after)
				if err != nil {
					return fmt.Errorf("%w: --after: %w", ErrInvalidFlag, err)
				}

				filter.LastUpdatedAfter = t
			}

			if before != "" {
				t, err := time.Parse(time.RFC3339, before)
				if err != nil {
					return fmt.Errorf("%w: --before: %w", ErrInvalidFlag, err)
				}

				filter.LastUpdatedBefore = t
			}

			runs, err := options.Client.QueryPipelineRuns(ctx, filter)
			if err != nil {
				return err
			}

			return options.Printer.Print(runs)
		}),
	}

	cmd.Flags().StringVar(&after, "after", "", "lower bound on last update, RFC 3339")
	cmd.Flags().StringVar(&before, "before", "", "upper bound on last update, RFC 3339")

	return cmd
}
