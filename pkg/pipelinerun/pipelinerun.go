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

// Package pipelinerun triggers pipeline runs and follows them until the
// service reports a terminal state.
package pipelinerun

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/constants"

	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	// ProcessDateParameter is the pipeline parameter every run carries.
	ProcessDateParameter = "ProcessDate"
)

var (
	// ErrNotStarted is returned when the service declined to start a run.
	// Callers usually treat it as a skip rather than a failure.
	ErrNotStarted = errors.New("pipeline run not started")

	ErrInvalidAttempts = errors.New("max attempts must be at least 1")
	ErrInvalidInterval = errors.New("poll interval must not be negative")
)

// Status is the server reported run state.
type Status = client.RunStatus

const (
	StatusQueued     = client.RunQueued
	StatusInProgress = client.RunInProgress
	StatusSucceeded  = client.RunSucceeded
	StatusFailed     = client.RunFailed
	StatusCancelling = client.RunCancelling
	StatusCancelled  = client.RunCancelled
)

// ParseStatus accepts only known run statuses.
func ParseStatus(s string) (Status, error) {
	return client.ParseRunStatus(s)
}

// Run is the last observed state of a pipeline run.
type Run struct {
	RunID        string     `json:"runId"`
	PipelineName string     `json:"pipelineName,omitempty"`
	Status       Status     `json:"status"`
	ProcessDate  string     `json:"processDate,omitempty"`
	Message      string     `json:"message,omitempty"`
	RunStart     *time.Time `json:"runStart,omitempty"`
	RunEnd       *time.Time `json:"runEnd,omitempty"`
	DurationInMs *int64     `json:"durationInMs,omitempty"`
}

// Option modifies poller construction.
type Option func(*Poller)

// WithClock replaces the source of today's date.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		p.now = now
	}
}

// Poller drives the run lifecycle of a workspace.
type Poller struct {
	client RunClient
	now    func() time.Time
}

// New creates a poller.
func New(client RunClient, options ...Option) *Poller {
	p := &Poller{
		client: client,
		now:    time.Now,
	}

	for _, o := range options {
		o(p)
	}

	return p
}

// processDate returns a copy of parameters with ProcessDate defaulted to
// today. A supplied value is sent as is, the service decides if it is valid.
func (p *Poller) processDate(parameters map[string]any) (map[string]any, string) {
	out := maps.Clone(parameters)
	if out == nil {
		out = map[string]any{}
	}

	value, ok := out[ProcessDateParameter]
	if !ok {
		date := p.now().Format(constants.ProcessDateLayout)
		out[ProcessDateParameter] = date

		return out, date
	}

	return out, fmt.Sprint(value)
}

// Trigger starts a run of the named pipeline. The service is authoritative
// for the run ID, the returned run is always Queued. A response other than
// 200 or 202 with a run ID yields ErrNotStarted.
func (p *Poller) Trigger(ctx context.Context, pipelineName string, parameters map[string]any) (*Run, error) {
	log := logr.FromContextOrDiscard(ctx)

	parameters, date := p.processDate(parameters)

	response, err := p.client.CreatePipelineRun(ctx, pipelineName, parameters)
	if err != nil {
		var statusErr *client.UnexpectedStatusError

		var malformedErr *client.MalformedResponseError

		if errors.As(err, &statusErr) || errors.As(err, &malformedErr) {
			log.Info("pipeline run not started", "pipeline", pipelineName, "error", err.Error())

			return nil, fmt.Errorf("%w: %w", ErrNotStarted, err)
		}

		return nil, err
	}

	log.Info("pipeline run triggered", "pipeline", pipelineName, "runID", response.RunID, "processDate", date)

	return &Run{
		RunID:        response.RunID,
		PipelineName: pipelineName,
		Status:       StatusQueued,
		ProcessDate:  date,
	}, nil
}

// Poll reads the run status up to maxAttempts times, sleeping interval
// between reads. It returns as soon as a terminal status is seen. When
// attempts run out the last observed run is returned without error, the
// caller decides what a non-terminal result means. Any failure to read
// the status is fatal.
func (p *Poller) Poll(ctx context.Context, runID string, maxAttempts int, interval time.Duration) (*Run, error) {
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAttempts, maxAttempts)
	}

	if interval < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidInterval, interval)
	}

	log := logr.FromContextOrDiscard(ctx)

	// Fixed delay, no growth and no jitter.
	backoff := wait.Backoff{
		Duration: interval,
		Steps:    maxAttempts,
	}

	var (
		run     *Run
		readErr error
	)

	attempt := 0

	condition := func(ctx context.Context) (bool, error) {
		attempt++

		current, err := p.client.GetPipelineRun(ctx, runID)
		if err != nil {
			readErr = fmt.Errorf("reading status of run %s: %w", runID, err)

			return false, readErr
		}

		run = fromPipelineRun(runID, current)

		log.V(1).Info("polled pipeline run", "runID", runID, "attempt", attempt, "maxAttempts", maxAttempts, "status", run.Status)

		return run.Status.IsTerminal(), nil
	}

	if err := wait.ExponentialBackoffWithContext(ctx, backoff, condition); err != nil {
		if readErr != nil {
			return nil, readErr
		}

		if !wait.Interrupted(err) || ctx.Err() != nil {
			return nil, err
		}

		log.Info("pipeline run still running after polling", "runID", runID, "attempts", attempt, "status", run.Status)

		return run, nil
	}

	log.Info("pipeline run finished", "runID", runID, "status", run.Status)

	return run, nil
}

func fromPipelineRun(runID string, in *client.PipelineRun) *Run {
	run := &Run{
		RunID:        in.RunID,
		PipelineName: in.PipelineName,
		Status:       in.Status,
		Message:      in.Message,
		RunStart:     in.RunStart,
		RunEnd:       in.RunEnd,
		DurationInMs: in.DurationInMs,
	}

	if run.RunID == "" {
		run.RunID = runID
	}

	if date, ok := in.Parameters[ProcessDateParameter]; ok {
		run.ProcessDate = date
	}

	return run
}

// Cancel requests cancellation of a run. A run the service no longer
// knows about has already finished, so that is also success.
func (p *Poller) Cancel(ctx context.Context, runID string) (bool, error) {
	log := logr.FromContextOrDiscard(ctx)

	found, err := p.client.CancelPipelineRun(ctx, runID)
	if err != nil {
		return false, err
	}

	if !found {
		log.Info("pipeline run already finished", "runID", runID)
	} else {
		log.Info("pipeline run cancellation requested", "runID", runID)
	}

	return true, nil
}

// Run triggers a pipeline and polls it.
func (p *Poller) Run(ctx context.Context, pipelineName string, parameters map[string]any, maxAttempts int, interval time.Duration) (*Run, error) {
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAttempts, maxAttempts)
	}

	triggered, err := p.Trigger(ctx, pipelineName, parameters)
	if err != nil {
		return nil, err
	}

	run, err := p.Poll(ctx, triggered.RunID, maxAttempts, interval)
	if err != nil {
		return nil, err
	}

	if run.PipelineName == "" {
		run.PipelineName = triggered.PipelineName
	}

	if run.ProcessDate == "" {
		run.ProcessDate = triggered.ProcessDate
	}

	return run, nil
}
