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

package pipelinerun_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/credentials"
	"github.com/unikorn-cloud/synapse/pkg/fake"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun/mock"

	"k8s.io/utils/ptr"
)

const (
	pipelineName = "pl_master_etl_pipeline"
	runID        = "run-123"
)

var errConnectionReset = errors.New("connection reset by peer")

func today() time.Time {
	return time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
}

func running(status client.RunStatus) *client.PipelineRun {
	return &client.PipelineRun{
		RunID:        runID,
		PipelineName: pipelineName,
		Status:       status,
	}
}

func TestTriggerDefaultsProcessDate(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)
	runs.EXPECT().CreatePipelineRun(gomock.Any(), pipelineName, map[string]any{"ProcessDate": "2024-01-15"}).Return(&client.CreateRunResponse{RunID: runID}, nil)

	poller := pipelinerun.New(runs, pipelinerun.WithClock(today))

	run, err := poller.Trigger(t.Context(), pipelineName, nil)
	require.NoError(t, err)
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, pipelineName, run.PipelineName)
	assert.Equal(t, pipelinerun.StatusQueued, run.Status)
	assert.Equal(t, "2024-01-15", run.ProcessDate)
}

func TestTriggerKeepsProcessDate(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	parameters := map[string]any{
		"ProcessDate": "2023-12-31",
		"Region":      "emea",
	}

	runs := mock.NewMockRunClient(c)
	runs.EXPECT().CreatePipelineRun(gomock.Any(), pipelineName, parameters).Return(&client.CreateRunResponse{RunID: runID}, nil)

	run, err := pipelinerun.New(runs, pipelinerun.WithClock(today)).Trigger(t.Context(), pipelineName, parameters)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", run.ProcessDate)
}

func TestTriggerForwardsProcessDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "Timestamp", value: "2024-01-15T00:00:00Z", expected: "2024-01-15T00:00:00Z"},
		{name: "Compact", value: "20240115", expected: "20240115"},
		{name: "Number", value: 20240115, expected: "20240115"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			c := gomock.NewController(t)
			defer c.Finish()

			runs := mock.NewMockRunClient(c)
			runs.EXPECT().CreatePipelineRun(gomock.Any(), pipelineName, map[string]any{"ProcessDate": test.value}).Return(&client.CreateRunResponse{RunID: runID}, nil)

			run, err := pipelinerun.New(runs, pipelinerun.WithClock(today)).Trigger(t.Context(), pipelineName, map[string]any{"ProcessDate": test.value})
			require.NoError(t, err)
			assert.Equal(t, test.expected, run.ProcessDate)
		})
	}
}

func TestTriggerNotStarted(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)
	runs.EXPECT().CreatePipelineRun(gomock.Any(), pipelineName, gomock.Any()).Return(nil, &client.UnexpectedStatusError{
		Method:     http.MethodPost,
		StatusCode: http.StatusBadRequest,
		Expected:   []int{http.StatusOK, http.StatusAccepted},
	})

	_, err := pipelinerun.New(runs).Trigger(t.Context(), pipelineName, nil)
	require.ErrorIs(t, err, pipelinerun.ErrNotStarted)
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
}

func TestTriggerTransportErrorIsFatal(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)
	runs.EXPECT().CreatePipelineRun(gomock.Any(), pipelineName, gomock.Any()).Return(nil, &client.TransportError{Err: errConnectionReset})

	_, err := pipelinerun.New(runs).Trigger(t.Context(), pipelineName, nil)
	require.ErrorIs(t, err, errConnectionReset)
	require.NotErrorIs(t, err, pipelinerun.ErrNotStarted)
}

func TestPollStopsAtTerminalStatus(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)

	finished := running(client.RunFailed)
	finished.Message = "activity Load failed"
	finished.DurationInMs = ptr.To[int64](4200)

	gomock.InOrder(
		runs.EXPECT().GetPipelineRun(gomock.Any(), runID).Return(running(client.RunQueued), nil),
		runs.EXPECT().GetPipelineRun(gomock.Any(), runID).Return(running(client.RunInProgress), nil),
		runs.EXPECT().GetPipelineRun(gomock.Any(), runID).Return(finished, nil),
	)

	run, err := pipelinerun.New(runs).Poll(t.Context(), runID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, pipelinerun.StatusFailed, run.Status)
	assert.Equal(t, "activity Load failed", run.Message)
	assert.Equal(t, int64(4200), *run.DurationInMs)
}

func TestPollExhaustsAttempts(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)
	runs.EXPECT().GetPipelineRun(gomock.Any(), runID).Return(running(client.RunInProgress), nil).Times(4)

	run, err := pipelinerun.New(runs).Poll(t.Context(), runID, 4, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, pipelinerun.StatusInProgress, run.Status)
	assert.False(t, run.Status.IsTerminal())
}

func TestPollInvalidArguments(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	poller := pipelinerun.New(mock.NewMockRunClient(c))

	_, err := poller.Poll(t.Context(), runID, 0, 0)
	require.ErrorIs(t, err, pipelinerun.ErrInvalidAttempts)

	_, err = poller.Poll(t.Context(), runID, 1, -time.Second)
	require.ErrorIs(t, err, pipelinerun.ErrInvalidInterval)

	_, err = poller.Run(t.Context(), pipelineName, nil, 0, 0)
	require.ErrorIs(t, err, pipelinerun.ErrInvalidAttempts)
}

func TestPollStatusReadIsFatal(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)
	runs.EXPECT().GetPipelineRun(gomock.Any(), runID).Return(nil, &client.UnexpectedStatusError{StatusCode: http.StatusNotFound})

	_, err := pipelinerun.New(runs).Poll(t.Context(), runID, 5, 0)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}

func TestPollHonoursContext(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := pipelinerun.New(mock.NewMockRunClient(c)).Poll(ctx, runID, 5, time.Hour)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCancel(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	runs := mock.NewMockRunClient(c)

	gomock.InOrder(
		runs.EXPECT().CancelPipelineRun(gomock.Any(), runID).Return(true, nil),
		runs.EXPECT().CancelPipelineRun(gomock.Any(), runID).Return(false, nil),
		runs.EXPECT().CancelPipelineRun(gomock.Any(), runID).Return(false, &client.UnexpectedStatusError{StatusCode: http.StatusConflict}),
	)

	poller := pipelinerun.New(runs)

	cancelled, err := poller.Cancel(t.Context(), runID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	// Already finished.
	cancelled, err = poller.Cancel(t.Context(), runID)
	require.NoError(t, err)
	assert.True(t, cancelled)

	cancelled, err = poller.Cancel(t.Context(), runID)
	assert.True(t, client.IsStatus(err, http.StatusConflict))
	assert.False(t, cancelled)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	status, err := pipelinerun.ParseStatus("Cancelling")
	require.NoError(t, err)
	assert.Equal(t, pipelinerun.StatusCancelling, status)

	_, err = pipelinerun.ParseStatus("Running")
	require.ErrorIs(t, err, client.ErrUnknownRunStatus)
}

func newFakePoller(t *testing.T) (*pipelinerun.Poller, *fake.Server) {
	t.Helper()

	server := fake.NewServer()
	t.Cleanup(server.Close)

	ws, err := server.Workspace()
	require.NoError(t, err)

	credential, err := credentials.NewStatic("token")
	require.NoError(t, err)

	c, err := client.New(ws, credential)
	require.NoError(t, err)

	return pipelinerun.New(c, pipelinerun.WithClock(today)), server
}

func TestLifecycleAgainstService(t *testing.T) {
	t.Parallel()

	poller, server := newFakePoller(t)

	server.Script(http.MethodPost, fake.DevPath("pipelines", pipelineName, "createRun"), fake.Response{
		Status: http.StatusAccepted,
		Body:   map[string]any{"runId": runID},
	})
	server.RunStatuses(pipelineName, runID, client.RunInProgress, client.RunInProgress, client.RunSucceeded)

	run, err := poller.Trigger(t.Context(), pipelineName, map[string]any{"ProcessDate": "2024-01-15"})
	require.NoError(t, err)
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, pipelinerun.StatusQueued, run.Status)

	run, err = poller.Poll(t.Context(), runID, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, pipelinerun.StatusSucceeded, run.Status)
	assert.Len(t, server.RequestsTo(http.MethodGet, fake.DevPath("pipelineruns", runID)), 3)
}

func TestRunAgainstService(t *testing.T) {
	t.Parallel()

	poller, server := newFakePoller(t)

	server.Script(http.MethodPost, fake.DevPath("pipelines", pipelineName, "createRun"), fake.Response{
		Status: http.StatusOK,
		Body:   map[string]any{"runId": runID},
	})
	server.RunStatuses(pipelineName, runID, client.RunQueued, client.RunInProgress)

	run, err := poller.Run(t.Context(), pipelineName, nil, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, pipelinerun.StatusInProgress, run.Status)
	assert.Equal(t, "2024-01-15", run.ProcessDate)
	assert.Len(t, server.RequestsTo(http.MethodGet, fake.DevPath("pipelineruns", runID)), 5)
}

func TestTriggerRejectedByService(t *testing.T) {
	t.Parallel()

	poller, server := newFakePoller(t)

	server.Script(http.MethodPost, fake.DevPath("pipelines", "missing", "createRun"), fake.Response{
		Status: http.StatusNotFound,
		Body:   `{"error":{"code":"PipelineNotFound"}}`,
	})

	_, err := poller.Trigger(t.Context(), "missing", nil)
	require.ErrorIs(t, err, pipelinerun.ErrNotStarted)
}

func TestCancelFinishedRunAgainstService(t *testing.T) {
	t.Parallel()

	poller, server := newFakePoller(t)

	server.Script(http.MethodPost, fake.DevPath("pipelineruns", runID, "cancel"), fake.Response{Status: http.StatusNotFound})

	cancelled, err := poller.Cancel(t.Context(), runID)
	require.NoError(t, err)
	assert.True(t, cancelled)
}
