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

// Package sqlpool inspects and controls the power state of dedicated SQL
// pools.
package sqlpool

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/unikorn-cloud/synapse/pkg/client"
)

// Status is the power state of a dedicated SQL pool.
type Status string

const (
	Online   Status = "Online"
	Paused   Status = "Paused"
	Pausing  Status = "Pausing"
	Resuming Status = "Resuming"
)

var ErrUnknownStatus = errors.New("unknown sql pool status")

// PoolClient is the subset of the workspace client the controller drives.
type PoolClient interface {
	GetSQLPool(ctx context.Context, name string) (*client.SQLPool, error)
	PauseSQLPool(ctx context.Context, name string) error
	ResumeSQLPool(ctx context.Context, name string) error
}

var _ PoolClient = (*client.Client)(nil)

// Controller reads and changes pool power state.
type Controller struct {
	client PoolClient
}

// New creates a controller.
func New(client PoolClient) *Controller {
	return &Controller{
		client: client,
	}
}

// CheckStatus reads the pool status. It never changes the pool.
func (c *Controller) CheckStatus(ctx context.Context, pool string) (Status, error) {
	p, err := c.client.GetSQLPool(ctx, pool)
	if err != nil {
		return "", err
	}

	var status Status

	if p.Properties != nil {
		status = Status(p.Properties.Status)
	}

	switch status {
	case Online, Paused, Pausing, Resuming:
		logr.FromContextOrDiscard(ctx).V(1).Info("sql pool status", "pool", pool, "status", status)

		return status, nil
	default:
		return "", &client.MalformedResponseError{
			Operation: "sql pool",
			Field:     "properties.status",
			Err:       fmt.Errorf("%w: %q", ErrUnknownStatus, status),
		}
	}
}

// Pause pauses the pool unless it is already paused or pausing. It reports
// whether a pause was requested.
func (c *Controller) Pause(ctx context.Context, pool string) (bool, error) {
	return c.transition(ctx, pool, "pause", c.client.PauseSQLPool, Paused, Pausing)
}

// Resume resumes the pool unless it is already online or resuming. It
// reports whether a resume was requested.
func (c *Controller) Resume(ctx context.Context, pool string) (bool, error) {
	return c.transition(ctx, pool, "resume", c.client.ResumeSQLPool, Online, Resuming)
}

func (c *Controller) transition(ctx context.Context, pool, action string, request func(context.Context, string) error, target, transitioning Status) (bool, error) {
	log := logr.FromContextOrDiscard(ctx)

	status, err := c.CheckStatus(ctx, pool)
	if err != nil {
		return false, err
	}

	if status == target || status == transitioning {
		log.Info("sql pool already in requested state", "pool", pool, "action", action, "status", status)

		return false, nil
	}

	if err := request(ctx, pool); err != nil {
		return false, err
	}

	log.Info("sql pool transition requested", "pool", pool, "action", action, "from", status)

	return true, nil
}
