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
)

// GetWorkspace reads the workspace resource.
func (c *Client) GetWorkspace(ctx context.Context) (*Workspace, error) {
	var out Workspace

	if err := get(ctx, c, ManagementPlane, "workspace", c.endpoints.Workspace(), &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Client) listManagement(kind Kind) string {
	// Management kinds are fixed so this cannot fail.
	url, _ := c.endpoints.Resource(kind)

	return url
}

// ListSQLPools lists dedicated SQL pools.
func (c *Client) ListSQLPools(ctx context.Context) ([]SQLPool, error) {
	return list[SQLPool](ctx, c, ManagementPlane, "sql pools", c.listManagement(SQLPools), true)
}

// ListSparkPools lists Apache Spark pools.
func (c *Client) ListSparkPools(ctx context.Context) ([]SparkPool, error) {
	return list[SparkPool](ctx, c, ManagementPlane, "spark pools", c.listManagement(BigDataPools), true)
}

// ListFirewallRules lists workspace IP firewall rules.
func (c *Client) ListFirewallRules(ctx context.Context) ([]FirewallRule, error) {
	return list[FirewallRule](ctx, c, ManagementPlane, "firewall rules", c.listManagement(FirewallRules), true)
}

// ListIntegrationRuntimes lists integration runtimes.
func (c *Client) ListIntegrationRuntimes(ctx context.Context) ([]IntegrationRuntime, error) {
	return list[IntegrationRuntime](ctx, c, ManagementPlane, "integration runtimes", c.listManagement(IntegrationRuntimes), true)
}

// GetSQLPool reads a SQL pool, the returned pool always carries a status.
func (c *Client) GetSQLPool(ctx context.Context, name string) (*SQLPool, error) {
	var out sqlPoolStatus

	if err := get(ctx, c, ManagementPlane, "sql pool", c.endpoints.SQLPool(name), &out); err != nil {
		return nil, err
	}

	return &out.SQLPool, nil
}

// PauseSQLPool requests the pool be paused.
func (c *Client) PauseSQLPool(ctx context.Context, name string) error {
	//nolint:bodyclose // response body is closed in doRequest
	if _, _, err := c.doRequest(ctx, ManagementPlane, http.MethodPost, c.endpoints.PauseSQLPool(name), nil, http.StatusOK, http.StatusAccepted); err != nil {
		return fmt.Errorf("pausing sql pool %s: %w", name, err)
	}

	return nil
}

// ResumeSQLPool requests the pool be resumed.
func (c *Client) ResumeSQLPool(ctx context.Context, name string) error {
	//nolint:bodyclose // response body is closed in doRequest
	if _, _, err := c.doRequest(ctx, ManagementPlane, http.MethodPost, c.endpoints.ResumeSQLPool(name), nil, http.StatusOK, http.StatusAccepted); err != nil {
		return fmt.Errorf("resuming sql pool %s: %w", name, err)
	}

	return nil
}
