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

package api

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/onsi/ginkgo/v2"

	"github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/credentials"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun"
	"github.com/unikorn-cloud/synapse/pkg/sqlpool"
	"github.com/unikorn-cloud/synapse/pkg/workspace"
)

// APIClient bundles everything a suite needs to drive one workspace.
type APIClient struct {
	*client.Client

	Poller     *pipelinerun.Poller
	Controller *sqlpool.Controller
	config     *TestConfig
}

// NewAPIClientWithConfig resolves the credential and builds the clients.
func NewAPIClientWithConfig(config *TestConfig) (*APIClient, error) {
	var workspaceOptions []workspace.Option

	if config.ManagementURL != "" {
		workspaceOptions = append(workspaceOptions, workspace.WithManagementBaseURL(config.ManagementURL))
	}

	if config.DevURL != "" {
		workspaceOptions = append(workspaceOptions, workspace.WithDevBaseURL(config.DevURL))
	}

	ws, err := workspace.New(config.WorkspaceName, config.SubscriptionID, config.ResourceGroup, workspaceOptions...)
	if err != nil {
		return nil, fmt.Errorf("creating workspace context: %w", err)
	}

	credential, err := credentials.New(config.Credentials)
	if err != nil {
		return nil, err
	}

	options := []client.Option{
		client.WithTimeout(config.RequestTimeout),
	}

	if config.LogResponses {
		options = append(options, client.WithDebug(ginkgo.GinkgoWriter))
	}

	c, err := client.New(ws, credential, options...)
	if err != nil {
		return nil, err
	}

	return &APIClient{
		Client:     c,
		Poller:     pipelinerun.New(c),
		Controller: sqlpool.New(c),
		config:     config,
	}, nil
}

// Context returns a context carrying a logger that writes to the Ginkgo
// output, per request lines are included when LOG_REQUESTS is set.
func (c *APIClient) Context(ctx context.Context) context.Context {
	verbosity := 0
	if c.config.LogRequests {
		verbosity = 1
	}

	logger := funcr.New(func(prefix, args string) {
		if prefix != "" {
			ginkgo.GinkgoWriter.Printf("%s: %s\n", prefix, args)
			return
		}

		ginkgo.GinkgoWriter.Println(args)
	}, funcr.Options{
		Verbosity: verbosity,
	})

	return logr.NewContext(ctx, logger)
}
