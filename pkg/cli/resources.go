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

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/synapse/pkg/client"
)

// workspaceSummary adds the derived endpoints to the workspace resource.
type workspaceSummary struct {
	*client.Workspace

	ResourceID    string `json:"resourceId"`
	DevURL        string `json:"devUrl"`
	SQLEndpoint   string `json:"sqlEndpoint"`
	ManagementURL string `json:"managementUrl"`
}

func newWorkspaceCommand(o *RawOptions) *cobra.Command {
	get := &cobra.Command{
		Use:   "get",
		Short: "Show the workspace and its endpoints",
		Args:  cobra.NoArgs,
		RunE: runner(o, func(ctx context.Context, options *Options, _ []string) error {
			ws, err := options.Client.GetWorkspace(ctx)
			if err != nil {
				return err
			}

			return options.Printer.Print(&workspaceSummary{
				Workspace:     ws,
				ResourceID:    options.Workspace.ResourceID().String(),
				DevURL:        options.Workspace.DevURL(),
				SQLEndpoint:   options.Workspace.SQLEndpoint(options.SQLPool),
				ManagementURL: options.Workspace.ManagementURL(),
			})
		}),
	}

	return group("workspace", "Inspect the workspace", get)
}

func newSparkPoolsCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "spark pools", func(ctx context.Context, options *Options) ([]client.SparkPool, error) {
		return options.Client.ListSparkPools(ctx)
	}, func(p client.SparkPool) string {
		return p.Name
	})

	return group("sparkpools", "Manage Apache Spark pools", list)
}

func newFirewallCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "firewall rules", func(ctx context.Context, options *Options) ([]client.FirewallRule, error) {
		return options.Client.ListFirewallRules(ctx)
	}, func(r client.FirewallRule) string {
		return r.Name
	})

	return group("firewall", "Inspect workspace firewall rules", list)
}

func newRuntimesCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "integration runtimes", func(ctx context.Context, options *Options) ([]client.IntegrationRuntime, error) {
		return options.Client.ListIntegrationRuntimes(ctx)
	}, func(r client.IntegrationRuntime) string {
		return r.Name
	})

	return group("runtimes", "Inspect integration runtimes", list)
}

func newLinkedServicesCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "linked services", func(ctx context.Context, options *Options) ([]client.LinkedService, error) {
		return options.Client.ListLinkedServices(ctx)
	}, func(s client.LinkedService) string {
		return s.Name
	})

	return group("linkedservices", "Inspect linked services", list)
}

func newDatasetsCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "datasets", func(ctx context.Context, options *Options) ([]client.Dataset, error) {
		return options.Client.ListDatasets(ctx)
	}, func(d client.Dataset) string {
		return d.Name
	})

	return group("datasets", "Inspect datasets", list)
}

func newNotebooksCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "notebooks", func(ctx context.Context, options *Options) ([]client.Notebook, error) {
		return options.Client.ListNotebooks(ctx)
	}, func(n client.Notebook) string {
		return n.Name
	})

	get := &cobra.Command{
		Use:   "get NAME",
		Short: "Show a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
			notebook, err := options.Client.GetNotebook(ctx, args[0])
			if err != nil {
				return err
			}

			return options.Printer.Print(notebook)
		}),
	}

	return group("notebooks", "Inspect notebooks", list, get)
}
