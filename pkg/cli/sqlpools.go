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
	"github.com/unikorn-cloud/synapse/pkg/sqlpool"

	"k8s.io/utils/ptr"
)

type poolState struct {
	Name      string         `json:"name"`
	Status    sqlpool.Status `json:"status"`
	Requested *bool          `json:"requested,omitempty"`
}

func poolName(options *Options, args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return options.SQLPool
}

func newSQLPoolsCommand(o *RawOptions) *cobra.Command {
	list := listCommand(o, "sql pools", func(ctx context.Context, options *Options) ([]client.SQLPool, error) {
		return options.Client.ListSQLPools(ctx)
	}, func(p client.SQLPool) string {
		return p.Name
	})

	status := &cobra.Command{
		Use:   "status [NAME]",
		Short: "Show the power state of a pool, without changing it",
		Args:  cobra.MaximumNArgs(1),
		RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
			name := poolName(options, args)

			status, err := options.Controller.CheckStatus(ctx, name)
			if err != nil {
				return err
			}

			return options.Printer.Print(&poolState{Name: name, Status: status})
		}),
	}

	transition := func(use, short string, do func(*sqlpool.Controller, context.Context, string) (bool, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " [NAME]",
			Short: short,
			Args:  cobra.MaximumNArgs(1),
			RunE: runner(o, func(ctx context.Context, options *Options, args []string) error {
				name := poolName(options, args)

				requested, err := do(options.Controller, ctx, name)
				if err != nil {
					return err
				}

				status, err := options.Controller.CheckStatus(ctx, name)
				if err != nil {
					return err
				}

				return options.Printer.Print(&poolState{Name: name, Status: status, Requested: ptr.To(requested)})
			}),
		}
	}

	pause := transition("pause", "Pause a pool unless already paused or pausing", (*sqlpool.Controller).Pause)
	resume := transition("resume", "Resume a pool unless already online or resuming", (*sqlpool.Controller).Resume)

	return group("sqlpools", "Manage dedicated SQL pools", list, status, pause, resume)
}
