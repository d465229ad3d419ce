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
	"io"
	"log/slog"

	"github.com/dusted-go/logging/prettylog"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/synapse/pkg/constants"
)

// NewLogger returns a human readable logger, higher verbosity shows more
// detail.
func NewLogger(verbosity int, out io.Writer) logr.Logger {
	prettyHandler := prettylog.New(&slog.HandlerOptions{
		Level:       slog.Level(verbosity * -1),
		AddSource:   false,
		ReplaceAttr: nil,
	}, prettylog.WithDestinationWriter(out))

	return logr.FromSlogHandler(prettyHandler)
}

// NewCommand returns the root command with every subcommand attached.
func NewCommand(o *RawOptions) *cobra.Command {
	var logVerbosity int

	cmd := &cobra.Command{
		Use:           constants.Application,
		Short:         "Operate an Azure Synapse workspace",
		Version:       constants.VersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(logr.NewContext(cmd.Context(), NewLogger(logVerbosity, cmd.ErrOrStderr())))
		},
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	cmd.PersistentFlags().IntVarP(&logVerbosity, "verbosity", "v", 0, "set the verbosity level")

	o.BindFlags(cmd)

	cmd.AddCommand(
		newWorkspaceCommand(o),
		newSQLPoolsCommand(o),
		newSparkPoolsCommand(o),
		newFirewallCommand(o),
		newRuntimesCommand(o),
		newPipelinesCommand(o),
		newNotebooksCommand(o),
		newLinkedServicesCommand(o),
		newDatasetsCommand(o),
		newAuthCommand(o),
	)

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}
