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

// Package cli implements the synapsectl command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/pkg/credentials"
	"github.com/unikorn-cloud/synapse/pkg/pipelinerun"
	"github.com/unikorn-cloud/synapse/pkg/sqlpool"
	"github.com/unikorn-cloud/synapse/pkg/workspace"
)

const (
	DefaultSQLPoolName   = "EnterpriseDW"
	DefaultSparkPoolName = "sparkpool"
)

var (
	ErrMissingFlag = errors.New("required flag not set")
	ErrInvalidFlag = errors.New("invalid flag value")
)

// RawOptions are the global flags as parsed, before any validation.
type RawOptions struct {
	WorkspaceName  string
	SubscriptionID string
	ResourceGroup  string
	SQLPoolName    string
	SparkPoolName  string
	ManagementURL  string
	DevURL         string
	Timeout        time.Duration
	Debug          bool
	Output         string
	Credentials    *credentials.Options
}

func getenv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// DefaultOptions seeds the options from the environment.
func DefaultOptions() *RawOptions {
	return &RawOptions{
		WorkspaceName:  os.Getenv("SYNAPSE_WORKSPACE_NAME"),
		SubscriptionID: os.Getenv("AZURE_SUBSCRIPTION_ID"),
		ResourceGroup:  os.Getenv("AZURE_RESOURCE_GROUP"),
		SQLPoolName:    getenv("SQL_POOL_NAME", DefaultSQLPoolName),
		SparkPoolName:  getenv("SPARK_POOL_NAME", DefaultSparkPoolName),
		Timeout:        client.DefaultTimeout,
		Output:         string(OutputYAML),
		Credentials:    credentials.NewOptionsFromEnvironment(),
	}
}

// BindFlags registers the options as persistent flags of the root command.
func (o *RawOptions) BindFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringVarP(&o.WorkspaceName, "workspace", "w", o.WorkspaceName, "Synapse workspace name (SYNAPSE_WORKSPACE_NAME)")
	flags.StringVar(&o.SubscriptionID, "subscription-id", o.SubscriptionID, "Azure subscription ID (AZURE_SUBSCRIPTION_ID)")
	flags.StringVarP(&o.ResourceGroup, "resource-group", "g", o.ResourceGroup, "Azure resource group (AZURE_RESOURCE_GROUP)")
	flags.StringVar(&o.SQLPoolName, "sql-pool", o.SQLPoolName, "default dedicated SQL pool (SQL_POOL_NAME)")
	flags.StringVar(&o.SparkPoolName, "spark-pool", o.SparkPoolName, "default Spark pool (SPARK_POOL_NAME)")
	flags.StringVar(&o.ManagementURL, "management-url", o.ManagementURL, "override the Azure Resource Manager endpoint")
	flags.StringVar(&o.DevURL, "dev-url", o.DevURL, "override the workspace development endpoint")
	flags.DurationVar(&o.Timeout, "timeout", o.Timeout, "per request timeout")
	flags.BoolVar(&o.Debug, "debug", o.Debug, "dump requests and responses to stderr, tokens are redacted")
	flags.StringVarP(&o.Output, "output", "o", o.Output, "output format, one of yaml or json")

	o.Credentials.AddFlags(flags)
}

// Validate checks the options are complete.
func (o *RawOptions) Validate() (*ValidatedOptions, error) {
	required := []struct {
		flag  string
		value string
	}{
		{"workspace", o.WorkspaceName},
		{"subscription-id", o.SubscriptionID},
		{"resource-group", o.ResourceGroup},
	}

	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("%w: --%s", ErrMissingFlag, r.flag)
		}
	}

	if _, err := NewPrinter(o.Output, io.Discard); err != nil {
		return nil, err
	}

	if o.Timeout <= 0 {
		return nil, fmt.Errorf("%w: --timeout must be positive", ErrInvalidFlag)
	}

	return &ValidatedOptions{
		validatedOptions: &validatedOptions{
			RawOptions: o,
		},
	}, nil
}

type validatedOptions struct {
	*RawOptions
}

// ValidatedOptions can only be created by Validate.
type ValidatedOptions struct {
	*validatedOptions
}

type completedOptions struct {
	Workspace  *workspace.Context
	Client     *client.Client
	Poller     *pipelinerun.Poller
	Controller *sqlpool.Controller
	Printer    *Printer
	SQLPool    string
	SparkPool  string
}

// Options are ready to execute a command.
type Options struct {
	*completedOptions
}

// Complete resolves the workspace, credential and clients.
func (o *ValidatedOptions) Complete(cmd *cobra.Command) (*Options, error) {
	var workspaceOptions []workspace.Option

	if o.ManagementURL != "" {
		workspaceOptions = append(workspaceOptions, workspace.WithManagementBaseURL(o.ManagementURL))
	}

	if o.DevURL != "" {
		workspaceOptions = append(workspaceOptions, workspace.WithDevBaseURL(o.DevURL))
	}

	ws, err := workspace.New(o.WorkspaceName, o.SubscriptionID, o.ResourceGroup, workspaceOptions...)
	if err != nil {
		return nil, err
	}

	credential, err := credentials.New(o.Credentials)
	if err != nil {
		return nil, err
	}

	clientOptions := []client.Option{
		client.WithTimeout(o.Timeout),
	}

	if o.Debug {
		clientOptions = append(clientOptions, client.WithDebug(cmd.ErrOrStderr()))
	}

	c, err := client.New(ws, credential, clientOptions...)
	if err != nil {
		return nil, err
	}

	printer, err := NewPrinter(o.Output, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}

	return &Options{
		completedOptions: &completedOptions{
			Workspace:  ws,
			Client:     c,
			Poller:     pipelinerun.New(c),
			Controller: sqlpool.New(c),
			Printer:    printer,
			SQLPool:    o.SQLPoolName,
			SparkPool:  o.SparkPoolName,
		},
	}, nil
}

// complete runs validation and completion for a command.
func complete(cmd *cobra.Command, o *RawOptions) (*Options, error) {
	validated, err := o.Validate()
	if err != nil {
		return nil, err
	}

	return validated.Complete(cmd)
}

// runner adapts a function over completed options to a cobra RunE.
func runner(o *RawOptions, run func(ctx context.Context, options *Options, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		options, err := complete(cmd, o)
		if err != nil {
			return err
		}

		return run(cmd.Context(), options, args)
	}
}
