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
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spjmurray/go-util/pkg/set"
)

var ErrMissingResources = errors.New("expected resources not found")

// missing checks every expected name was listed.
func missing(kind string, expected, names []string) error {
	if len(expected) == 0 {
		return nil
	}

	var absent []string

	for name := range set.New[string](expected...).Difference(set.New[string](names...)).All() {
		absent = append(absent, name)
	}

	if len(absent) == 0 {
		return nil
	}

	slices.Sort(absent)

	return fmt.Errorf("%w: %s %s", ErrMissingResources, kind, strings.Join(absent, ", "))
}

// listCommand builds a "list" subcommand that prints every item and
// optionally checks for expected names.
func listCommand[T any](o *RawOptions, kind string, list func(context.Context, *Options) ([]T, error), name func(T) string) *cobra.Command {
	var expected []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + kind,
		Args:  cobra.NoArgs,
		RunE: runner(o, func(ctx context.Context, options *Options, _ []string) error {
			items, err := list(ctx, options)
			if err != nil {
				return err
			}

			if err := options.Printer.Print(items); err != nil {
				return err
			}

			names := make([]string, len(items))

			for i := range items {
				names[i] = name(items[i])
			}

			return missing(kind, expected, names)
		}),
	}

	cmd.Flags().StringSliceVar(&expected, "expect", nil, "fail unless these names are listed")

	return cmd
}

func group(use, short string, commands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	cmd.AddCommand(commands...)

	return cmd
}
