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
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/unikorn-cloud/synapse/pkg/credentials"
)

type identity struct {
	Audience     string     `json:"audience"`
	TokenFor     []string   `json:"tokenAudience,omitempty"`
	Subject      string     `json:"subject,omitempty"`
	Issuer       string     `json:"issuer,omitempty"`
	TenantID     string     `json:"tenantId,omitempty"`
	ObjectID     string     `json:"objectId,omitempty"`
	AppID        string     `json:"appId,omitempty"`
	IdentityType string     `json:"identityType,omitempty"`
	UniqueName   string     `json:"uniqueName,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
}

func newAuthCommand(o *RawOptions) *cobra.Command {
	audience := string(credentials.Management)

	whoami := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity the credential authenticates as",
		Args:  cobra.NoArgs,
		RunE: runner(o, func(ctx context.Context, options *Options, _ []string) error {
			a := credentials.Audience(strings.ToLower(audience))

			token, err := options.Client.Token(ctx, a)
			if err != nil {
				return err
			}

			claims, err := credentials.Inspect(token)
			if err != nil {
				return fmt.Errorf("inspecting %s token: %w", a, err)
			}

			out := &identity{
				Audience:     string(a),
				TokenFor:     claims.Audience,
				Subject:      claims.Subject,
				Issuer:       claims.Issuer,
				TenantID:     claims.TenantID,
				ObjectID:     claims.ObjectID,
				AppID:        claims.AppID,
				IdentityType: claims.IdentityType,
				UniqueName:   claims.UniqueName,
			}

			if claims.ExpiresAt != nil {
				out.ExpiresAt = &claims.ExpiresAt.Time
			}

			return options.Printer.Print(out)
		}),
	}

	whoami.Flags().StringVar(&audience, "audience", audience, "token audience, one of management or dev")

	return group("auth", "Inspect authentication", whoami)
}
