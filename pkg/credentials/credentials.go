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

// Package credentials provides the token sources used to authenticate
// against the two Synapse API audiences.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/spf13/pflag"
)

// Audience selects which API a token is minted for.
type Audience string

const (
	// Management is Azure Resource Manager.
	Management Audience = "management"

	// Dev is the workspace authoring and run plane.
	Dev Audience = "dev"
)

// Scope returns the OAuth2 scope for the audience.
func (a Audience) Scope() (string, error) {
	switch a {
	case Management:
		return "https://management.azure.com/.default", nil
	case Dev:
		return "https://dev.azuresynapse.net/.default", nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownAudience, string(a))
}

// Strategy selects how a credential is resolved.
type Strategy string

const (
	// Default walks the azidentity default chain: environment, workload
	// identity, managed identity, Azure CLI and so on.
	Default Strategy = "default"

	// Environment reads AZURE_TENANT_ID, AZURE_CLIENT_ID and a secret or
	// certificate from the environment.
	Environment Strategy = "environment"

	// ManagedIdentity uses the host's managed identity.
	ManagedIdentity Strategy = "managed-identity"

	// CLI uses the signed in Azure CLI account.
	CLI Strategy = "cli"

	// Interactive opens a browser.
	Interactive Strategy = "interactive"

	// Static presents a pre-acquired bearer token for both audiences.
	Static Strategy = "static"
)

var (
	ErrUnknownAudience = errors.New("unknown audience")
	ErrUnknownStrategy = errors.New("unknown credential strategy")
	ErrMissingToken    = errors.New("static credential requires a token")
)

// Options configure credential creation.
type Options struct {
	// Strategy is the credential source.
	Strategy Strategy

	// TenantID pins the tenant, when empty the source's default is used.
	TenantID string

	// ClientID selects a user assigned managed identity.
	ClientID string

	// Token is the bearer token used by the static strategy.
	Token string
}

// NewOptionsFromEnvironment returns options seeded from the environment.
func NewOptionsFromEnvironment() *Options {
	strategy := Strategy(os.Getenv("SYNAPSE_CREDENTIAL_STRATEGY"))
	if strategy == "" {
		strategy = Default
	}

	return &Options{
		Strategy: strategy,
		TenantID: os.Getenv("AZURE_TENANT_ID"),
		ClientID: os.Getenv("AZURE_CLIENT_ID"),
		Token:    os.Getenv("SYNAPSE_ACCESS_TOKEN"),
	}
}

// AddFlags registers the options with a flag set.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.Var((*strategyValue)(&o.Strategy), "credential", "credential source, one of default, environment, managed-identity, cli, interactive or static")
	f.StringVar(&o.TenantID, "tenant-id", o.TenantID, "Entra ID tenant to authenticate against")
	f.StringVar(&o.ClientID, "client-id", o.ClientID, "client ID of a user assigned managed identity")
	f.StringVar(&o.Token, "access-token", o.Token, "bearer token presented by the static credential")
}

// New resolves a token credential.
func New(o *Options) (azcore.TokenCredential, error) {
	var (
		credential azcore.TokenCredential
		err        error
	)

	switch o.Strategy {
	case Default, "":
		credential, err = azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
			TenantID: o.TenantID,
		})
	case Environment:
		credential, err = azidentity.NewEnvironmentCredential(nil)
	case ManagedIdentity:
		options := &azidentity.ManagedIdentityCredentialOptions{}

		if o.ClientID != "" {
			options.ID = azidentity.ClientID(o.ClientID)
		}

		credential, err = azidentity.NewManagedIdentityCredential(options)
	case CLI:
		credential, err = azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{
			TenantID: o.TenantID,
		})
	case Interactive:
		credential, err = azidentity.NewInteractiveBrowserCredential(&azidentity.InteractiveBrowserCredentialOptions{
			TenantID: o.TenantID,
		})
	case Static:
		credential, err = NewStatic(o.Token)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(o.Strategy))
	}

	if err != nil {
		return nil, fmt.Errorf("creating %s credential: %w", o.Strategy, err)
	}

	return credential, nil
}

// StaticCredential hands out the same token for every request.
type StaticCredential struct {
	token string
}

var _ azcore.TokenCredential = (*StaticCredential)(nil)

// NewStatic returns a credential wrapping an existing bearer token.
func NewStatic(token string) (*StaticCredential, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	return &StaticCredential{
		token: token,
	}, nil
}

func (c *StaticCredential) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{
		Token:     c.token,
		ExpiresOn: time.Now().Add(time.Hour),
	}, nil
}

type strategyValue Strategy

func (s *strategyValue) String() string {
	return string(*s)
}

func (s *strategyValue) Set(value string) error {
	switch v := Strategy(strings.ToLower(value)); v {
	case Default, Environment, ManagedIdentity, CLI, Interactive, Static:
		*s = strategyValue(v)

		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownStrategy, value)
}

func (s *strategyValue) Type() string {
	return "strategy"
}
