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

// Package workspace derives the management and workspace (dev) plane
// endpoints of a Synapse workspace from its identifiers.
package workspace

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"

	"github.com/unikorn-cloud/synapse/pkg/constants"
)

const (
	// ManagementEndpoint is the public cloud Azure Resource Manager endpoint.
	ManagementEndpoint = "https://management.azure.com"

	// ResourceType is the ARM type of a Synapse workspace.
	ResourceType = "Microsoft.Synapse/workspaces"
)

var (
	ErrInvalidWorkspaceName = errors.New("invalid workspace name: must consist of lower case alphanumeric characters or '-', and must start and end with an alphanumeric character")
	ErrMissingIdentifier    = errors.New("missing workspace identifier")
	ErrInvalidIdentifier    = errors.New("invalid workspace identifier")
)

var workspaceNameValidationRegex = regexp.MustCompile("^[a-z0-9]([-a-z0-9]{0,48}[a-z0-9])?$")

// Context identifies a workspace. It is immutable once constructed, every
// URL it hands out is a pure function of the workspace name, subscription
// and resource group.
type Context struct {
	workspaceName  string
	subscriptionID string
	resourceGroup  string

	managementBaseURL string
	devBaseURL        string

	resourceID *arm.ResourceID
}

// Option modifies construction of a Context.
type Option func(*Context)

// WithManagementBaseURL replaces the ARM endpoint, typically with a stub server.
func WithManagementBaseURL(base string) Option {
	return func(c *Context) {
		c.managementBaseURL = strings.TrimSuffix(base, "/")
	}
}

// WithDevBaseURL replaces the whole workspace endpoint, typically with a stub server.
func WithDevBaseURL(base string) Option {
	return func(c *Context) {
		c.devBaseURL = strings.TrimSuffix(base, "/")
	}
}

// New validates the identifiers and returns a workspace context.
func New(workspaceName, subscriptionID, resourceGroup string, options ...Option) (*Context, error) {
	required := map[string]string{
		"workspace name":  workspaceName,
		"subscription ID": subscriptionID,
		"resource group":  resourceGroup,
	}

	for name, value := range required {
		if value == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingIdentifier, name)
		}

		if strings.ContainsAny(value, "/?#") {
			return nil, fmt.Errorf("%w: %s %q", ErrInvalidIdentifier, name, value)
		}
	}

	if !workspaceNameValidationRegex.MatchString(workspaceName) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidWorkspaceName, workspaceName)
	}

	c := &Context{
		workspaceName:     workspaceName,
		subscriptionID:    subscriptionID,
		resourceGroup:     resourceGroup,
		managementBaseURL: ManagementEndpoint,
		devBaseURL:        fmt.Sprintf("https://%s.dev.azuresynapse.net", workspaceName),
	}

	for _, o := range options {
		o(c)
	}

	resourceID, err := arm.ParseResourceID(c.resourcePath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIdentifier, err)
	}

	c.resourceID = resourceID

	return c, nil
}

func (c *Context) resourcePath() string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s/providers/%s/%s", c.subscriptionID, c.resourceGroup, ResourceType, c.workspaceName)
}

func (c *Context) WorkspaceName() string {
	return c.workspaceName
}

func (c *Context) SubscriptionID() string {
	return c.subscriptionID
}

func (c *Context) ResourceGroup() string {
	return c.resourceGroup
}

// ResourceID returns the parsed ARM identifier of the workspace.
func (c *Context) ResourceID() *arm.ResourceID {
	return c.resourceID
}

// ManagementURL is the ARM URL of the workspace resource.
func (c *Context) ManagementURL() string {
	return c.managementBaseURL + c.resourcePath()
}

// DevURL is the workspace scoped authoring endpoint.
func (c *Context) DevURL() string {
	return c.devBaseURL
}

// SQLEndpoint is the dedicated SQL endpoint for a pool. Nothing in this
// module speaks TDS, it is provided for display only.
func (c *Context) SQLEndpoint(pool string) string {
	return fmt.Sprintf("https://%s.sql.azuresynapse.net/%s", c.workspaceName, url.PathEscape(pool))
}

// ManagementAPIVersion is the api-version appended to management plane calls.
func (c *Context) ManagementAPIVersion() string {
	return constants.ManagementAPIVersion
}

// DevAPIVersion is the api-version appended to workspace plane calls.
func (c *Context) DevAPIVersion() string {
	return constants.DevAPIVersion
}
