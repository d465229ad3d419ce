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

package workspace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikorn-cloud/synapse/pkg/workspace"
)

const (
	workspaceName  = "synw-analytics"
	subscriptionID = "3c8e6f7a-1d2b-4c5e-9f80-123456789abc"
	resourceGroup  = "rg-analytics"
)

func TestURLDerivation(t *testing.T) {
	t.Parallel()

	c, err := workspace.New(workspaceName, subscriptionID, resourceGroup)
	require.NoError(t, err)

	assert.Equal(t, "https://management.azure.com/subscriptions/3c8e6f7a-1d2b-4c5e-9f80-123456789abc/resourceGroups/rg-analytics/providers/Microsoft.Synapse/workspaces/synw-analytics", c.ManagementURL())
	assert.Equal(t, "https://synw-analytics.dev.azuresynapse.net", c.DevURL())
	assert.Equal(t, "https://synw-analytics.sql.azuresynapse.net/EnterpriseDW", c.SQLEndpoint("EnterpriseDW"))
	assert.Equal(t, "2021-06-01", c.ManagementAPIVersion())
	assert.Equal(t, "2020-12-01", c.DevAPIVersion())
}

// TestDeterministic ensures equal identifiers always yield equal URLs.
func TestDeterministic(t *testing.T) {
	t.Parallel()

	a, err := workspace.New(workspaceName, subscriptionID, resourceGroup)
	require.NoError(t, err)

	b, err := workspace.New(workspaceName, subscriptionID, resourceGroup)
	require.NoError(t, err)

	assert.Equal(t, a.ManagementURL(), b.ManagementURL())
	assert.Equal(t, a.DevURL(), b.DevURL())
	assert.Equal(t, a.ResourceID().String(), b.ResourceID().String())

	// Repeated reads never drift.
	assert.Equal(t, a.ManagementURL(), a.ManagementURL())
}

func TestResourceID(t *testing.T) {
	t.Parallel()

	c, err := workspace.New(workspaceName, subscriptionID, resourceGroup)
	require.NoError(t, err)

	id := c.ResourceID()
	assert.Equal(t, subscriptionID, id.SubscriptionID)
	assert.Equal(t, resourceGroup, id.ResourceGroupName)
	assert.Equal(t, workspaceName, id.Name)
	assert.Equal(t, "Microsoft.Synapse/workspaces", id.ResourceType.String())
}

func TestBaseURLOverrides(t *testing.T) {
	t.Parallel()

	c, err := workspace.New(workspaceName, subscriptionID, resourceGroup,
		workspace.WithManagementBaseURL("http://127.0.0.1:8080/"),
		workspace.WithDevBaseURL("http://127.0.0.1:8081/"))
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/subscriptions/3c8e6f7a-1d2b-4c5e-9f80-123456789abc/resourceGroups/rg-analytics/providers/Microsoft.Synapse/workspaces/synw-analytics", c.ManagementURL())
	assert.Equal(t, "http://127.0.0.1:8081", c.DevURL())
}

func TestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		workspaceName  string
		subscriptionID string
		resourceGroup  string
		err            error
	}{
		{
			name:           "MissingWorkspace",
			subscriptionID: subscriptionID,
			resourceGroup:  resourceGroup,
			err:            workspace.ErrMissingIdentifier,
		},
		{
			name:          "MissingSubscription",
			workspaceName: workspaceName,
			resourceGroup: resourceGroup,
			err:           workspace.ErrMissingIdentifier,
		},
		{
			name:           "MissingResourceGroup",
			workspaceName:  workspaceName,
			subscriptionID: subscriptionID,
			err:            workspace.ErrMissingIdentifier,
		},
		{
			name:           "UpperCaseWorkspace",
			workspaceName:  "Synw",
			subscriptionID: subscriptionID,
			resourceGroup:  resourceGroup,
			err:            workspace.ErrInvalidWorkspaceName,
		},
		{
			name:           "TrailingHyphen",
			workspaceName:  "synw-",
			subscriptionID: subscriptionID,
			resourceGroup:  resourceGroup,
			err:            workspace.ErrInvalidWorkspaceName,
		},
		{
			name:           "PathInResourceGroup",
			workspaceName:  workspaceName,
			subscriptionID: subscriptionID,
			resourceGroup:  "rg/../other",
			err:            workspace.ErrInvalidIdentifier,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := workspace.New(test.workspaceName, test.subscriptionID, test.resourceGroup)
			require.ErrorIs(t, err, test.err)
		})
	}
}
