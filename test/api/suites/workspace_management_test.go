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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package suites

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	synapse "github.com/unikorn-cloud/synapse/pkg/client"
	"github.com/unikorn-cloud/synapse/test/api"
)

var _ = Describe("Workspace Management", Label("integration", "requires_auth"), func() {
	Context("When reading the workspace resource", func() {
		It("should return the workspace with its default data lake", func() {
			// Given: A provisioned workspace
			// When: I request the workspace resource
			ws, err := client.GetWorkspace(ctx)
			// Then: The workspace should be returned with its identity
			Expect(err).NotTo(HaveOccurred())
			Expect(ws.Name).To(Equal(config.WorkspaceName))
			Expect(ws.Location).NotTo(BeEmpty())
			// And: It should have a default data lake storage account
			Expect(ws.Properties.DefaultDataLakeStorage).NotTo(BeNil())

			GinkgoWriter.Printf("Workspace: %s, Location: %s\n", ws.Name, ws.Location)
		})
	})

	Context("When listing pools", func() {
		It("should list dedicated SQL pools including the configured pool", func() {
			// Given: A workspace with a dedicated SQL pool
			// When: I list SQL pools
			pools, err := client.ListSQLPools(ctx)
			// Then: Each pool should carry a name and SKU
			Expect(err).NotTo(HaveOccurred())

			for _, pool := range pools {
				GinkgoWriter.Printf("SQL Pool: %s, SKU: %s\n", pool.Name, pool.SKU.Name)
			}

			// And: The configured pool should be present
			api.VerifyNamePresence("sql pools", api.Names(pools, func(p synapse.SQLPool) string { return p.Name }), config.SQLPoolName)
		})

		It("should list Spark pools including the configured pool", func() {
			// Given: A workspace with a Spark pool
			// When: I list Spark pools
			pools, err := client.ListSparkPools(ctx)
			// Then: Each pool should carry a name and node size
			Expect(err).NotTo(HaveOccurred())

			for _, pool := range pools {
				GinkgoWriter.Printf("Spark Pool: %s, Node Size: %s\n", pool.Name, pool.Properties.NodeSize)
			}

			// And: The configured pool should be present
			api.VerifyNamePresence("spark pools", api.Names(pools, func(p synapse.SparkPool) string { return p.Name }), config.SparkPoolName)
		})
	})

	Context("When listing firewall rules", func() {
		It("should return the workspace firewall rules", func() {
			// Given: A workspace
			// When: I list firewall rules
			rules, err := client.ListFirewallRules(ctx)
			// Then: The request should succeed and every rule should be named
			Expect(err).NotTo(HaveOccurred())

			for _, rule := range rules {
				Expect(rule.Name).NotTo(BeEmpty())
				GinkgoWriter.Printf("Firewall Rule: %s\n", rule.Name)
			}
		})
	})
})
