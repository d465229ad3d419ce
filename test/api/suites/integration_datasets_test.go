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
)

var _ = Describe("Integration and Datasets", Label("integration", "requires_auth"), func() {
	Context("When listing linked services", func() {
		It("should return named linked services", func() {
			// Given: A workspace
			// When: I list linked services
			services, err := client.ListLinkedServices(ctx)
			// Then: Every linked service should be named
			Expect(err).NotTo(HaveOccurred())

			for _, service := range services {
				Expect(service.Name).NotTo(BeEmpty())
				GinkgoWriter.Printf("Linked Service: %s\n", service.Name)
			}
		})
	})

	Context("When listing datasets", func() {
		It("should return named datasets", func() {
			// Given: A workspace
			// When: I list datasets
			datasets, err := client.ListDatasets(ctx)
			// Then: Every dataset should be named
			Expect(err).NotTo(HaveOccurred())

			for _, dataset := range datasets {
				Expect(dataset.Name).NotTo(BeEmpty())
				GinkgoWriter.Printf("Dataset: %s\n", dataset.Name)
			}
		})
	})

	Context("When listing integration runtimes", func() {
		It("should return typed integration runtimes", func() {
			// Given: A workspace
			// When: I list integration runtimes
			runtimes, err := client.ListIntegrationRuntimes(ctx)
			// Then: Every runtime should carry a type
			Expect(err).NotTo(HaveOccurred())

			for _, runtime := range runtimes {
				Expect(runtime.Properties.Type).NotTo(BeEmpty())
				GinkgoWriter.Printf("Integration Runtime: %s (%s)\n", runtime.Name, runtime.Properties.Type)
			}
		})
	})
})
