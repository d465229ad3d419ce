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
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	synapse "github.com/unikorn-cloud/synapse/pkg/client"
)

var _ = Describe("Notebook Operations", Label("integration", "requires_auth"), func() {
	Context("When listing notebooks", func() {
		It("should return named notebooks", func() {
			// Given: A workspace
			// When: I list notebooks
			notebooks, err := client.ListNotebooks(ctx)
			// Then: Every notebook should be named
			Expect(err).NotTo(HaveOccurred())

			for _, notebook := range notebooks {
				Expect(notebook.Name).NotTo(BeEmpty())
				GinkgoWriter.Printf("Notebook: %s\n", notebook.Name)
			}
		})
	})

	Context("When reading a notebook", func() {
		It("should return the notebook with its cells", func() {
			// Given: The configured notebook is deployed
			// When: I request it
			notebook, err := client.GetNotebook(ctx, config.NotebookName)
			if synapse.IsStatus(err, http.StatusNotFound) {
				Skip("Notebook not deployed: " + config.NotebookName)
			}

			// Then: The properties should be present
			Expect(err).NotTo(HaveOccurred())
			Expect(notebook.Name).To(Equal(config.NotebookName))
			Expect(notebook.Properties).NotTo(BeNil())

			if pool := notebook.Properties.BigDataPool; pool != nil {
				GinkgoWriter.Printf("Notebook %s attached to %s\n", notebook.Name, pool.ReferenceName)
			}

			GinkgoWriter.Printf("Notebook %s has %d cells\n", notebook.Name, len(notebook.Properties.Cells))
		})
	})
})
