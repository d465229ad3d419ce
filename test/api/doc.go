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

// Package api provides integration test utilities for the Synapse REST APIs.
//
// # Shared Client Implementation
//
// Unlike a generated SDK, the suites drive the same hand written client
// that synapsectl uses. This design choice provides several benefits:
//
// 1. **API Contract Validation**: Every typed record checks the fields the
// suites rely on, so a change in the service payloads fails loudly here
// rather than as a nil dereference in a caller.
//
// 2. **Test-Specific Features**: The harness adds features tailored for
// integration testing:
//   - Request dumps with bearer tokens redacted (LOG_RESPONSES)
//   - Per request logging with client request IDs (LOG_REQUESTS)
//   - Automatic cancellation of pipeline runs started by a test
//   - Skipping, rather than failing, when a pipeline cannot be triggered
//
// # Configuration
//
// Configuration is read from the environment and an optional .env file,
// see LoadTestConfig. Specs are labelled integration, slow and
// requires_auth so subsets can be selected with --label-filter.
package api
