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

package constants

import (
	"fmt"
	"os"
	"path"
)

var (
	// Application is the application name.
	//nolint:gochecknoglobals
	Application = path.Base(os.Args[0])

	// Version is the application version set at link time with -ldflags.
	//nolint:gochecknoglobals
	Version string

	// Revision is the git revision set at link time with -ldflags.
	//nolint:gochecknoglobals
	Revision string
)

const (
	// ManagementAPIVersion is appended to every management plane request.
	ManagementAPIVersion = "2021-06-01"

	// DevAPIVersion is appended to every workspace (dev) plane request.
	DevAPIVersion = "2020-12-01"

	// ProcessDateLayout is the layout of the ProcessDate pipeline parameter.
	ProcessDateLayout = "2006-01-02"
)

// UserAgent returns the value sent in the User-Agent header.
func UserAgent() string {
	version := Version
	if version == "" {
		version = "0.0.0"
	}

	return fmt.Sprintf("%s/%s (%s)", Application, version, Revision)
}

// VersionString returns a canonical version string.
func VersionString() string {
	return fmt.Sprintf("%s/%s (revision/%s)", Application, Version, Revision)
}
