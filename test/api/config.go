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

package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/unikorn-cloud/synapse/pkg/credentials"
)

var ErrMissingConfiguration = errors.New("missing required configuration")

type TestConfig struct {
	WorkspaceName   string
	SubscriptionID  string
	ResourceGroup   string
	TenantID        string
	SQLPoolName     string
	SparkPoolName   string
	SQLUsername     string
	SQLPassword     string
	ManagementURL   string
	DevURL          string
	PipelineName    string
	NotebookName    string
	Credentials     *credentials.Options
	RequestTimeout  time.Duration
	TestTimeout     time.Duration
	PollAttempts    int
	PollInterval    time.Duration
	SkipIntegration bool
	LogRequests     bool
	LogResponses    bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	config := &TestConfig{
		WorkspaceName:   os.Getenv("SYNAPSE_WORKSPACE_NAME"),
		SubscriptionID:  os.Getenv("AZURE_SUBSCRIPTION_ID"),
		ResourceGroup:   os.Getenv("AZURE_RESOURCE_GROUP"),
		TenantID:        os.Getenv("AZURE_TENANT_ID"),
		SQLPoolName:     getWithDefault("SQL_POOL_NAME", "EnterpriseDW"),
		SparkPoolName:   getWithDefault("SPARK_POOL_NAME", "sparkpool"),
		SQLUsername:     getWithDefault("SQL_USERNAME", "sqladmin"),
		SQLPassword:     os.Getenv("SQL_PASSWORD"),
		ManagementURL:   os.Getenv("SYNAPSE_MANAGEMENT_URL"),
		DevURL:          os.Getenv("SYNAPSE_DEV_URL"),
		PipelineName:    getWithDefault("TEST_PIPELINE_NAME", "pl_master_etl_pipeline"),
		NotebookName:    getWithDefault("TEST_NOTEBOOK_NAME", "01_data_ingestion"),
		Credentials:     credentials.NewOptionsFromEnvironment(),
		RequestTimeout:  getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		TestTimeout:     getDurationWithDefault("TEST_TIMEOUT", 20*time.Minute),
		PollAttempts:    getIntWithDefault("POLL_ATTEMPTS", 10),
		PollInterval:    getDurationWithDefault("POLL_INTERVAL", 10*time.Second),
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}

	if config.TenantID != "" && config.Credentials.TenantID == "" {
		config.Credentials.TenantID = config.TenantID
	}

	// Validate required fields
	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// getWithDefault gets a string from environment variable or returns default.
func getWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getIntWithDefault gets an integer from environment variable or returns default.
func getIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/api/suites directory
		"../../../.env", // Repository root
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	var missing []string

	required := map[string]string{
		"SYNAPSE_WORKSPACE_NAME": config.WorkspaceName,
		"AZURE_SUBSCRIPTION_ID":  config.SubscriptionID,
		"AZURE_RESOURCE_GROUP":   config.ResourceGroup,
	}

	for envVar, value := range required {
		if value == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		slices.Sort(missing)

		return fmt.Errorf("%w: %s. Please set these environment variables or add them to a .env file", ErrMissingConfiguration, strings.Join(missing, ", "))
	}

	if config.PollAttempts < 1 {
		return fmt.Errorf("%w: POLL_ATTEMPTS must be at least 1", ErrMissingConfiguration)
	}

	return nil
}
