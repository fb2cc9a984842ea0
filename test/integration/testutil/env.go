package testutil

import (
	"os"
	"testing"
)

const (
	DefaultServerURL = "http://localhost:8080"
)

// RequireIntegration skips the test unless RUN_INTEGRATION_TESTS=true.
// Integration tests need a running server and database.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("set RUN_INTEGRATION_TESTS=true to run integration tests")
	}
}

// ServerURL is the base URL of the server under test.
func ServerURL() string {
	if url := os.Getenv("TEST_SERVER_URL"); url != "" {
		return url
	}
	return DefaultServerURL
}
