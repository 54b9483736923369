package api

import (
	"encoding/json/v2"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadFixture reads a shared envelope fixture from testdata/envelope.
// The mobile client's decoder tests consume the same files, so any change
// here is a wire-format change for every installed app.
func loadFixture(t *testing.T, name string) map[string]any {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get caller info")

	// internal/api -> repo root -> testdata/envelope
	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	fixtureBytes, err := os.ReadFile(filepath.Join(root, "testdata", "envelope", name))
	require.NoError(t, err, "contract tests require the shared fixtures")

	var fixture map[string]any
	require.NoError(t, json.Unmarshal(fixtureBytes, &fixture))
	return fixture
}

// transform runs the envelope transformer and round-trips the result
// through JSON, which is what the client actually sees.
func transform(t *testing.T, status string, v any) map[string]any {
	t.Helper()

	result, err := EnvelopeTransformer(nil, status, v)
	require.NoError(t, err)

	wire, err := json.Marshal(result)
	require.NoError(t, err)

	var output map[string]any
	require.NoError(t, json.Unmarshal(wire, &output))
	return output
}

func TestEnvelopeContract_Success(t *testing.T) {
	expected := loadFixture(t, "success.json")

	output := transform(t, "200", map[string]string{
		"id":    "recipe-V1StGXR8_Z5jdHi6B-myT",
		"title": "Shakshuka",
	})

	assert.Equal(t, expected, output, "success envelope must match the shared fixture exactly")
}

func TestEnvelopeContract_SuccessWithoutData(t *testing.T) {
	expected := loadFixture(t, "success_null_data.json")

	output := transform(t, "204", nil)

	assert.Equal(t, expected, output)
	assert.NotContains(t, output, "data", "empty payloads omit the data field entirely")
}

func TestEnvelopeContract_SimpleError(t *testing.T) {
	expected := loadFixture(t, "error_simple.json")

	output := transform(t, "404", &APIError{Message: "recipe not found"})

	assert.Equal(t, expected, output)
	assert.IsType(t, "", output["error"], "error must stay a plain string")
}

func TestEnvelopeContract_DetailedError(t *testing.T) {
	expected := loadFixture(t, "error_detailed.json")

	output := transform(t, "409", &APIError{
		Code:    "conflict",
		Message: "email already registered",
		Details: map[string]string{"field": "email"},
	})

	assert.Equal(t, expected, output)
	assert.IsType(t, "", output["code"])
	assert.IsType(t, "", output["message"])
}

// TestEnvelopeContract_VersionFieldName pins the version field to the exact
// name "v". Renaming it to "version" would not fail any handler test but
// would break every deployed client silently.
func TestEnvelopeContract_VersionFieldName(t *testing.T) {
	output := transform(t, "200", nil)

	assert.Contains(t, output, "v")
	assert.NotContains(t, output, "version")
	assert.NotContains(t, output, "Version")
}
