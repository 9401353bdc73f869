package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"SERVER_URL", "FRONTEND_URL", "HTTP_TIMEOUT", "TRANSLATE_BACKENDS", "AZURE_TRANSLATOR_REGION", "S3_SECURE"} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, DefaultFrontendURL, cfg.FrontendURL)
	assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
	assert.Equal(t, DefaultAzureRegion, cfg.AzureRegion)
	assert.Equal(t, []string{"openai", "google", "phrasebook"}, cfg.TranslateBackends)
	assert.True(t, cfg.S3.Secure)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_URL", "https://demo.example.com/")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("TRANSLATE_BACKENDS", " DeepL, azure ,,google")
	t.Setenv("S3_SECURE", "false")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://demo.example.com", cfg.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"deepl", "azure", "google"}, cfg.TranslateBackends)
	assert.False(t, cfg.S3.Secure)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("S3_SECURE", "maybe")
	_, err = FromEnv()
	assert.Error(t, err)
}

func TestS3Enabled(t *testing.T) {
	assert.False(t, S3Config{}.Enabled())
	assert.False(t, S3Config{Endpoint: "s3.local"}.Enabled())
	assert.True(t, S3Config{Endpoint: "s3.local", Bucket: "audio"}.Enabled())
}
