package config_test

import (
	"testing"

	"github.com/effective-security/gcpmcp/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadConfig(t *testing.T) {
	cfg, err := config.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "gcp", cfg.Name())
	assert.Equal(t, config.DefaultVersion, cfg.Version())
	assert.Equal(t, "gcpmcp/"+config.DefaultVersion, cfg.UserAgent())
	assert.Empty(t, cfg.GCP.Project)

	cfg, err = config.LoadConfig("testdata/gcpmcp.yaml")
	require.NoError(t, err)
	assert.Equal(t, "gcp-tools", cfg.Name())
	assert.Equal(t, "1.2.3", cfg.Version())
	assert.Equal(t, "gcpmcp/1.2.3", cfg.UserAgent())
	assert.Equal(t, "proj1", cfg.GCP.Project)
	assert.Equal(t, "us-central1", cfg.GCP.Region)
	assert.Equal(t, 50, cfg.Logs.DefaultLimit)

	_, err = config.LoadConfig("testdata/missing.yaml")
	assert.Error(t, err)
}
