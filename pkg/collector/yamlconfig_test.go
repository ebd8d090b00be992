package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFileMissingReturnsBaseUnchanged(t *testing.T) {
	base := DefaultConfig()
	cfg, err := LoadConfigFile(filepath.Join(t.TempDir(), "nonexistent.yaml"), base)
	require.NoError(t, err)
	assert.Equal(t, base, cfg)
}

func TestLoadConfigFileOverlaysOnlySetFields(t *testing.T) {
	base := DefaultConfig()
	path := filepath.Join(t.TempDir(), "collector.yaml")
	content := "egress: \"0.0.0.0:9000\"\nstats_cron: \"*/5 * * * *\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfigFile(path, base)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.EgressAddr)
	assert.Equal(t, "*/5 * * * *", cfg.StatsCron)
	assert.Equal(t, base.IngressSocketPath, cfg.IngressSocketPath)
	assert.Equal(t, base.AdminAddr, cfg.AdminAddr)
}

func TestLoadConfigFileRejectsMalformedYAML(t *testing.T) {
	base := DefaultConfig()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("egress: [unterminated"), 0o644))

	_, err := LoadConfigFile(path, base)
	assert.Error(t, err)
}
