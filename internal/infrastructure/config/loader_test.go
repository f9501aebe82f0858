package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
server:
  port: 9090
database:
  driver: sqlite
  path: ":memory:"
ledger:
  escrowAccount: "0x000000000000000000000000000000000000e5c0"
  authorizedCallers:
    - "0x00000000000000000000000000000000000000a1"
genesis:
  balances:
    "0x00000000000000000000000000000000000000a1": "1000"
`

func withConfigDir(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Test+".yaml"), []byte(content), 0o600))

	oldPaths, oldDotEnv := ConfigPaths, DotEnvPaths
	ConfigPaths = []string{dir}
	DotEnvPaths = nil
	t.Cleanup(func() {
		ConfigPaths, DotEnvPaths = oldPaths, oldDotEnv
	})

	t.Setenv("LL_ENV", Test)
}

func TestLoadConfig(t *testing.T) {
	withConfigDir(t, testConfigYAML)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "0x000000000000000000000000000000000000e5c0", cfg.Ledger.EscrowAccount)
	assert.Equal(t, []string{"0x00000000000000000000000000000000000000a1"}, cfg.Ledger.AuthorizedCallers)
	assert.Equal(t, 100, cfg.Ledger.MaxBatchSize)
	assert.Equal(t, "1000", cfg.Genesis.Balances["0x00000000000000000000000000000000000000a1"])
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	withConfigDir(t, testConfigYAML)

	t.Setenv("LL_SERVER_PORT", "7070")
	t.Setenv("LL_DB_DRIVER", "memory")
	t.Setenv("LL_LEDGER_AUTHORIZED_CALLERS", "0x01, 0x02,,")
	t.Setenv("LL_LEDGER_MAX_BATCH_SIZE", "7")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, []string{"0x01", "0x02"}, cfg.Ledger.AuthorizedCallers)
	assert.Equal(t, 7, cfg.Ledger.MaxBatchSize)
}

func TestLoadConfigMissingFile(t *testing.T) {
	oldPaths := ConfigPaths
	ConfigPaths = []string{t.TempDir()}
	t.Cleanup(func() { ConfigPaths = oldPaths })
	t.Setenv("LL_ENV", "nowhere")

	_, err := LoadConfig()
	assert.Error(t, err)
}
