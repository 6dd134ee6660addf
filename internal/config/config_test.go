package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.Equal(t, 64, cfg.PoolSize)
	require.Equal(t, 2, cfg.ReplacerK)
	require.Equal(t, 4096, cfg.PageSize)
}

func TestLoad_OverridesOnlyMentionedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "duskdb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pool_size: 128\ndata_dir: /var/lib/duskdb\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 128, cfg.PoolSize)
	require.Equal(t, "/var/lib/duskdb", cfg.DataDir)
	require.Equal(t, 2, cfg.ReplacerK, "unmentioned fields keep their default")
}

func TestLoad_MissingFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
