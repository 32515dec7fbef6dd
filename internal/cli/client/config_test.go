package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withTempConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir := getConfigDirFunc

	getConfigDirFunc = func() (string, error) {
		return filepath.Join(dir, "backlog"), nil
	}
	t.Cleanup(func() {
		getConfigDirFunc = origDir
	})
}

func TestGlobalConfig_SaveLoadRoundTrip(t *testing.T) {
	withTempConfigDir(t)

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://example.local:8080"}))

	loaded, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "http://example.local:8080", loaded.APIURL)
}

func TestLoadGlobalConfig_Missing(t *testing.T) {
	withTempConfigDir(t)

	loaded, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSaveGlobalConfig_Nil(t *testing.T) {
	withTempConfigDir(t)

	assert.Error(t, SaveGlobalConfig(nil))
}

func TestDeleteGlobalConfig(t *testing.T) {
	withTempConfigDir(t)

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://example.local"}))
	require.NoError(t, DeleteGlobalConfig())

	loaded, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Deleting again is a no-op
	assert.NoError(t, DeleteGlobalConfig())
}
