package configpaths_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/analogdpad/internal/configpaths"
)

func TestDefaultConfigDirUsesXDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG is not consulted on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := configpaths.DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "analogdpad"), dir)

	p, err := configpaths.DefaultNamedConfigPath("serve", "yml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", "analogdpad", "serve.yaml"), p)
}

func TestConfigCandidatePathsPrioritizesUserPath(t *testing.T) {
	type testCase struct {
		name string
		path string
		slot int
	}
	testCases := []testCase{
		{name: "json", path: "/x/custom.json", slot: 0},
		{name: "yaml", path: "/x/custom.yml", slot: 1},
		{name: "toml", path: "/x/custom.toml", slot: 2},
		{name: "unknown extension falls back to json", path: "/x/custom.conf", slot: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			j, y, tm := configpaths.ConfigCandidatePaths(tc.path)
			all := [][]string{j, y, tm}
			assert.Equal(t, tc.path, all[tc.slot][0])
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "yaml", configpaths.FormatFromPath("a/b.yaml"))
	assert.Equal(t, "toml", configpaths.FormatFromPath("b.toml"))
	assert.Equal(t, "json", configpaths.FormatFromPath("b"))
	assert.Equal(t, "json", configpaths.FormatExt("anything"))
}
