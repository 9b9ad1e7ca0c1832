package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		expectError bool
	}{
		{
			name: "loads listed files",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n",
				"base.yaml": "service:\n  name: jolt-host\n",
			},
		},
		{
			name: "skips files that do not exist",
			files: map[string]string{
				"meta.yaml": "files:\n  - base.yaml\n  - local.yaml\n",
				"base.yaml": "service:\n  name: jolt-host\n",
			},
		},
		{
			name:        "fails without meta.yaml",
			files:       map[string]string{"base.yaml": "a: b\n"},
			expectError: true,
		},
		{
			name: "fails when no listed file exists",
			files: map[string]string{
				"meta.yaml": "files:\n  - missing.yaml\n",
			},
			expectError: true,
		},
		{
			name: "fails with malformed files list",
			files: map[string]string{
				"meta.yaml": "files:\n  nested: true\n",
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envConfigDir, writeConfigDir(t, tt.files))

			provider, err := NewConfig()
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, provider)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "jolt-host", provider.Get("service.name").String())
			assert.Equal(t, "config", provider.Name())
		})
	}
}

func TestConfigFilePriority(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"meta.yaml":        "files:\n  - base.yaml\n  - development.yaml\n  - local.yaml\n",
		"base.yaml":        "service:\n  name: base-service\nlogging:\n  level: info\n",
		"development.yaml": "service:\n  name: dev-service\nlogging:\n  level: debug\n",
		"local.yaml":       "logging:\n  level: warn\n",
	})
	t.Setenv(_envConfigDir, dir)

	provider, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "dev-service", provider.Get("service.name").String())
	assert.Equal(t, "warn", provider.Get("logging.level").String())
}

func TestConfigWithEnvironmentVariables(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"meta.yaml": "files:\n  - base.yaml\n",
		"base.yaml": "bridge:\n  address: ${JOLT_TEST_BRIDGE_ADDRESS:127.0.0.1:56570}\n",
	})
	t.Setenv(_envConfigDir, dir)

	provider, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:56570", provider.Get("bridge.address").String())

	t.Setenv("JOLT_TEST_BRIDGE_ADDRESS", "127.0.0.1:9000")
	provider, err = NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", provider.Get("bridge.address").String())
}

func TestGetConfigDir(t *testing.T) {
	tests := []struct {
		name           string
		envValue       string
		expectedResult string
	}{
		{
			name:           "returns environment variable when set",
			envValue:       "/custom/config/path",
			expectedResult: "/custom/config/path",
		},
		{
			name:           "returns default path when environment variable not set",
			envValue:       "",
			expectedResult: "src/jolt/config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envConfigDir, tt.envValue)
			assert.Equal(t, tt.expectedResult, getConfigDir())
		})
	}
}
