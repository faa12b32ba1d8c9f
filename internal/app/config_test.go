package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config and runtime location at fresh directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_RUNTIME_DIR", "")
	for _, key := range []string{
		"RBWCHAIN_TOOL_NAME", "RBWCHAIN_TOOL_ARGS", "RBWCHAIN_TOOL_TIMEOUT",
		"RBWCHAIN_TEMPFILE_DIR", "RBWCHAIN_TEMPFILE_PATTERN",
		"RBWCHAIN_LOGGING_LEVEL", "RBWCHAIN_LOGGING_FORMAT", "RBWCHAIN_DEBUG",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func TestInitConfig_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := initConfig("")
	require.NoError(t, err)

	assert.Equal(t, "rbw", cfg.Tool.Name)
	assert.Equal(t, []string{"get"}, cfg.Tool.Args)
	assert.Equal(t, "0", cfg.Tool.Timeout)
	assert.Equal(t, os.TempDir(), cfg.TempFile.Dir)
	assert.Equal(t, "rbwchain-*", cfg.TempFile.Pattern)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.False(t, cfg.Debug)

	timeout, err := cfg.ToolTimeout()
	require.NoError(t, err)
	assert.Zero(t, timeout)
}

func TestInitConfig_RuntimeDirDefault(t *testing.T) {
	isolate(t)
	runtimeDir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	cfg, err := initConfig("")
	require.NoError(t, err)
	assert.Equal(t, runtimeDir, cfg.TempFile.Dir)
}

func TestInitConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("RBWCHAIN_TOOL_NAME", "/opt/rbw/bin/rbw")
	t.Setenv("RBWCHAIN_TOOL_TIMEOUT", "45s")
	t.Setenv("RBWCHAIN_TEMPFILE_DIR", "/dev/shm")
	t.Setenv("RBWCHAIN_LOGGING_FORMAT", "json")
	t.Setenv("RBWCHAIN_DEBUG", "1")

	cfg, err := initConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/opt/rbw/bin/rbw", cfg.Tool.Name)
	assert.Equal(t, "/dev/shm", cfg.TempFile.Dir)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Debug)

	timeout, err := cfg.ToolTimeout()
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, timeout)
}

func TestInitConfig_SearchPath(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "rbwchain")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(`
[tool]
name = "rbw-wrapper"
args = ["get", "--full"]
timeout = "2m"

[tempfile]
pattern = "secret-*.env"
`), 0o600))

	cfg, err := initConfig("")
	require.NoError(t, err)

	assert.Equal(t, "rbw-wrapper", cfg.Tool.Name)
	assert.Equal(t, []string{"get", "--full"}, cfg.Tool.Args)
	assert.Equal(t, "secret-*.env", cfg.TempFile.Pattern)

	timeout, err := cfg.ToolTimeout()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, timeout)
}

func TestInitConfig_ExplicitFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "rbwchain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

	cfg, err := initConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInitConfig_EnvBeatsFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "rbwchain.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tool]\nname = \"from-file\"\n"), 0o600))
	t.Setenv("RBWCHAIN_TOOL_NAME", "from-env")

	cfg, err := initConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Tool.Name)
}

func TestInitConfig_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		isolate(t)
		_, err := initConfig(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		isolate(t)
		t.Setenv("RBWCHAIN_TOOL_TIMEOUT", "soon")
		_, err := initConfig("")
		assert.ErrorContains(t, err, "tool.timeout")
	})
}
