package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Test Helpers
// =============================================================================

const appDir = "/srv/app"

func newProjectFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(appDir, 0o755))
	for name, content := range files {
		path := filepath.Join(appDir, name)
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func runCLI(t *testing.T, fs afero.Fs, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = execute(fs, args, &out, &errOut)
	return code, out.String(), errOut.String()
}

// =============================================================================
// generate
// =============================================================================

func TestGenerate_WritesArtifacts(t *testing.T) {
	clearEnv(t)
	fs := newProjectFs(t, map[string]string{
		".env":          "DB_CONNECTION=pgsql\nCACHE_DRIVER=redis\n",
		"composer.json": `{"require": {"php": "^8.1"}}`,
	})

	code, stdout, stderr := runCLI(t, fs, "generate", "--dir", appDir)
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Equal(t, successMessage+"\n"+nextStepHint+"\n", stdout)
	assert.Contains(t, stderr, "run_id=")

	for _, name := range []string{"Dockerfile", "docker-compose.yml", "docker/nginx/nginx.conf", "docker/php/php.ini"} {
		exists, err := afero.Exists(fs, filepath.Join(appDir, name))
		require.NoError(t, err)
		assert.True(t, exists, name)
	}

	dockerfile, err := afero.ReadFile(fs, filepath.Join(appDir, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(dockerfile), "FROM php:8.1-fpm\n")
}

func TestGenerate_OverrideFlags(t *testing.T) {
	clearEnv(t)
	fs := newProjectFs(t, nil)

	code, _, stderr := runCLI(t, fs, "generate", "--dir", appDir, "--php", "8.3", "--queue", "redis")
	require.Equal(t, ExitSuccess, code, stderr)

	dockerfile, err := afero.ReadFile(fs, filepath.Join(appDir, "Dockerfile"))
	require.NoError(t, err)
	assert.Contains(t, string(dockerfile), "FROM php:8.3-fpm\n")

	exists, err := afero.Exists(fs, filepath.Join(appDir, "docker/supervisor/supervisord.conf"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGenerate_InvalidOverride(t *testing.T) {
	clearEnv(t)
	fs := newProjectFs(t, nil)

	code, stdout, stderr := runCLI(t, fs, "generate", "--dir", appDir, "--database", "oracle")
	assert.Equal(t, ExitConfigError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "oracle")

	exists, err := afero.Exists(fs, filepath.Join(appDir, "Dockerfile"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGenerate_WriteFailure(t *testing.T) {
	clearEnv(t)
	fs := afero.NewReadOnlyFs(newProjectFs(t, nil))

	code, stdout, stderr := runCLI(t, fs, "generate", "--dir", appDir)
	assert.Equal(t, ExitWriteError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Error: generate:")
}

func TestGenerate_OverwriteWarning(t *testing.T) {
	clearEnv(t)
	fs := newProjectFs(t, map[string]string{"Dockerfile": "FROM scratch\n"})

	code, _, stderr := runCLI(t, fs, "generate", "--dir", appDir)
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stderr, "overwriting existing file")

	code, _, stderr = runCLI(t, fs, "generate", "--dir", appDir, "--force")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.NotContains(t, stderr, "overwriting existing file")
}

func TestGenerate_ConfigFileOutputPaths(t *testing.T) {
	clearEnv(t)
	fs := newProjectFs(t, nil)

	configFile := filepath.Join(t.TempDir(), "dockerize.yaml")
	require.NoError(t, afero.WriteFile(afero.NewOsFs(), configFile,
		[]byte("project:\n  root: "+appDir+"\noutput:\n  compose: compose.yaml\n"), 0o644))

	code, _, stderr := runCLI(t, fs, "generate", "--config", configFile)
	require.Equal(t, ExitSuccess, code, stderr)

	exists, err := afero.Exists(fs, filepath.Join(appDir, "compose.yaml"))
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGenerate_RejectsArguments(t *testing.T) {
	code, _, _ := runCLI(t, afero.NewMemMapFs(), "generate", "extra")
	assert.Equal(t, ExitConfigError, code)
}

// =============================================================================
// detect / version
// =============================================================================

func TestDetect_PrintsYAML(t *testing.T) {
	clearEnv(t)
	fs := newProjectFs(t, map[string]string{
		".env":          "DB_CONNECTION=sqlite\nQUEUE_CONNECTION=database\n",
		"composer.json": `{"require": {"php": "~8.3.0", "ext-imagick": "*"}}`,
	})

	code, stdout, stderr := runCLI(t, fs, "detect", "--dir", appDir)
	require.Equal(t, ExitSuccess, code, stderr)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "8.3", got["php_version"])
	assert.Equal(t, "sqlite", got["database"])
	assert.Equal(t, "file", got["cache_driver"])
	assert.Equal(t, "database", got["queue_driver"])
	assert.Equal(t, []any{"imagick"}, got["dependencies"])
	assert.Equal(t, false, got["mail_capture"])

	// detect never writes.
	exists, err := afero.Exists(fs, filepath.Join(appDir, "Dockerfile"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, afero.NewMemMapFs(), "version")
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "dockerize dev (built unknown)\n", stdout)
}
