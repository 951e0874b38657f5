package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProjectConfig(t *testing.T) {
	cfg := DefaultProjectConfig()
	assert.Equal(t, "1.0", cfg.Version)
	assert.Contains(t, cfg.Include, "**/*.py")
	assert.Contains(t, cfg.Exclude, "**/__pycache__/**")
	assert.False(t, cfg.Index.PrefixTopLevel)
}

func TestLoadProjectConfig_Missing(t *testing.T) {
	cfg, err := LoadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectConfig(), cfg)
}

func TestLoadProjectConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := `version: "2.0"
include:
  - "src/**/*.py"
index:
  prefix_top_level: true
describe:
  show_body: true
  header: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pyslice.yaml"), []byte(content), 0644))

	cfg, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "2.0", cfg.Version)
	assert.Equal(t, []string{"src/**/*.py"}, cfg.Include)
	assert.True(t, cfg.Index.PrefixTopLevel)
	require.NotNil(t, cfg.Describe.ShowBody)
	assert.True(t, *cfg.Describe.ShowBody)
	require.NotNil(t, cfg.Describe.Header)
	assert.False(t, *cfg.Describe.Header)
	// Untouched fields keep defaults
	assert.Contains(t, cfg.Exclude, "**/.git/**")
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pyslice.yaml"), []byte(":\tnot yaml"), 0644))

	_, err := LoadProjectConfig(dir)
	assert.Error(t, err)
}

func TestProjectConfig_Merge(t *testing.T) {
	base := DefaultProjectConfig()
	quiet := true
	base.Merge(&ProjectConfig{
		Version: "3.0",
		Exclude: []string{"custom/**"},
		Describe: DescribeConfig{
			Quiet: &quiet,
		},
	})

	assert.Equal(t, "3.0", base.Version)
	assert.Equal(t, []string{"custom/**"}, base.Exclude)
	assert.Contains(t, base.Include, "**/*.py")
	require.NotNil(t, base.Describe.Quiet)
	assert.True(t, *base.Describe.Quiet)

	// Merging nil is a no-op
	before := *base
	base.Merge(nil)
	assert.Equal(t, before.Version, base.Version)
}

func TestLoad_EnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "", cfg.DatabaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "production", cfg.Env)
}
