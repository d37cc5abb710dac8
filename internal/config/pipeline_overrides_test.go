package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPipelineOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".brigantine.yml")
	content := `
testImage: golang:1.25rc1
testTasks:
  - make short-test
buildImage: docker:28-dind
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	overrides, err := LoadPipelineOverrides(path)

	require.NoError(t, err)
	assert.Equal(t, "golang:1.25rc1", overrides.TestImage)
	assert.Equal(t, []string{"make short-test"}, overrides.TestTasks)
	assert.Equal(t, "docker:28-dind", overrides.BuildImage)
}

func TestLoadPipelineOverridesMissingFile(t *testing.T) {
	overrides, err := LoadPipelineOverrides(filepath.Join(t.TempDir(), "nope.yml"))

	assert.ErrorIs(t, err, ErrOverridesNotFound)
	require.NotNil(t, overrides, "a missing file still yields usable defaults")
	assert.Empty(t, overrides.TestImage)
	assert.Empty(t, overrides.TestTasks)
}

func TestLoadPipelineOverridesInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".brigantine.yml")
	require.NoError(t, os.WriteFile(path, []byte("testImage: [unclosed"), 0o600))

	_, err := LoadPipelineOverrides(path)

	assert.ErrorIs(t, err, ErrOverridesParsing)
}

func TestPipelineConfigSecretsOmitsEmptyValues(t *testing.T) {
	cfg := PipelineConfig{
		DockerRegistry: "registry.example.com",
		DockerUsername: "deckhand",
	}

	secrets := cfg.Secrets()

	assert.Equal(t, "registry.example.com", secrets["dockerRegistry"])
	assert.Equal(t, "deckhand", secrets["dockerUsername"])
	_, hasOrg := secrets["dockerOrg"]
	assert.False(t, hasOrg)
	_, hasPass := secrets["dockerPassword"]
	assert.False(t, hasPass)
}
