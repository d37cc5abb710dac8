package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brigantine-ci/brigantine/internal/core"
)

func TestTestJobDefaults(t *testing.T) {
	spec := TestJob(nil)

	assert.Equal(t, testJobName, spec.Name)
	assert.Equal(t, defaultTestImage, spec.Image)
	assert.True(t, spec.AlwaysPull)
	assert.False(t, spec.Privileged)
	assert.Equal(t, sourceMountPath, spec.MountPath)
	assert.Equal(t, "true", spec.Env["SKIP_DOCKER"])
	require.Len(t, spec.Tasks, 2)
	assert.Equal(t, "cd "+sourceMountPath, spec.Tasks[0])
	assert.Equal(t, "make verify lint test", spec.Tasks[1])
}

func TestTestJobOverrides(t *testing.T) {
	overrides := &core.PipelineOverrides{
		TestImage: "golang:1.25rc1",
		TestTasks: []string{"make short-test"},
	}

	spec := TestJob(overrides)

	assert.Equal(t, "golang:1.25rc1", spec.Image)
	require.Len(t, spec.Tasks, 2)
	assert.Equal(t, "make short-test", spec.Tasks[1])
}

func TestBuildAndPublishJobDefaults(t *testing.T) {
	project := &core.Project{Name: "brigantine"}

	spec := BuildAndPublishJob(project, "v2.0.0", nil)

	assert.Equal(t, publishJobName, spec.Name)
	assert.True(t, spec.Privileged, "the publish job runs a nested container engine")
	assert.Equal(t, defaultRegistry, spec.Env["DOCKER_REGISTRY"])
	assert.Equal(t, defaultOrg, spec.Env["DOCKER_ORG"])
	assert.Equal(t, "v2.0.0", spec.Env["VERSION"])
	// Absent credentials are not a construction-time error.
	assert.Equal(t, "", spec.Env["DOCKER_USER"])
	assert.Equal(t, "", spec.Env["DOCKER_PASS"])
}

func TestBuildAndPublishJobUsesProjectSecrets(t *testing.T) {
	project := &core.Project{
		Name: "brigantine",
		Secrets: map[string]string{
			"dockerRegistry": "registry.example.com",
			"dockerOrg":      "shipyard",
			"dockerUsername": "deckhand",
			"dockerPassword": "hunter2",
		},
	}

	spec := BuildAndPublishJob(project, "", nil)

	assert.Equal(t, "registry.example.com", spec.Env["DOCKER_REGISTRY"])
	assert.Equal(t, "shipyard", spec.Env["DOCKER_ORG"])
	assert.Equal(t, "deckhand", spec.Env["DOCKER_USER"])
	assert.Equal(t, "hunter2", spec.Env["DOCKER_PASS"])
	assert.Equal(t, "", spec.Env["VERSION"], "edge builds carry no version")
	assert.Contains(t, spec.Tasks, `docker login -u "$DOCKER_USER" -p "$DOCKER_PASS" "$DOCKER_REGISTRY"`)
}

func TestReleaseTagPattern(t *testing.T) {
	tests := []struct {
		ref     string
		version string
	}{
		{"refs/tags/v1", "v1"},
		{"refs/tags/v1.2", "v1.2"},
		{"refs/tags/v1.2.3", "v1.2.3"},
		{"refs/tags/v2.0.0-rc.1", "v2.0.0-rc.1"},
		{"refs/tags/v10.20.30-beta", "v10.20.30-beta"},
		{"refs/tags/1.2.3", ""},
		{"refs/tags/version1", ""},
		{"refs/tags/v1.2.3-", ""},
		{"refs/heads/v1.2.3", ""},
		{"refs/heads/master", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			m := releaseTagPattern.FindStringSubmatch(tt.ref)
			if tt.version == "" {
				assert.Nil(t, m)
				return
			}
			require.NotNil(t, m)
			assert.Equal(t, tt.version, m[1])
		})
	}
}
