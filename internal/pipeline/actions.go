package pipeline

import (
	"fmt"
	"regexp"

	"github.com/brigantine-ci/brigantine/internal/core"
)

const (
	testJobName    = "tests"
	publishJobName = "build-and-publish"

	defaultTestImage = "golang:1.24-bookworm"
	defaultDindImage = "docker:27-dind"

	// sourceMountPath is where the executor mounts the checked-out source
	// tree inside every pipeline job.
	sourceMountPath = "/go/src/github.com/brigantine-ci/brigantine"

	defaultRegistry = "docker.io"
	defaultOrg      = "brigantineci"
)

// releaseTagPattern recognizes version tag refs such as refs/tags/v1.2.3 or
// refs/tags/v2-rc.1. The captured group, including the leading v, becomes
// the published version.
var releaseTagPattern = regexp.MustCompile(`^refs/tags/(v[0-9]+(?:\.[0-9]+)*(?:-[0-9A-Za-z.]+)?)$`)

// TestJob builds the specification for the verification pipeline. It is a
// pure function of the overrides: same input, same job.
func TestJob(overrides *core.PipelineOverrides) core.JobSpec {
	image := defaultTestImage
	tasks := []string{
		"cd " + sourceMountPath,
		"make verify lint test",
	}
	if overrides != nil {
		if overrides.TestImage != "" {
			image = overrides.TestImage
		}
		if len(overrides.TestTasks) > 0 {
			tasks = append([]string{"cd " + sourceMountPath}, overrides.TestTasks...)
		}
	}

	return core.JobSpec{
		Name:       testJobName,
		Image:      image,
		AlwaysPull: true,
		Tasks:      tasks,
		Env: map[string]string{
			// The test target must not try to talk to a container engine;
			// none is available inside the unprivileged test job.
			"SKIP_DOCKER": "true",
		},
		MountPath: sourceMountPath,
	}
}

// BuildAndPublishJob builds the specification for the multi-image build and
// publish pipeline. Registry and org fall back to fixed defaults when the
// project does not carry them; missing credentials are not validated here
// and surface only as an authentication failure at execution time.
func BuildAndPublishJob(project *core.Project, version string, overrides *core.PipelineOverrides) core.JobSpec {
	registry := project.Secret("dockerRegistry")
	if registry == "" {
		registry = defaultRegistry
	}
	org := project.Secret("dockerOrg")
	if org == "" {
		org = defaultOrg
	}
	image := defaultDindImage
	if overrides != nil && overrides.BuildImage != "" {
		image = overrides.BuildImage
	}

	return core.JobSpec{
		Name:       publishJobName,
		Image:      image,
		AlwaysPull: true,
		Privileged: true,
		Env: map[string]string{
			"DOCKER_REGISTRY": registry,
			"DOCKER_ORG":      org,
			"DOCKER_USER":     project.Secret("dockerUsername"),
			"DOCKER_PASS":     project.Secret("dockerPassword"),
			"VERSION":         version,
		},
		Tasks: []string{
			"apk add --update --no-cache make git",
			"dockerd-entrypoint.sh --storage-driver=overlay2 &",
			`while ! docker info >/dev/null 2>&1; do sleep 1; done`,
			`docker login -u "$DOCKER_USER" -p "$DOCKER_PASS" "$DOCKER_REGISTRY"`,
			"cd " + sourceMountPath,
			fmt.Sprintf("make build-all-images push-all-images DOCKER_REGISTRY=%s DOCKER_ORG=%s VERSION=%s", registry, org, version),
			`docker logout "$DOCKER_REGISTRY"`,
		},
		MountPath: sourceMountPath,
	}
}
