package core

// PipelineOverrides customizes the built-in pipeline jobs. It is loaded from
// an operator-managed .brigantine.yml; empty fields keep the built-in
// defaults.
type PipelineOverrides struct {
	// TestImage replaces the container image the test job runs in.
	TestImage string `yaml:"testImage"`
	// TestTasks replaces the shell tasks of the test job.
	TestTasks []string `yaml:"testTasks"`
	// BuildImage replaces the docker-in-docker image of the publish job.
	BuildImage string `yaml:"buildImage"`
}

// DefaultPipelineOverrides returns an override set that changes nothing.
func DefaultPipelineOverrides() *PipelineOverrides {
	return &PipelineOverrides{}
}
