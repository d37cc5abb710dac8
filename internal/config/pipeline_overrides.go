package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brigantine-ci/brigantine/internal/core"
)

var (
	ErrOverridesNotFound = errors.New("pipeline overrides file not found")
	ErrOverridesParsing  = errors.New("pipeline overrides parsing failed")
)

// LoadPipelineOverrides loads and parses the operator-managed .brigantine.yml
// file. A missing file is not fatal: the built-in pipeline defaults apply and
// ErrOverridesNotFound is returned so the caller can log it.
func LoadPipelineOverrides(path string) (*core.PipelineOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultPipelineOverrides(), ErrOverridesNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	overrides := core.DefaultPipelineOverrides()
	if err := yaml.Unmarshal(data, overrides); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOverridesParsing, err)
	}
	return overrides, nil
}
