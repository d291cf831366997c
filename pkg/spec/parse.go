package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"github.com/replicate/envspec/pkg/errors"
	"github.com/replicate/envspec/pkg/util/files"
)

// specFile mirrors the YAML layout. Env is a MapSlice so declaration order survives decoding.
type specFile struct {
	Name          string        `yaml:"name"`
	BaseImage     string        `yaml:"base_image"`
	PythonVersion string        `yaml:"python_version"`
	Packages      []string      `yaml:"packages"`
	CondaPackages []string      `yaml:"conda_packages"`
	CondaChannels []string      `yaml:"conda_channels"`
	AptPackages   []string      `yaml:"apt_packages"`
	Env           yaml.MapSlice `yaml:"env"`
	Requirements  string        `yaml:"requirements"`
	SourceRoot    string        `yaml:"source_root"`
	Platform      string        `yaml:"platform"`
	Registry      string        `yaml:"registry"`
	PipIndex      string        `yaml:"pip_index"`
	CUDA          string        `yaml:"cuda"`
	CuDNN         string        `yaml:"cudnn"`
	Commands      []string      `yaml:"commands"`
	Builder       string        `yaml:"builder"`
}

// FromYAML checks contents against the spec schema and decodes it.
func FromYAML(contents []byte) (*Spec, error) {
	if err := ValidateSchema(contents); err != nil {
		return nil, err
	}

	f := &specFile{}
	if err := yaml.Unmarshal(contents, f); err != nil {
		return nil, fmt.Errorf("Failed to parse image spec: %w", err)
	}

	env := []EnvVar{}
	for _, item := range f.Env {
		value := ""
		if item.Value != nil {
			value = fmt.Sprint(item.Value)
		}
		env = append(env, EnvVar{Name: fmt.Sprint(item.Key), Value: value})
	}

	return &Spec{
		Name:          f.Name,
		BaseImage:     f.BaseImage,
		PythonVersion: f.PythonVersion,
		Packages:      f.Packages,
		CondaPackages: f.CondaPackages,
		CondaChannels: f.CondaChannels,
		AptPackages:   f.AptPackages,
		Env:           nilIfEmpty(env),
		Requirements:  f.Requirements,
		SourceRoot:    f.SourceRoot,
		Platform:      f.Platform,
		Registry:      f.Registry,
		PipIndex:      f.PipIndex,
		CUDA:          f.CUDA,
		CuDNN:         f.CuDNN,
		Commands:      f.Commands,
		Builder:       f.Builder,
	}, nil
}

// Load reads, decodes and validates the spec file at path. Relative
// requirements and source_root paths are resolved against the file's directory.
func Load(path string) (*Spec, error) {
	exists, err := files.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.SpecNotFound(fmt.Sprintf("%s does not exist in %s. Are you in the right directory?", filepath.Base(path), filepath.Dir(path)))
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	s, err := FromYAML(contents)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Dir(absPath)
	if s.Requirements, err = files.ExpandPath(s.Requirements, base); err != nil {
		return nil, err
	}
	if s.SourceRoot, err = files.ExpandPath(s.SourceRoot, base); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func nilIfEmpty(env []EnvVar) []EnvVar {
	if len(env) == 0 {
		return nil
	}
	return env
}
