// Package standard registers a single-stage pip backend built on the official
// Python images. It is chosen only when requested by name or when no
// higher-priority backend is registered.
package standard

import (
	"github.com/replicate/envspec/pkg/builder"
	"github.com/replicate/envspec/pkg/docker"
	"github.com/replicate/envspec/pkg/docker/command"
	"github.com/replicate/envspec/pkg/dockerfile"
	"github.com/replicate/envspec/pkg/spec"
)

const (
	Name     = "standard"
	Priority = 1
)

var SupportedFields = spec.NewFieldSet(
	spec.FieldPythonVersion,
	spec.FieldPackages,
	spec.FieldAptPackages,
	spec.FieldEnv,
	spec.FieldRequirements,
	spec.FieldSourceRoot,
	spec.FieldPlatform,
	spec.FieldRegistry,
	spec.FieldPipIndex,
	spec.FieldCommands,
)

func init() {
	builder.Register(Name, New(docker.NewDockerCommand()), Priority)
}

func New(cmd command.Command) *builder.Pipeline {
	return builder.NewPipeline(Name, SupportedFields, dockerfile.NewStandardGenerator(), cmd)
}
