// Package fast registers the fast-builder backend: a two-stage build that
// resolves packages with mamba and uv and ships a packed environment on a
// slim runtime image.
package fast

import (
	"github.com/replicate/envspec/pkg/builder"
	"github.com/replicate/envspec/pkg/docker"
	"github.com/replicate/envspec/pkg/docker/command"
	"github.com/replicate/envspec/pkg/dockerfile"
	"github.com/replicate/envspec/pkg/spec"
)

const (
	Name     = "fast-builder"
	Priority = 10
)

// SupportedFields is every field of the spec.
var SupportedFields = spec.NewFieldSet(spec.AllFields()...)

func init() {
	builder.Register(Name, New(docker.NewDockerCommand()), Priority)
}

// New returns the fast-builder backend driving cmd.
func New(cmd command.Command) *builder.Pipeline {
	return builder.NewPipeline(Name, SupportedFields, dockerfile.NewFastGenerator(), cmd)
}
