// Package builder selects an image builder backend for a spec and drives it.
package builder

import (
	"context"

	"github.com/replicate/envspec/pkg/spec"
)

// Backend builds images for specs.
type Backend interface {
	Name() string
	// SupportedFields lists the spec fields the backend understands. Other
	// fields are reported and ignored.
	SupportedFields() spec.FieldSet
	// Build builds the image for s and returns its reference. The image is
	// pushed when push is true and s names a registry.
	Build(ctx context.Context, s *spec.Spec, push bool) (string, error)
}

// DockerfileRenderer is implemented by backends that can show the Dockerfile
// they would build without running the build tool.
type DockerfileRenderer interface {
	Dockerfile(s *spec.Spec) (string, error)
}
