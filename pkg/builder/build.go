package builder

import (
	"context"
	"fmt"

	"github.com/replicate/envspec/pkg/global"
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

// Build resolves the backend for s in registry and builds the image,
// returning its reference. s.Builder names the backend; when it's empty the
// ENVSPEC_BUILDER environment variable is consulted, then priority decides.
func Build(ctx context.Context, registry *Registry, s *spec.Spec, push bool) (string, error) {
	backend, err := Resolve(registry, s)
	if err != nil {
		return "", err
	}
	console.Infof("Building %s with builder %s", s.ImageName(), backend.Name())
	return backend.Build(ctx, s, push)
}

// Resolve returns the backend that Build would use for s.
func Resolve(registry *Registry, s *spec.Spec) (Backend, error) {
	name := s.Builder
	if name == "" {
		name = global.DefaultBuilder()
	}
	backend, err := registry.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("failed to select builder: %w", err)
	}
	return backend, nil
}
