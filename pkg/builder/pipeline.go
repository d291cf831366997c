package builder

import (
	"context"
	"os"

	"github.com/replicate/envspec/pkg/buildcontext"
	"github.com/replicate/envspec/pkg/capability"
	"github.com/replicate/envspec/pkg/docker"
	"github.com/replicate/envspec/pkg/docker/command"
	"github.com/replicate/envspec/pkg/dockerfile"
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

var _ Backend = (*Pipeline)(nil)

// Pipeline is a Backend that validates a spec, assembles a temporary build
// context, renders a Dockerfile into it and hands it to the build tool.
type Pipeline struct {
	name      string
	supported spec.FieldSet
	generator dockerfile.Generator
	command   command.Command

	// hasCredentials checks for registry credentials before a push.
	hasCredentials func(registryHost string) bool
	// phases observes phase changes. Used in tests.
	phases func(Phase)
}

func NewPipeline(name string, supported spec.FieldSet, generator dockerfile.Generator, cmd command.Command) *Pipeline {
	return &Pipeline{
		name:           name,
		supported:      supported,
		generator:      generator,
		command:        cmd,
		hasCredentials: docker.HasCredentials,
	}
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) SupportedFields() spec.FieldSet {
	return p.supported
}

// Dockerfile renders the Dockerfile for s without building it. The build
// context is assembled in a temporary directory and removed afterwards.
func (p *Pipeline) Dockerfile(s *spec.Spec) (string, error) {
	capability.Validate(s, p.name, p.supported)
	if err := s.Validate(); err != nil {
		return "", err
	}

	dir, err := buildcontext.NewTempDir()
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	buildCtx, err := buildcontext.Assemble(s, dir)
	if err != nil {
		return "", err
	}
	return p.generator.Generate(s, buildCtx)
}

func (p *Pipeline) Build(ctx context.Context, s *spec.Spec, push bool) (string, error) {
	phase := PhaseIdle
	enter := func(next Phase) error {
		phase = next
		console.Debugf("Builder %s: %s", p.name, phase)
		if p.phases != nil {
			p.phases(phase)
		}
		if phase == PhaseSucceeded || phase == PhaseFailed {
			return nil
		}
		return ctx.Err()
	}
	fail := func(err error) (string, error) {
		failed := phase
		_ = enter(PhaseFailed)
		return "", &PhaseError{Phase: failed, Err: err}
	}

	if err := enter(PhaseValidating); err != nil {
		return fail(err)
	}
	capability.Validate(s, p.name, p.supported)
	if err := s.Validate(); err != nil {
		return fail(err)
	}
	imageName := s.ImageName()
	shouldPush := s.ShouldPush(push)
	if shouldPush {
		p.checkCredentials(imageName)
	}

	if err := enter(PhaseAssemblingContext); err != nil {
		return fail(err)
	}
	dir, err := buildcontext.NewTempDir()
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			console.Warnf("Failed to remove build context %s: %s", dir, err)
		}
	}()
	buildCtx, err := buildcontext.Assemble(s, dir)
	if err != nil {
		return fail(err)
	}

	if err := enter(PhaseComposingScript); err != nil {
		return fail(err)
	}
	contents, err := p.generator.Generate(s, buildCtx)
	if err != nil {
		return fail(err)
	}
	if _, err := buildCtx.WriteDockerfile(contents); err != nil {
		return fail(err)
	}

	if err := enter(PhaseInvoking); err != nil {
		return fail(err)
	}
	err = p.command.ImageBuild(ctx, command.ImageBuildOptions{
		Tag:        imageName,
		Platform:   s.EffectivePlatform(),
		Push:       shouldPush,
		ContextDir: dir,
	})
	if err != nil {
		return fail(err)
	}

	_ = enter(PhaseSucceeded)
	return imageName, nil
}

func (p *Pipeline) checkCredentials(imageName string) {
	host, err := docker.RegistryHost(imageName)
	if err != nil {
		console.Debugf("Could not parse registry of %s: %s", imageName, err)
		return
	}
	if !p.hasCredentials(host) {
		console.Warnf("No credentials found for %s, pushing %s may fail. Run 'docker login %s' first.", host, imageName, host)
	}
}
