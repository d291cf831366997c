package dockerfile

import (
	"github.com/replicate/envspec/pkg/buildcontext"
	"github.com/replicate/envspec/pkg/spec"
)

const syntaxDirective = "#syntax=docker/dockerfile:1.5"

// Generator renders the Dockerfile for an assembled build context.
type Generator interface {
	Name() string
	Sections(s *spec.Spec, ctx *buildcontext.Context) ([]Section, error)
	Generate(s *spec.Spec, ctx *buildcontext.Context) (string, error)
}

func generate(g Generator, s *spec.Spec, ctx *buildcontext.Context) (string, error) {
	sections, err := g.Sections(s, ctx)
	if err != nil {
		return "", err
	}
	return Render(sections), nil
}
