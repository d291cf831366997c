package dockerfile

import (
	"github.com/replicate/envspec/pkg/buildcontext"
	"github.com/replicate/envspec/pkg/spec"
)

const (
	StandardGeneratorName = "standard"

	pipCacheMount = "--mount=type=cache,target=/root/.cache/pip,id=pip"
)

// StandardGenerator is a single stage pip build on the official Python image.
// It has no conda environment, so conda packages, channels and CUDA pins are
// not rendered, and the base image is always the Python one.
type StandardGenerator struct{}

func NewStandardGenerator() *StandardGenerator {
	return &StandardGenerator{}
}

func (g *StandardGenerator) Name() string {
	return StandardGeneratorName
}

func (g *StandardGenerator) Generate(s *spec.Spec, ctx *buildcontext.Context) (string, error) {
	return generate(g, s, ctx)
}

func (g *StandardGenerator) Sections(s *spec.Spec, ctx *buildcontext.Context) ([]Section, error) {
	commands, err := run(s.Commands)
	if err != nil {
		return nil, err
	}

	return []Section{
		{"syntax", syntaxDirective + "\nFROM " + PythonBaseImage(ctx.PythonVersion)},
		{"apt", aptInstall(ctx.AptPackages)},
		{"requirements", g.pipInstall(ctx)},
		{"env", workdirAndEnv(envLine(imageEnv(s)))},
		{"source", copySource(ctx)},
		{"commands", commands},
		{"user", runtimeUser()},
		{"switch-user", switchUser()},
	}, nil
}

// PythonBaseImage is the official slim image for a Python version.
func PythonBaseImage(pythonVersion string) string {
	return "python:" + pythonVersion + "-slim-bookworm"
}

func (g *StandardGenerator) pipInstall(ctx *buildcontext.Context) string {
	install := "pip install"
	if ctx.PipIndex != "" {
		install += " --index-url " + ctx.PipIndex
	}
	return continued(
		"RUN "+pipCacheMount,
		"--mount=type=bind,target=/tmp/"+buildcontext.RequirementsFilename+",src="+buildcontext.RequirementsFilename,
		install,
		"--requirement /tmp/"+buildcontext.RequirementsFilename,
	)
}
