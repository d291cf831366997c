package dockerfile

import (
	"strings"

	"github.com/replicate/envspec/pkg/buildcontext"
	"github.com/replicate/envspec/pkg/spec"
)

const (
	FastGeneratorName = "fast"

	BuilderBaseImage = "thomasjpfan/fast-builder-base:0.0.1"
	CondaEnvName     = "dev"
	VenvDir          = "/venv"
	DefaultChannel   = "conda-forge"

	condaCacheMount = "--mount=type=cache,target=/opt/conda/pkgs,id=conda"
	uvCacheMount    = "--mount=type=cache,target=/root/.cache/uv,id=uv"
	uvBinary        = "/root/.cargo/bin/uv"
	condaPython     = "/opt/conda/envs/" + CondaEnvName + "/bin/python"
)

// FastGenerator builds a mamba environment in a build stage, installs the
// requirements into it with uv, and ships the conda-packed environment to a
// slim runtime stage.
type FastGenerator struct{}

func NewFastGenerator() *FastGenerator {
	return &FastGenerator{}
}

func (g *FastGenerator) Name() string {
	return FastGeneratorName
}

func (g *FastGenerator) Generate(s *spec.Spec, ctx *buildcontext.Context) (string, error) {
	return generate(g, s, ctx)
}

func (g *FastGenerator) Sections(s *spec.Spec, ctx *buildcontext.Context) ([]Section, error) {
	commands, err := run(s.Commands)
	if err != nil {
		return nil, err
	}

	return []Section{
		{"syntax", syntaxDirective + "\nFROM " + BuilderBaseImage + " AS build"},
		{"conda", g.condaCreate(ctx)},
		{"requirements", g.uvInstall(ctx)},
		{"pack", g.pack()},
		{"runtime", "FROM " + s.EffectiveBaseImage() + " AS runtime"},
		{"apt", aptInstall(ctx.AptPackages)},
		{"venv", "COPY --from=build " + VenvDir + " " + VenvDir + "\n" + `ENV PATH="` + VenvDir + `/bin:$PATH"`},
		{"env", workdirAndEnv(envLine(imageEnv(s)))},
		{"source", copySource(ctx)},
		{"commands", commands},
		{"user", runtimeUser(`&& echo "source ` + VenvDir + `/bin/activate" >> /home/` + RuntimeUser + `/.bashrc`)},
		{"switch-user", switchUser()},
	}, nil
}

func (g *FastGenerator) condaCreate(ctx *buildcontext.Context) string {
	channels := []string{"-c " + DefaultChannel}
	for _, channel := range ctx.CondaChannels {
		if channel == DefaultChannel {
			continue
		}
		channels = append(channels, "-c "+channel)
	}

	packages := append([]string{"python=" + ctx.PythonVersion}, ctx.CondaPackages...)

	return continued(
		"RUN "+condaCacheMount,
		"mamba create",
		strings.Join(channels, " "),
		"-n "+CondaEnvName+" -y "+strings.Join(packages, " "),
	)
}

// uvInstall always runs: the manifest holds at least the implicit requirement.
func (g *FastGenerator) uvInstall(ctx *buildcontext.Context) string {
	install := "pip install --python " + condaPython
	if ctx.PipIndex != "" {
		install += " --index-url " + ctx.PipIndex
	}
	return continued(
		"RUN "+uvCacheMount,
		"--mount=type=bind,target="+buildcontext.RequirementsFilename+",src="+buildcontext.RequirementsFilename,
		uvBinary,
		install,
		"--requirement "+buildcontext.RequirementsFilename,
	)
}

func (g *FastGenerator) pack() string {
	return continued(
		"RUN /opt/conda/bin/conda-pack -n "+CondaEnvName+" -o /tmp/env.tar &&",
		"mkdir "+VenvDir+" && cd "+VenvDir+" && tar xf /tmp/env.tar &&",
		"rm /tmp/env.tar",
	) + "\n\nRUN " + VenvDir + "/bin/conda-unpack"
}
