package dockerfile

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/envspec/pkg/buildcontext"
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

func assemble(t *testing.T, s *spec.Spec) *buildcontext.Context {
	t.Helper()
	ctx, err := buildcontext.Assemble(s, t.TempDir())
	require.NoError(t, err)
	return ctx
}

func TestFastGenerateMinimal(t *testing.T) {
	s := &spec.Spec{PythonVersion: "3.11", Packages: []string{"numpy"}}
	actual, err := NewFastGenerator().Generate(s, assemble(t, s))
	require.NoError(t, err)

	expected := `#syntax=docker/dockerfile:1.5
FROM thomasjpfan/fast-builder-base:0.0.1 AS build

RUN --mount=type=cache,target=/opt/conda/pkgs,id=conda \
    mamba create \
    -c conda-forge \
    -n dev -y python=3.11

RUN --mount=type=cache,target=/root/.cache/uv,id=uv \
    --mount=type=bind,target=requirements.txt,src=requirements.txt \
    /root/.cargo/bin/uv \
    pip install --python /opt/conda/envs/dev/bin/python \
    --requirement requirements.txt

RUN /opt/conda/bin/conda-pack -n dev -o /tmp/env.tar && \
    mkdir /venv && cd /venv && tar xf /tmp/env.tar && \
    rm /tmp/env.tar

RUN /venv/bin/conda-unpack

FROM debian:bookworm-slim AS runtime

COPY --from=build /venv /venv
ENV PATH="/venv/bin:$PATH"

WORKDIR /root
ENV PYTHONPATH=/root FLYTE_SDK_RICH_TRACEBACKS=0 SSL_CERT_DIR=/etc/ssl/certs _F_IMG_ID=` + s.ImageName() + `

RUN useradd --create-home --uid 1000 flytekit \
    && chown flytekit: /root /home/flytekit \
    && echo "source /venv/bin/activate" >> /home/flytekit/.bashrc

SHELL ["/bin/bash", "-c"]
USER flytekit
`
	require.Equal(t, expected, actual)
}

func TestFastGenerateSystemPackages(t *testing.T) {
	s := &spec.Spec{PythonVersion: "3.11", AptPackages: []string{"git"}, Packages: []string{"comet-ml"}}
	ctx := assemble(t, s)
	actual, err := NewFastGenerator().Generate(s, ctx)
	require.NoError(t, err)

	require.Contains(t, actual, `FROM debian:bookworm-slim AS runtime

RUN --mount=type=cache,target=/var/cache/apt,id=apt \
    apt-get update && apt-get install -y --no-install-recommends \
    ca-certificates xz-utils git \
    && update-ca-certificates \
    && rm -rf /var/lib/apt/lists/*

COPY --from=build /venv /venv`)
	require.Contains(t, ctx.Requirements, "comet-ml")
}

func TestFastGenerateAccelerator(t *testing.T) {
	s := &spec.Spec{
		PythonVersion: "3.11",
		CondaChannels: []string{"bioconda", "conda-forge"},
		CondaPackages: []string{"prodigal"},
		CUDA:          "12.3.2",
		CuDNN:         "8",
	}
	actual, err := NewFastGenerator().Generate(s, assemble(t, s))
	require.NoError(t, err)

	require.Contains(t, actual, `RUN --mount=type=cache,target=/opt/conda/pkgs,id=conda \
    mamba create \
    -c conda-forge -c bioconda \
    -n dev -y python=3.11 prodigal cuda=12.3.2 cudnn=8
`)
}

func TestFastGenerateFull(t *testing.T) {
	src := t.TempDir()
	s := &spec.Spec{
		Name:          "check-flytekit",
		BaseImage:     "nvcr.io/nvidia/driver:535-5.15.0-1048-nvidia-ubuntu22.04",
		PythonVersion: "3.10",
		Packages:      []string{"torch==2.2.2"},
		PipIndex:      "https://download.pytorch.org/whl/cu121",
		Env:           []spec.EnvVar{{"a", "b"}, {"c", "d"}},
		SourceRoot:    src,
		Commands:      []string{"mkdir /hello", "touch /hello/world.txt"},
		Registry:      "ghcr.io/thomasjpfan",
	}
	actual, err := NewFastGenerator().Generate(s, assemble(t, s))
	require.NoError(t, err)

	require.Contains(t, actual, "pip install --python /opt/conda/envs/dev/bin/python --index-url https://download.pytorch.org/whl/cu121 \\\n")
	require.Contains(t, actual, "FROM nvcr.io/nvidia/driver:535-5.15.0-1048-nvidia-ubuntu22.04 AS runtime\n")
	require.Contains(t, actual, "_F_IMG_ID=ghcr.io/thomasjpfan/check-flytekit:"+s.Digest()+" a=b c=d\n")
	require.Contains(t, actual, `COPY --chown=1000:1000 ./src /root

RUN mkdir /hello
RUN touch /hello/world.txt

RUN useradd`)
	require.True(t, strings.HasSuffix(actual, "USER flytekit\n"))
}

func TestFastGenerateSectionOrder(t *testing.T) {
	s := &spec.Spec{
		PythonVersion: "3.11",
		AptPackages:   []string{"git"},
		SourceRoot:    t.TempDir(),
		Commands:      []string{"echo hi"},
	}
	sections, err := NewFastGenerator().Sections(s, assemble(t, s))
	require.NoError(t, err)
	require.Equal(t, []string{
		"syntax", "conda", "requirements", "pack", "runtime", "apt", "venv", "env", "source", "commands", "user", "switch-user",
	}, Names(sections))

	s = &spec.Spec{PythonVersion: "3.11"}
	sections, err = NewFastGenerator().Sections(s, assemble(t, s))
	require.NoError(t, err)
	require.Equal(t, []string{
		"syntax", "conda", "requirements", "pack", "runtime", "venv", "env", "user", "switch-user",
	}, Names(sections))
}

var placeholder = regexp.MustCompile(`\$\{?[A-Za-z_][A-Za-z0-9_]*`)

func TestGenerateLeavesNoPlaceholdersOrBrokenCommands(t *testing.T) {
	for _, g := range []Generator{NewFastGenerator(), NewStandardGenerator()} {
		t.Run(g.Name(), func(t *testing.T) {
			s := &spec.Spec{PythonVersion: "3.11"}
			actual, err := g.Generate(s, assemble(t, s))
			require.NoError(t, err)

			for _, match := range placeholder.FindAllString(actual, -1) {
				require.Equal(t, "$PATH", match)
			}
			lines := strings.Split(actual, "\n")
			for i, line := range lines {
				require.NotEqual(t, "RUN", strings.TrimSpace(line))
				require.False(t, strings.HasSuffix(line, " "), "trailing space on line %d: %q", i, line)
				if strings.HasSuffix(line, "\\") {
					require.NotEmpty(t, strings.TrimSpace(lines[i+1]), "continuation into empty line %d", i+1)
				}
			}
			require.NotContains(t, actual, "\n\n\n")
		})
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	s := &spec.Spec{
		PythonVersion: "3.11",
		Packages:      []string{"numpy"},
		AptPackages:   []string{"git"},
		Env:           []spec.EnvVar{{"z", "1"}, {"a", "2"}},
	}
	first, err := NewFastGenerator().Generate(s, assemble(t, s))
	require.NoError(t, err)
	second, err := NewFastGenerator().Generate(s, assemble(t, s))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGenerateRejectsMultilineCommand(t *testing.T) {
	s := &spec.Spec{PythonVersion: "3.11", Commands: []string{"echo a\necho b"}}
	_, err := NewFastGenerator().Generate(s, assemble(t, s))
	require.Error(t, err)
	require.Contains(t, err.Error(), "new line")
}

func TestImageEnvOrderAndOverrides(t *testing.T) {
	var buf bytes.Buffer
	console.SetOutput(&bytes.Buffer{}, &buf)
	t.Cleanup(func() { console.SetOutput(nil, nil) })

	s := &spec.Spec{
		PythonVersion: "3.11",
		Env: []spec.EnvVar{
			{"j", "k"},
			{"PYTHONPATH", "/src"},
			{"a", "b"},
			{"j", "last"},
		},
	}
	env := imageEnv(s)
	require.Equal(t, []spec.EnvVar{
		{PythonPathEnvVarName, "/src"},
		{TracebacksEnvVarName, "0"},
		{SSLCertDirEnvVarName, "/etc/ssl/certs"},
		{ImageIDEnvVarName, s.ImageName()},
		{"j", "last"},
		{"a", "b"},
	}, env)
	require.Contains(t, buf.String(), "PYTHONPATH overrides the image default")
}

func TestRender(t *testing.T) {
	require.Equal(t, "FROM a\n\nRUN b\n", Render([]Section{
		{"from", "FROM a"},
		{"empty", ""},
		{"blank", "\n  \n"},
		{"run", "RUN b\n"},
	}))
}
