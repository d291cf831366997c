package spec

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	cerrors "github.com/replicate/envspec/pkg/errors"
)

func TestMain(m *testing.M) {
	pythonVersionOutput = func() (string, error) {
		return "Python 3.12.1\n", nil
	}
	os.Exit(m.Run())
}

func resetHostPython(t *testing.T, output string, err error) {
	t.Helper()
	previous := pythonVersionOutput
	pythonVersionOutput = func() (string, error) { return output, err }
	hostPythonOnce = sync.Once{}
	t.Cleanup(func() {
		pythonVersionOutput = previous
		hostPythonOnce = sync.Once{}
	})
}

func TestFromYAML(t *testing.T) {
	s, err := FromYAML([]byte(`
name: unionbio-protein
python_version: "3.11"
packages:
  - numpy
conda_channels:
  - bioconda
  - conda-forge
conda_packages:
  - prodigal
env:
  j: k
  a: b
  c: 1
registry: ghcr.io/unionai-oss
platform: linux/arm64
commands:
  - mkdir /hello
`))
	require.NoError(t, err)
	require.Equal(t, "unionbio-protein", s.Name)
	require.Equal(t, "3.11", s.PythonVersion)
	require.Equal(t, []string{"numpy"}, s.Packages)
	require.Equal(t, []string{"bioconda", "conda-forge"}, s.CondaChannels)
	require.Equal(t, []string{"prodigal"}, s.CondaPackages)
	require.Equal(t, []EnvVar{{"j", "k"}, {"a", "b"}, {"c", "1"}}, s.Env)
	require.Equal(t, "ghcr.io/unionai-oss", s.Registry)
	require.Equal(t, "linux/arm64", s.Platform)
	require.Equal(t, []string{"mkdir /hello"}, s.Commands)
}

func TestFromYAMLUnquotedPythonVersion(t *testing.T) {
	s, err := FromYAML([]byte("python_version: 3.10\n"))
	require.NoError(t, err)
	require.Equal(t, "3.10", s.PythonVersion)
}

func TestFromYAMLEmpty(t *testing.T) {
	s, err := FromYAML([]byte(""))
	require.NoError(t, err)
	require.Empty(t, s.Fields())
}

func TestFromYAMLRejectsUnknownField(t *testing.T) {
	_, err := FromYAML([]byte("python_packages:\n  - numpy\n"))
	require.Error(t, err)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Contains(t, err.Error(), "python_packages")
}

func TestFromYAMLRejectsWrongType(t *testing.T) {
	_, err := FromYAML([]byte("packages: numpy\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "packages")
}

func TestLoadResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "requirements.txt"), []byte("pandas\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	specPath := filepath.Join(dir, "imagespec.yaml")
	require.NoError(t, os.WriteFile(specPath, []byte(`
python_version: "3.11"
requirements: requirements.txt
source_root: src
`), 0o644))

	s, err := Load(specPath)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "requirements.txt"), s.Requirements)
	require.Equal(t, filepath.Join(dir, "src"), s.SourceRoot)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "imagespec.yaml"))
	require.Error(t, err)
	require.True(t, cerrors.IsSpecNotFound(err))
}

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		name    string
		spec    Spec
		wantErr string
	}{
		{"empty", Spec{}, ""},
		{"major minor", Spec{PythonVersion: "3.11"}, ""},
		{"patch", Spec{PythonVersion: "3.11.4"}, ""},
		{"major only", Spec{PythonVersion: "3"}, "python_version"},
		{"garbage", Spec{PythonVersion: "three.eleven"}, "python_version"},
		{"cudnn without cuda", Spec{CuDNN: "8"}, ""},
		{"cuda and cudnn", Spec{CUDA: "12.3.2", CuDNN: "8"}, ""},
		{"empty env name", Spec{Env: []EnvVar{{"", "x"}}}, "must not be empty"},
		{"env name with equals", Spec{Env: []EnvVar{{"A=B", "x"}}}, "invalid environment variable name"},
		{"multiline command", Spec{Commands: []string{"echo a\necho b"}}, "new line"},
		{"bad registry", Spec{Registry: "ghcr.io/UPPER CASE"}, "registry"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFields(t *testing.T) {
	s := &Spec{
		Name:          "ignored",
		Builder:       "fast-builder",
		Packages:      []string{"numpy"},
		Platform:      "linux/arm64",
		CondaChannels: []string{},
		CUDA:          "12.3.2",
	}
	require.Equal(t, []Field{FieldPackages, FieldPlatform, FieldCUDA}, s.Fields())
}

func TestAllFieldsExcludesInternal(t *testing.T) {
	all := AllFields()
	require.NotContains(t, all, FieldName)
	require.NotContains(t, all, FieldBuilder)
	require.Contains(t, all, FieldCommands)
	require.Len(t, all, 15)
}

func TestDigestIsDeterministic(t *testing.T) {
	a := &Spec{PythonVersion: "3.11", Packages: []string{"numpy"}, Env: []EnvVar{{"a", "b"}}}
	b := &Spec{PythonVersion: "3.11", Packages: []string{"numpy"}, Env: []EnvVar{{"a", "b"}}}
	require.Equal(t, a.Digest(), b.Digest())
	require.Len(t, a.Digest(), digestLength)

	c := &Spec{PythonVersion: "3.11", Packages: []string{"numpy", "pandas"}}
	require.NotEqual(t, a.Digest(), c.Digest())
}

func TestDigestFillsDefaults(t *testing.T) {
	implicit := &Spec{PythonVersion: "3.11"}
	explicit := &Spec{PythonVersion: "3.11", Name: DefaultName, BaseImage: DefaultBaseImage, Platform: DefaultPlatform}
	require.Equal(t, implicit.Digest(), explicit.Digest())

	nilSlice := &Spec{PythonVersion: "3.11"}
	emptySlice := &Spec{PythonVersion: "3.11", Packages: []string{}}
	require.Equal(t, nilSlice.Digest(), emptySlice.Digest())

	otherBuilder := &Spec{PythonVersion: "3.11", Builder: "standard"}
	require.Equal(t, implicit.Digest(), otherBuilder.Digest())
}

func TestDigestFollowsRequirementsContents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("pandas==1.0\n"), 0o644))
	s := &Spec{PythonVersion: "3.11", Requirements: path}
	before := s.Digest()

	require.NoError(t, os.WriteFile(path, []byte("pandas==2.2\n"), 0o644))
	require.NotEqual(t, before, s.Digest())

	// the location of an identical file doesn't matter
	other := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(other, []byte("  pandas==2.2\n"), 0o644))
	require.Equal(t, s.Digest(), (&Spec{PythonVersion: "3.11", Requirements: other}).Digest())
}

func TestDigestFollowsSourceTree(t *testing.T) {
	writeTree := func(dir string, workflow string) {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "pkg"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pkg", "workflow.py"), []byte(workflow), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".dockerignore"), []byte("*.env\n"), 0o644))
	}

	first := t.TempDir()
	second := t.TempDir()
	writeTree(first, "import flytekit\n")
	writeTree(second, "import flytekit\n")
	a := &Spec{PythonVersion: "3.11", SourceRoot: first}
	b := &Spec{PythonVersion: "3.11", SourceRoot: second}
	require.Equal(t, a.Digest(), b.Digest())
	before := a.Digest()

	for _, tt := range []struct {
		name    string
		change  func()
		changed bool
	}{
		{"ignored file added", func() {
			require.NoError(t, os.WriteFile(filepath.Join(first, "secret.env"), []byte("TOKEN=x\n"), 0o644))
		}, false},
		{"file edited", func() {
			require.NoError(t, os.WriteFile(filepath.Join(first, "pkg", "workflow.py"), []byte("import pandas\n"), 0o644))
		}, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt.change()
			if tt.changed {
				require.NotEqual(t, before, a.Digest())
			} else {
				require.Equal(t, before, a.Digest())
			}
		})
	}
}

func TestDigestWithMissingRequirementsFile(t *testing.T) {
	dir := t.TempDir()
	a := &Spec{PythonVersion: "3.11", Requirements: filepath.Join(dir, "a.txt")}
	b := &Spec{PythonVersion: "3.11", Requirements: filepath.Join(dir, "b.txt")}
	require.Len(t, a.Digest(), digestLength)
	require.NotEqual(t, a.Digest(), b.Digest())
}

func TestImageName(t *testing.T) {
	s := &Spec{PythonVersion: "3.11"}
	require.Equal(t, "flytekit:"+s.Digest(), s.ImageName())

	s = &Spec{Name: "check-flytekit", Registry: "ghcr.io/thomasjpfan/", PythonVersion: "3.11"}
	require.Equal(t, "ghcr.io/thomasjpfan/check-flytekit:"+s.Digest(), s.ImageName())

	tag, err := s.ParseImageName()
	require.NoError(t, err)
	require.Equal(t, "ghcr.io", tag.RegistryStr())
	require.Equal(t, s.Digest(), tag.TagStr())
}

func TestShouldPush(t *testing.T) {
	require.False(t, (&Spec{}).ShouldPush(true))
	require.False(t, (&Spec{Registry: "host/repo"}).ShouldPush(false))
	require.True(t, (&Spec{Registry: "host/repo"}).ShouldPush(true))
}

func TestHostPythonVersion(t *testing.T) {
	resetHostPython(t, "Python 3.10.14\n", nil)
	require.Equal(t, "3.10", HostPythonVersion())
	require.Equal(t, "3.10", (&Spec{}).EffectivePythonVersion())
	require.Equal(t, "3.9", (&Spec{PythonVersion: "3.9"}).EffectivePythonVersion())
}

func TestHostPythonVersionFallback(t *testing.T) {
	resetHostPython(t, "", errors.New("exec: \"python3\": executable file not found in $PATH"))
	require.Equal(t, FallbackPythonVersion, HostPythonVersion())

	resetHostPython(t, "something else", nil)
	require.Equal(t, FallbackPythonVersion, HostPythonVersion())
}

func TestEffectiveDefaults(t *testing.T) {
	s := &Spec{}
	require.Equal(t, DefaultName, s.EffectiveName())
	require.Equal(t, DefaultBaseImage, s.EffectiveBaseImage())
	require.Equal(t, DefaultPlatform, s.EffectivePlatform())
}
