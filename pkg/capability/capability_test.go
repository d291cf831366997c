package capability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	console.SetOutput(&bytes.Buffer{}, &buf)
	console.SetColor(false)
	t.Cleanup(func() { console.SetOutput(nil, nil) })
	return &buf
}

func TestValidate(t *testing.T) {
	for _, tt := range []struct {
		name      string
		spec      spec.Spec
		supported spec.FieldSet
		want      []spec.Field
	}{
		{
			name:      "empty spec",
			spec:      spec.Spec{},
			supported: spec.NewFieldSet(),
			want:      []spec.Field{},
		},
		{
			name:      "everything supported",
			spec:      spec.Spec{Packages: []string{"numpy"}, PythonVersion: "3.11"},
			supported: spec.NewFieldSet(spec.AllFields()...),
			want:      []spec.Field{},
		},
		{
			name:      "internal fields never reported",
			spec:      spec.Spec{Name: "x", Builder: "standard"},
			supported: spec.NewFieldSet(),
			want:      []spec.Field{},
		},
		{
			name: "unsupported in declaration order",
			spec: spec.Spec{
				CUDA:          "12.3.2",
				CondaPackages: []string{"prodigal"},
				Packages:      []string{"numpy"},
				BaseImage:     "ubuntu:22.04",
			},
			supported: spec.NewFieldSet(spec.FieldPackages),
			want:      []spec.Field{spec.FieldBaseImage, spec.FieldCondaPackages, spec.FieldCUDA},
		},
		{
			name:      "empty lists are unset",
			spec:      spec.Spec{AptPackages: []string{}, Commands: nil},
			supported: spec.NewFieldSet(),
			want:      []spec.Field{},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			captureWarnings(t)
			require.Equal(t, tt.want, Validate(&tt.spec, "test", tt.supported))
		})
	}
}

func TestValidateWarnsOnce(t *testing.T) {
	buf := captureWarnings(t)
	s := &spec.Spec{CUDA: "12.3.2", CuDNN: "8"}

	unsupported := Validate(s, "standard", spec.NewFieldSet())

	require.Equal(t, []spec.Field{spec.FieldCUDA, spec.FieldCuDNN}, unsupported)
	out := buf.String()
	require.Equal(t, 1, strings.Count(out, "\n"))
	require.Contains(t, out, "Builder standard does not support cuda, cudnn")
}

func TestValidateSilentWhenSupported(t *testing.T) {
	buf := captureWarnings(t)
	s := &spec.Spec{Packages: []string{"numpy"}}

	Validate(s, "fast-builder", spec.NewFieldSet(spec.FieldPackages))

	require.Empty(t, buf.String())
}
