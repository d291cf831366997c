package spec

import "strings"

// Field names a Spec field by its YAML key.
type Field string

const (
	FieldName          Field = "name"
	FieldBaseImage     Field = "base_image"
	FieldPythonVersion Field = "python_version"
	FieldPackages      Field = "packages"
	FieldCondaPackages Field = "conda_packages"
	FieldCondaChannels Field = "conda_channels"
	FieldAptPackages   Field = "apt_packages"
	FieldEnv           Field = "env"
	FieldRequirements  Field = "requirements"
	FieldSourceRoot    Field = "source_root"
	FieldPlatform      Field = "platform"
	FieldRegistry      Field = "registry"
	FieldPipIndex      Field = "pip_index"
	FieldCUDA          Field = "cuda"
	FieldCuDNN         Field = "cudnn"
	FieldCommands      Field = "commands"
	FieldBuilder       Field = "builder"
)

type fieldEntry struct {
	field    Field
	internal bool
	isSet    func(s *Spec) bool
}

// fieldTable lists every Spec field in declaration order. Internal fields are
// understood by every backend and never reported as unsupported.
var fieldTable = []fieldEntry{
	{FieldName, true, func(s *Spec) bool { return s.Name != "" }},
	{FieldBaseImage, false, func(s *Spec) bool { return s.BaseImage != "" }},
	{FieldPythonVersion, false, func(s *Spec) bool { return s.PythonVersion != "" }},
	{FieldPackages, false, func(s *Spec) bool { return len(s.Packages) > 0 }},
	{FieldCondaPackages, false, func(s *Spec) bool { return len(s.CondaPackages) > 0 }},
	{FieldCondaChannels, false, func(s *Spec) bool { return len(s.CondaChannels) > 0 }},
	{FieldAptPackages, false, func(s *Spec) bool { return len(s.AptPackages) > 0 }},
	{FieldEnv, false, func(s *Spec) bool { return len(s.Env) > 0 }},
	{FieldRequirements, false, func(s *Spec) bool { return s.Requirements != "" }},
	{FieldSourceRoot, false, func(s *Spec) bool { return s.SourceRoot != "" }},
	{FieldPlatform, false, func(s *Spec) bool { return s.Platform != "" }},
	{FieldRegistry, false, func(s *Spec) bool { return s.Registry != "" }},
	{FieldPipIndex, false, func(s *Spec) bool { return s.PipIndex != "" }},
	{FieldCUDA, false, func(s *Spec) bool { return s.CUDA != "" }},
	{FieldCuDNN, false, func(s *Spec) bool { return s.CuDNN != "" }},
	{FieldCommands, false, func(s *Spec) bool { return len(s.Commands) > 0 }},
	{FieldBuilder, true, func(s *Spec) bool { return s.Builder != "" }},
}

// Fields returns the non-internal fields that are set on s, in declaration order.
func (s *Spec) Fields() []Field {
	fields := []Field{}
	for _, entry := range fieldTable {
		if !entry.internal && entry.isSet(s) {
			fields = append(fields, entry.field)
		}
	}
	return fields
}

// AllFields returns every non-internal field.
func AllFields() []Field {
	fields := []Field{}
	for _, entry := range fieldTable {
		if !entry.internal {
			fields = append(fields, entry.field)
		}
	}
	return fields
}

// FieldSet is the set of fields a backend understands.
type FieldSet map[Field]struct{}

func NewFieldSet(fields ...Field) FieldSet {
	set := make(FieldSet, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func (fs FieldSet) Has(f Field) bool {
	_, ok := fs[f]
	return ok
}

// JoinFields joins field names with ", ".
func JoinFields(fields []Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
