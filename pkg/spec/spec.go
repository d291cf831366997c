// Package spec defines the image spec compiled into container builds.
package spec

const (
	DefaultName      = "flytekit"
	DefaultBaseImage = "debian:bookworm-slim"
	DefaultPlatform  = "linux/amd64"
)

// EnvVar is a single environment variable. Spec.Env keeps them in the order
// they were declared.
type EnvVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Spec describes the runtime environment of an image. Treat values as
// immutable: consumers copy slices before changing them.
type Spec struct {
	Name          string   `json:"name,omitempty"`
	BaseImage     string   `json:"base_image,omitempty"`
	PythonVersion string   `json:"python_version,omitempty"`
	Packages      []string `json:"packages,omitempty"`
	CondaPackages []string `json:"conda_packages,omitempty"`
	CondaChannels []string `json:"conda_channels,omitempty"`
	AptPackages   []string `json:"apt_packages,omitempty"`
	Env           []EnvVar `json:"env,omitempty"`
	Requirements  string   `json:"requirements,omitempty"`
	SourceRoot    string   `json:"source_root,omitempty"`
	Platform      string   `json:"platform,omitempty"`
	Registry      string   `json:"registry,omitempty"`
	PipIndex      string   `json:"pip_index,omitempty"`
	CUDA          string   `json:"cuda,omitempty"`
	CuDNN         string   `json:"cudnn,omitempty"`
	Commands      []string `json:"commands,omitempty"`
	Builder       string   `json:"builder,omitempty"`
}

func (s *Spec) EffectiveName() string {
	if s.Name == "" {
		return DefaultName
	}
	return s.Name
}

func (s *Spec) EffectiveBaseImage() string {
	if s.BaseImage == "" {
		return DefaultBaseImage
	}
	return s.BaseImage
}

// EffectivePythonVersion returns the requested Python version, or the host
// interpreter's <major>.<minor> when none was requested.
func (s *Spec) EffectivePythonVersion() string {
	if s.PythonVersion == "" {
		return HostPythonVersion()
	}
	return s.PythonVersion
}

func (s *Spec) EffectivePlatform() string {
	if s.Platform == "" {
		return DefaultPlatform
	}
	return s.Platform
}

// ShouldPush reports whether a build that was asked to push actually publishes.
func (s *Spec) ShouldPush(push bool) bool {
	return push && s.Registry != ""
}
