package global

import (
	"os"
)

var (
	Version        = "0.0.1"
	Commit         = ""
	BuildTime      = "none"
	Verbose        = false
	NoColor        = false
	LogLevel       = ""
	ConfigFilename = "imagespec.yaml"
)

const (
	// DockerBinaryEnvVarName overrides the build tool binary.
	DockerBinaryEnvVarName = "ENVSPEC_DOCKER"
	// BuilderEnvVarName selects the backend when a spec doesn't name one.
	BuilderEnvVarName = "ENVSPEC_BUILDER"
	// LogLevelEnvVarName sets the default of --log-level.
	LogLevelEnvVarName = "ENVSPEC_LOG_LEVEL"
)

// DockerBinary returns the build tool invoked for image builds.
func DockerBinary() string {
	if bin := os.Getenv(DockerBinaryEnvVarName); bin != "" {
		return bin
	}
	return "docker"
}

// DefaultBuilder returns the backend name configured in the environment, or
// the empty string to let the registry pick by priority.
func DefaultBuilder() string {
	return os.Getenv(BuilderEnvVarName)
}

// DefaultLogLevel returns the log level configured in the environment, or info.
func DefaultLogLevel() string {
	if level := os.Getenv(LogLevelEnvVarName); level != "" {
		return level
	}
	return "info"
}
