package docker

import (
	"fmt"
	"strings"
)

// BuildError is returned when the build tool exits unsuccessfully.
type BuildError struct {
	Command  []string
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s exited with status %d", strings.Join(e.Command, " "), e.ExitCode)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
