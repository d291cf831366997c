package spec

import (
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/hashicorp/go-version"

	"github.com/replicate/envspec/pkg/util/console"
)

// FallbackPythonVersion is used when the host has no usable python3.
const FallbackPythonVersion = "3.11"

var (
	hostPythonOnce    sync.Once
	hostPythonVersion string

	// pythonVersionOutput runs the host interpreter. Replaced in tests.
	pythonVersionOutput = func() (string, error) {
		out, err := exec.Command("python3", "--version").CombinedOutput()
		return string(out), err
	}
)

// HostPythonVersion returns the <major>.<minor> of the host's python3. The
// lookup happens once per process so every build in it agrees on the default.
func HostPythonVersion() string {
	hostPythonOnce.Do(func() {
		hostPythonVersion = FallbackPythonVersion
		out, err := pythonVersionOutput()
		if err != nil {
			console.Debugf("No host python3 found, defaulting to Python %s: %v", FallbackPythonVersion, err)
			return
		}
		v, err := parsePythonVersionOutput(out)
		if err != nil {
			console.Debugf("Could not parse %q, defaulting to Python %s: %v", strings.TrimSpace(out), FallbackPythonVersion, err)
			return
		}
		hostPythonVersion = v
	})
	return hostPythonVersion
}

// parsePythonVersionOutput turns "Python 3.11.4" into "3.11".
func parsePythonVersionOutput(out string) (string, error) {
	out = strings.TrimSpace(out)
	raw, ok := strings.CutPrefix(out, "Python ")
	if !ok {
		return "", fmt.Errorf("unexpected python version output %q", out)
	}
	return MajorMinor(raw)
}

// MajorMinor returns the <major>.<minor> prefix of a version string.
func MajorMinor(raw string) (string, error) {
	v, err := version.NewVersion(raw)
	if err != nil {
		return "", err
	}
	segments := v.Segments()
	return fmt.Sprintf("%d.%d", segments[0], segments[1]), nil
}
