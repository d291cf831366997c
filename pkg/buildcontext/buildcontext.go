// Package buildcontext materializes the directory handed to the image build tool.
package buildcontext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/replicate/envspec/pkg/dockerignore"
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
	"github.com/replicate/envspec/pkg/util/files"
)

const (
	RequirementsFilename = "requirements.txt"
	DockerfileFilename   = "Dockerfile"
	SrcDir               = "src"

	// ImplicitRequirement is installed into every image.
	ImplicitRequirement = "flytekit"

	CUDAPackage  = "cuda"
	CuDNNPackage = "cudnn"
)

// BaselineAptPackages are installed along with any requested apt packages.
var BaselineAptPackages = []string{"ca-certificates", "xz-utils"}

// Context is the assembled build context and the package lists derived from the spec.
type Context struct {
	Dir           string
	PythonVersion string
	Requirements  []string
	CondaPackages []string
	CondaChannels []string
	AptPackages   []string
	PipIndex      string
	HasSource     bool
}

// AssemblyError is an I/O failure while assembling a build context.
type AssemblyError struct {
	Op   string
	Path string
	Err  error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assemble build context: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *AssemblyError) Unwrap() error {
	return e.Err
}

// NewTempDir creates a uniquely named directory for a single build.
func NewTempDir() (string, error) {
	dir, err := os.MkdirTemp("", "envspec-build")
	if err != nil {
		return "", &AssemblyError{Op: "create", Path: os.TempDir(), Err: err}
	}
	return dir, nil
}

// Assemble writes the requirements manifest and the optional source tree for
// s into dir. The same spec always produces the same directory contents.
func Assemble(s *spec.Spec, dir string) (*Context, error) {
	requirements, err := Requirements(s)
	if err != nil {
		return nil, err
	}
	manifest := filepath.Join(dir, RequirementsFilename)
	if err := files.WriteFile(manifest, []byte(strings.Join(requirements, "\n")+"\n")); err != nil {
		return nil, &AssemblyError{Op: "write", Path: manifest, Err: err}
	}
	console.Debugf("Wrote %s with %d requirements", manifest, len(requirements))

	hasSource := false
	if s.SourceRoot != "" {
		if err := CopySource(s.SourceRoot, filepath.Join(dir, SrcDir)); err != nil {
			return nil, err
		}
		hasSource = true
	}

	return &Context{
		Dir:           dir,
		PythonVersion: s.EffectivePythonVersion(),
		Requirements:  requirements,
		CondaPackages: CondaPackages(s),
		CondaChannels: slices.Clone(s.CondaChannels),
		AptPackages:   AptPackages(s),
		PipIndex:      s.PipIndex,
		HasSource:     hasSource,
	}, nil
}

// Requirements returns the implicit requirement, then the lines of the
// requirements file, then the spec's packages.
func Requirements(s *spec.Spec) ([]string, error) {
	requirements := []string{ImplicitRequirement}
	if s.Requirements != "" {
		lines, err := files.ReadLines(s.Requirements)
		if err != nil {
			return nil, &AssemblyError{Op: "read", Path: s.Requirements, Err: err}
		}
		for _, line := range lines {
			requirements = append(requirements, strings.TrimSpace(line))
		}
	}
	return append(requirements, s.Packages...), nil
}

// CondaPackages returns the spec's conda packages followed by the CUDA and
// cuDNN pins. The cuDNN pin needs a CUDA pin and is dropped without one. The
// spec's slice is never modified.
func CondaPackages(s *spec.Spec) []string {
	packages := slices.Clone(s.CondaPackages)
	if s.CuDNN != "" && s.CUDA == "" {
		console.Warnf("cudnn %s is ignored because cuda is not set", s.CuDNN)
	}
	if s.CUDA != "" {
		packages = append(packages, CUDAPackage+"="+s.CUDA)
		if s.CuDNN != "" {
			packages = append(packages, CuDNNPackage+"="+s.CuDNN)
		}
	}
	return packages
}

// AptPackages returns nil when the spec has no apt packages, otherwise the
// baseline packages followed by the spec's, without duplicates.
func AptPackages(s *spec.Spec) []string {
	if len(s.AptPackages) == 0 {
		return nil
	}
	packages := []string{}
	seen := map[string]bool{}
	for _, pkg := range slices.Concat(BaselineAptPackages, s.AptPackages) {
		if seen[pkg] {
			continue
		}
		seen[pkg] = true
		packages = append(packages, pkg)
	}
	return packages
}

// CopySource recursively copies src into dest, skipping paths excluded by a
// .dockerignore in src.
func CopySource(src string, dest string) error {
	isDir, err := files.IsDir(src)
	if err != nil {
		return &AssemblyError{Op: "stat", Path: src, Err: err}
	}
	if !isDir {
		return &AssemblyError{Op: "copy", Path: src, Err: files.ErrNotDirectory}
	}

	matcher, err := dockerignore.CreateMatcher(src)
	if err != nil {
		return &AssemblyError{Op: "read", Path: filepath.Join(src, dockerignore.DockerIgnoreFilename), Err: err}
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return &AssemblyError{Op: "mkdir", Path: dest, Err: err}
	}

	err = dockerignore.Walk(src, matcher, func(relPath string, d fs.DirEntry) error {
		from := filepath.Join(src, relPath)
		to := filepath.Join(dest, relPath)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(from)
			if err != nil {
				return err
			}
			return os.Symlink(target, to)
		case d.IsDir():
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.MkdirAll(to, info.Mode().Perm())
		case d.Type().IsRegular():
			return files.CopyFile(from, to)
		default:
			console.Debugf("Skipping %s, not a regular file", from)
			return nil
		}
	})
	if err != nil {
		var assemblyErr *AssemblyError
		if errors.As(err, &assemblyErr) {
			return err
		}
		return &AssemblyError{Op: "copy", Path: src, Err: err}
	}
	return nil
}

// WriteDockerfile writes the rendered Dockerfile into the context.
func (c *Context) WriteDockerfile(contents string) (string, error) {
	path := filepath.Join(c.Dir, DockerfileFilename)
	if err := files.WriteFile(path, []byte(contents)); err != nil {
		return "", &AssemblyError{Op: "write", Path: path, Err: err}
	}
	return path, nil
}
