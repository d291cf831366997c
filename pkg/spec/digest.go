package spec

import (
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/replicate/envspec/pkg/dockerignore"
	"github.com/replicate/envspec/pkg/util/console"
	"github.com/replicate/envspec/pkg/util/files"
)

const digestLength = 22

// digestInput is what Digest hashes. Requirements and SourceRoot are replaced
// by what they point to, so the digest follows file contents, not paths.
type digestInput struct {
	Spec             *Spec    `json:"spec"`
	RequirementLines []string `json:"requirement_lines,omitempty"`
	Source           string   `json:"source,omitempty"`
}

// Digest is a content-derived identifier of s. Defaults are filled in before
// hashing, so a spec that omits a value and one that spells out the default
// share a digest. The lines of the requirements file and the files under
// source_root (minus .dockerignore exclusions) are part of the digest.
func (s *Spec) Digest() string {
	completed := *s
	completed.Name = s.EffectiveName()
	completed.BaseImage = s.EffectiveBaseImage()
	completed.PythonVersion = s.EffectivePythonVersion()
	completed.Platform = s.EffectivePlatform()
	// Every backend produces the same environment, the build tool used doesn't change the image.
	completed.Builder = ""
	completed.Requirements = ""
	completed.SourceRoot = ""

	input := digestInput{Spec: &completed}
	if s.Requirements != "" {
		lines, err := requirementLines(s.Requirements)
		if err != nil {
			// Assembling the build context reports the real error.
			console.Debugf("Hashing requirements path %s: %s", s.Requirements, err)
			lines = []string{"path:" + s.Requirements}
		}
		input.RequirementLines = lines
	}
	if s.SourceRoot != "" {
		sum, err := sourceTreeDigest(s.SourceRoot)
		if err != nil {
			console.Debugf("Hashing source_root path %s: %s", s.SourceRoot, err)
			sum = "path:" + s.SourceRoot
		}
		input.Source = sum
	}

	// Marshalling a struct with slices and strings can't fail.
	bs, _ := json.Marshal(&input)
	sum := sha256.Sum256(bs)
	encoded := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:])
	return strings.ToLower(encoded[:digestLength])
}

// requirementLines reads a requirements file the way the build context
// writes it into the manifest.
func requirementLines(path string) ([]string, error) {
	lines, err := files.ReadLines(path)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines, nil
}

// sourceTreeDigest hashes the relative path, type, executable bit and contents
// of every entry under root that would be copied into the build context.
func sourceTreeDigest(root string) (string, error) {
	matcher, err := dockerignore.CreateMatcher(root)
	if err != nil {
		return "", err
	}

	h := sha256.New()
	err = dockerignore.Walk(root, matcher, func(relPath string, d fs.DirEntry) error {
		path := filepath.Join(root, relPath)
		info, err := d.Info()
		if err != nil {
			return err
		}
		fmt.Fprintf(h, "%s\x00%s\x00%t\x00", filepath.ToSlash(relPath), info.Mode().Type().String(), info.Mode().Perm()&0o111 != 0)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(h, "%s\x00", target)
		case d.Type().IsRegular():
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			if _, err := io.Copy(h, f); err != nil {
				return err
			}
			h.Write([]byte{0})
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ImageName is the fully qualified image reference: [registry/]name:digest.
func (s *Spec) ImageName() string {
	repository := s.EffectiveName()
	if s.Registry != "" {
		repository = strings.TrimSuffix(s.Registry, "/") + "/" + repository
	}
	return repository + ":" + s.Digest()
}

// ParseImageName validates the image reference produced by ImageName.
func (s *Spec) ParseImageName() (name.Tag, error) {
	return name.NewTag(s.ImageName(), name.WeakValidation)
}
