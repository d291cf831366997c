package dockerignore

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/replicate/envspec/pkg/util/files"
)

const DockerIgnoreFilename = ".dockerignore"

// CreateMatcher compiles the .dockerignore in dir. It returns nil when dir has none.
func CreateMatcher(dir string) (*ignore.GitIgnore, error) {
	dockerIgnorePath := filepath.Join(dir, DockerIgnoreFilename)
	dockerIgnoreExists, err := files.Exists(dockerIgnorePath)
	if err != nil {
		return nil, err
	}
	if !dockerIgnoreExists {
		return nil, nil
	}

	patterns, err := readDockerIgnore(dockerIgnorePath)
	if err != nil {
		return nil, err
	}
	return ignore.CompileIgnoreLines(patterns...), nil
}

// Walk calls fn for every entry under root, in lexical order, that isn't
// excluded by ignoreMatcher. Paths passed to fn are relative to root; root
// itself is not visited.
func Walk(root string, ignoreMatcher *ignore.GitIgnore, fn func(relPath string, d fs.DirEntry) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		if matches(ignoreMatcher, filepath.ToSlash(relPath), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(relPath, d)
	})
}

func matches(m *ignore.GitIgnore, relPath string, isDir bool) bool {
	if m == nil {
		return false
	}
	return m.MatchesPath(relPath) || (isDir && m.MatchesPath(relPath+"/"))
}

func readDockerIgnore(dockerIgnorePath string) ([]string, error) {
	var patterns []string
	file, err := os.Open(dockerIgnorePath)
	if err != nil {
		return patterns, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	return patterns, scanner.Err()
}
