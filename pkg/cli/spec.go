package cli

import (
	"github.com/replicate/envspec/pkg/global"
	"github.com/replicate/envspec/pkg/spec"
	"github.com/replicate/envspec/pkg/util/console"
)

// specPaths returns args, or the default spec file in the current directory.
func specPaths(args []string) []string {
	if len(args) == 0 {
		return []string{global.ConfigFilename}
	}
	return args
}

func loadSpec(path string, builderName string) (*spec.Spec, error) {
	console.Debugf("Loading spec from %s", path)
	s, err := spec.Load(path)
	if err != nil {
		return nil, err
	}
	if builderName != "" {
		s.Builder = builderName
	}
	return s, nil
}
