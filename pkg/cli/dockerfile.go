package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/replicate/envspec/pkg/builder"
	"github.com/replicate/envspec/pkg/util/console"
)

var dockerfileBuilder string

func newDockerfileCommand(registry *builder.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dockerfile [spec.yaml]",
		Short: "Print the Dockerfile a spec compiles to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dockerfileCommand(registry, args)
		},
	}
	addBuilderFlag(cmd, &dockerfileBuilder)
	return cmd
}

func dockerfileCommand(registry *builder.Registry, args []string) error {
	s, err := loadSpec(specPaths(args)[0], dockerfileBuilder)
	if err != nil {
		return err
	}
	backend, err := builder.Resolve(registry, s)
	if err != nil {
		return err
	}
	renderer, ok := backend.(builder.DockerfileRenderer)
	if !ok {
		return fmt.Errorf("Builder %s can't show its Dockerfile", backend.Name())
	}
	contents, err := renderer.Dockerfile(s)
	if err != nil {
		return err
	}
	console.Output(contents)
	return nil
}
