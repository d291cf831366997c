package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/replicate/envspec/pkg/builder"
	"github.com/replicate/envspec/pkg/util/console"
)

var buildBuilder string
var buildNoPush bool
var buildParallel int

func newBuildCommand(registry *builder.Registry) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [spec.yaml...]",
		Short: "Build images from spec files",
		Long: `Build an image for each spec file, imagespec.yaml by default.

Images are pushed when the spec names a registry, unless --no-push is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return buildCommand(cmd, registry, args)
		},
	}
	addBuilderFlag(cmd, &buildBuilder)
	cmd.Flags().BoolVar(&buildNoPush, "no-push", false, "Build without pushing, even when the spec names a registry")
	cmd.Flags().IntVarP(&buildParallel, "parallel", "j", 1, "Number of images to build at the same time")
	return cmd
}

func buildCommand(cmd *cobra.Command, registry *builder.Registry, args []string) error {
	paths := specPaths(args)
	refs := make([]string, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	if buildParallel > 0 {
		g.SetLimit(buildParallel)
	}
	for i, path := range paths {
		g.Go(func() error {
			s, err := loadSpec(path, buildBuilder)
			if err != nil {
				return err
			}
			ref, err := builder.Build(ctx, registry, s, !buildNoPush)
			if err != nil {
				return err
			}
			refs[i] = ref
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, ref := range refs {
		console.Infof("Image built as %s", ref)
		console.Output(ref)
	}
	return nil
}
