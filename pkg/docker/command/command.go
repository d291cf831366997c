package command

import "context"

// Command is the subset of the build tool envspec drives.
type Command interface {
	ImageBuild(ctx context.Context, options ImageBuildOptions) error
}

type ImageBuildOptions struct {
	// Tag is the full image reference, including the registry when set.
	Tag      string
	Platform string
	// Push publishes the image as part of the build.
	Push       bool
	ContextDir string
}
