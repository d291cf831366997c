package dockertest

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/replicate/envspec/pkg/docker/command"
)

var _ command.Command = (*MockCommand)(nil)

// MockCommand records image builds instead of running a build tool.
type MockCommand struct {
	// BuildError is returned from every ImageBuild call.
	BuildError error
	// OnBuild runs before ImageBuild returns, while the context directory still exists.
	OnBuild func(options command.ImageBuildOptions)

	mu     sync.Mutex
	builds []Build
}

// Build is one recorded ImageBuild call.
type Build struct {
	Options    command.ImageBuildOptions
	Dockerfile string
}

func NewMockCommand() *MockCommand {
	return &MockCommand{}
}

func (c *MockCommand) ImageBuild(ctx context.Context, options command.ImageBuildOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dockerfile, _ := os.ReadFile(filepath.Join(options.ContextDir, "Dockerfile"))

	c.mu.Lock()
	c.builds = append(c.builds, Build{Options: options, Dockerfile: string(dockerfile)})
	c.mu.Unlock()

	if c.OnBuild != nil {
		c.OnBuild(options)
	}
	return c.BuildError
}

// Builds returns the recorded builds in call order.
func (c *MockCommand) Builds() []Build {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Build(nil), c.builds...)
}
