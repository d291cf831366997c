package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/replicate/envspec/pkg/docker/command"
	"github.com/replicate/envspec/pkg/global"
	"github.com/replicate/envspec/pkg/util/console"
	"github.com/replicate/envspec/pkg/util/files"
)

var _ command.Command = (*DockerCommand)(nil)

type DockerCommand struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewDockerCommand() *DockerCommand {
	return &DockerCommand{
		Stdout: os.Stderr,
		Stderr: os.Stderr,
	}
}

// BuildArgs renders the arguments passed to the build tool for options.
func BuildArgs(options command.ImageBuildOptions) []string {
	args := []string{
		"image", "build",
		"--tag", options.Tag,
		"--platform", options.Platform,
	}
	if options.Push {
		args = append(args, "--push")
	}
	return append(args, options.ContextDir)
}

func (c *DockerCommand) ImageBuild(ctx context.Context, options command.ImageBuildOptions) error {
	return c.exec(ctx, BuildArgs(options)...)
}

func (c *DockerCommand) exec(ctx context.Context, args ...string) error {
	binary := global.DockerBinary()
	if strings.ContainsRune(binary, os.PathSeparator) && !files.IsExecutable(binary) {
		return fmt.Errorf("build tool %s is not executable", binary)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	console.Info(console.CommandPrefix + strings.Join(cmd.Args, " "))
	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &BuildError{
			Command:  cmd.Args,
			ExitCode: exitErr.ExitCode(),
			Err:      err,
		}
	}
	return fmt.Errorf("failed to run %s: %w", binary, err)
}
