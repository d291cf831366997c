package dockerfile

import (
	"fmt"
	"strings"

	"github.com/replicate/envspec/pkg/buildcontext"
)

const (
	WorkDir     = "/root"
	RuntimeUser = "flytekit"
	RuntimeUID  = 1000
)

func workdirAndEnv(env string) string {
	return strings.Join(filterEmpty([]string{"WORKDIR " + WorkDir, env}), "\n")
}

// copySource places the embedded source tree in the working directory,
// owned by the runtime user.
func copySource(ctx *buildcontext.Context) string {
	if !ctx.HasSource {
		return ""
	}
	return fmt.Sprintf("COPY --chown=%d:%d ./%s %s", RuntimeUID, RuntimeUID, buildcontext.SrcDir, WorkDir)
}

// run renders one RUN instruction per command.
func run(commands []string) (string, error) {
	lines := []string{}
	for _, command := range commands {
		command = strings.TrimSpace(command)
		if command == "" {
			continue
		}
		if strings.Contains(command, "\n") {
			return "", fmt.Errorf(`One of the commands contains a new line, which won't work. You need to create a new list item for each command.

This is the offending line: %s`, command)
		}
		lines = append(lines, "RUN "+command)
	}
	return strings.Join(lines, "\n"), nil
}

// runtimeUser creates the unprivileged user and hands it the home and working
// directories. extra lines run as root right after the user is created.
func runtimeUser(extra ...string) string {
	home := "/home/" + RuntimeUser
	steps := []string{
		fmt.Sprintf("RUN useradd --create-home --uid %d %s", RuntimeUID, RuntimeUser),
		fmt.Sprintf("&& chown %s: %s %s", RuntimeUser, WorkDir, home),
	}
	steps = append(steps, extra...)
	return continued(steps[0], steps[1:]...)
}

// switchUser must be the last section of every image.
func switchUser() string {
	return strings.Join([]string{
		`SHELL ["/bin/bash", "-c"]`,
		"USER " + RuntimeUser,
	}, "\n")
}

func filterEmpty(list []string) []string {
	filtered := []string{}
	for _, s := range list {
		if s != "" {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
