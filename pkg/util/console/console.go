// Package console provides leveled, optionally colored messages for the user on stderr.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
)

// Console writes human-facing messages. Primary output (a rendered Dockerfile,
// an image reference) goes to stdout through Output, everything else to Err.
type Console struct {
	Color bool
	Level Level
	Err   io.Writer
	Out   io.Writer
	mu    sync.Mutex
}

// Debug prints a verbose debugging message, that is not displayed by default to the user.
func (c *Console) Debug(msg string) {
	c.log(DebugLevel, msg)
}

// Info tells the user what's going on.
func (c *Console) Info(msg string) {
	c.log(InfoLevel, msg)
}

// Warn tells the user that something might break.
func (c *Console) Warn(msg string) {
	c.log(WarnLevel, msg)
}

// Error tells the user that something is broken.
func (c *Console) Error(msg string) {
	c.log(ErrorLevel, msg)
}

// Fatal level message, followed by exit
func (c *Console) Fatal(msg string) {
	c.log(FatalLevel, msg)
	os.Exit(1)
}

func (c *Console) Debugf(msg string, v ...any) {
	c.log(DebugLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Infof(msg string, v ...any) {
	c.log(InfoLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Warnf(msg string, v ...any) {
	c.log(WarnLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Errorf(msg string, v ...any) {
	c.log(ErrorLevel, fmt.Sprintf(msg, v...))
}

func (c *Console) Fatalf(msg string, v ...any) {
	c.log(FatalLevel, fmt.Sprintf(msg, v...))
	os.Exit(1)
}

// Output writes s and a newline to stdout.
func (c *Console) Output(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out(), s)
}

func (c *Console) log(level Level, msg string) {
	if level < c.Level {
		return
	}

	prompt := ""
	if c.Color {
		switch level {
		case WarnLevel:
			prompt = aurora.Yellow("⚠ ").String()
		case ErrorLevel, FatalLevel:
			prompt = aurora.Red("ⅹ ").String()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	w := c.err()
	for _, line := range strings.Split(msg, "\n") {
		switch {
		case c.Color && level == DebugLevel:
			line = aurora.Faint(line).String()
		case c.Color && level == InfoLevel && strings.HasPrefix(line, CommandPrefix):
			line = aurora.Blue(line).String()
		}
		fmt.Fprintln(w, prompt+line)
	}
}

func (c *Console) err() io.Writer {
	if c.Err == nil {
		return os.Stderr
	}
	return c.Err
}

func (c *Console) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
