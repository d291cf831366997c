package console

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// CommandPrefix starts the line logged for every external command we run.
const CommandPrefix = "Run command: "

// ConsoleInstance is the global instance of console, so we don't have to pass it around everywhere
var ConsoleInstance = &Console{
	Color: IsTTY(os.Stderr),
	Level: InfoLevel,
}

// SetLevel sets log level
func SetLevel(level Level) {
	ConsoleInstance.Level = level
}

// SetColor sets whether to print colors
func SetColor(color bool) {
	ConsoleInstance.Color = color
}

// SetOutput redirects messages and primary output, mainly for tests.
func SetOutput(out, err io.Writer) {
	ConsoleInstance.mu.Lock()
	defer ConsoleInstance.mu.Unlock()
	ConsoleInstance.Out = out
	ConsoleInstance.Err = err
}

func Debug(msg string) {
	ConsoleInstance.Debug(msg)
}

func Info(msg string) {
	ConsoleInstance.Info(msg)
}

func Warn(msg string) {
	ConsoleInstance.Warn(msg)
}

func Error(msg string) {
	ConsoleInstance.Error(msg)
}

func Fatal(msg string) {
	ConsoleInstance.Fatal(msg)
}

func Debugf(msg string, v ...any) {
	ConsoleInstance.Debugf(msg, v...)
}

func Infof(msg string, v ...any) {
	ConsoleInstance.Infof(msg, v...)
}

func Warnf(msg string, v ...any) {
	ConsoleInstance.Warnf(msg, v...)
}

func Errorf(msg string, v ...any) {
	ConsoleInstance.Errorf(msg, v...)
}

func Fatalf(msg string, v ...any) {
	ConsoleInstance.Fatalf(msg, v...)
}

// Output a line to stdout. Useful for printing primary output of a command, or the output of a subcommand.
func Output(s string) {
	ConsoleInstance.Output(s)
}

// IsTTY checks if a file is a TTY or not. E.g. IsTTY(os.Stdin)
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd())
}
