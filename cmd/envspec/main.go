package main

import (
	"github.com/replicate/envspec/pkg/cli"
	"github.com/replicate/envspec/pkg/util/console"

	_ "github.com/replicate/envspec/pkg/builder/fast"
	_ "github.com/replicate/envspec/pkg/builder/standard"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
