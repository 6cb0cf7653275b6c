package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/terraincognita07/tandem/internal/cli"
	"github.com/terraincognita07/tandem/internal/logger"
)

var version = "dev"

func main() {
	var command cli.CLI
	kctx := kong.Parse(&command,
		kong.Name("tandem"),
		kong.Description("Shared household routines for couples"),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	appCtx, err := cli.NewContext(&command.Globals, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := kctx.Run(appCtx); err != nil {
		logger.Error("command failed", "command", kctx.Command(), "err", err)
		os.Exit(1)
	}
}
