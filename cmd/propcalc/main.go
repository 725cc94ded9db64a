// Command propcalc evaluates a property snapshot file offline.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&calcCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
