// Command shellvm loads a compiled chunk and drives it to completion,
// the thin CLI entrypoint of spec section 6, grounded on wudi-hey's
// cmd/hey/main.go (urfave/cli/v3.Command wiring a single top-level
// Action around the interpreter core) but stripped to this language's
// much smaller surface: there is no parser/compiler in this module, so
// the CLI operates directly on persisted bytecode (chunk.Decode).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wudi/shellish/chunk"
	"github.com/wudi/shellish/stdlib"
	"github.com/wudi/shellish/vm"
)

func main() {
	app := &cli.Command{
		Name:  "shellvm",
		Usage: "run a compiled shellish bytecode chunk",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "compat-string-equality",
				Usage: "compare display strings when an operand of ==, < or > has no numeric value",
			},
		},
		ArgsUsage: "<chunk-file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("usage: shellvm [options] <chunk-file>")
			}
			return run(cmd.Args().First(), cmd.Bool("compat-string-equality"))
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "shellvm: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, compatStringEquality bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	c, err := chunk.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	machine := vm.New(c)
	machine.CompatStringEquality = compatStringEquality
	stdlib.Install(machine)

	if err := machine.Run(); err != nil {
		if vmErr, ok := err.(*vm.Error); ok {
			vm.PrintDiagnostic(vmErr)
			os.Exit(1)
		}
		return err
	}
	return nil
}
