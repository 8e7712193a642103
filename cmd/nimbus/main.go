// Command nimbus is the CLI front-end for the nimbus scripting engine:
// run, parse, and lex subcommands over the same lexer/parser/interp
// stack pkg/nimbus embeds.
package main

import (
	"os"

	"github.com/nimbus-lang/nimbus/cmd/nimbus/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
