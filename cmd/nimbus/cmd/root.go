package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nimbus",
	Short: "nimbus embeddable scripting engine",
	Long: `nimbus is a small, embeddable, dynamically-typed scripting
language and tree-walking interpreter, written in Go.

It is built to be hosted inside a larger Go program: a configured
Engine (pkg/nimbus) evaluates scripts against native functions the
host registers, with packages of built-in functionality (json, yaml,
fmt) loaded on demand.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("config", "", "package manifest (YAML) listing bundles to load")
}
