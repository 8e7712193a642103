package cmd

import (
	"fmt"
	"os"

	nimbuserrors "github.com/nimbus-lang/nimbus/internal/errors"
	"github.com/nimbus-lang/nimbus/internal/lexer"
	"github.com/nimbus-lang/nimbus/internal/parser"
	"github.com/nimbus-lang/nimbus/pkg/nimbus"
	"github.com/spf13/cobra"
)

var (
	evalExpr string
	dumpAST  bool
	maxDepth int
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a nimbus script file or expression",
	Long: `Execute a nimbus program from a file or inline expression.

Examples:
  # Run a script file
  nimbus run script.nim

  # Evaluate an inline expression
  nimbus run -e "print(\"hello\");"

  # Run with a package manifest
  nimbus run --config packages.yaml script.nim`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed program before running it")
	runCmd.Flags().IntVar(&maxDepth, "max-call-levels", 0, "override the call-depth ceiling (0 keeps the engine default)")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(cmd, args)
	if err != nil {
		return err
	}

	if err := reportSyntaxErrors(input, filename); err != nil {
		return err
	}

	opts := []nimbus.Option{nimbus.WithOutput(os.Stdout)}
	if maxDepth > 0 {
		opts = append(opts, nimbus.WithMaxCallLevels(maxDepth))
	}
	engine, err := nimbus.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to build engine: %w", err)
	}

	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		if err := engine.LoadPackageFile(configPath); err != nil {
			return fmt.Errorf("failed to load package manifest: %w", err)
		}
	}

	if dumpAST {
		prog, err := engine.Compile(input)
		if err != nil {
			return fmt.Errorf("parsing %s failed: %w", filename, err)
		}
		fmt.Println(prog)
	}

	result, err := engine.Eval(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return fmt.Errorf("execution failed")
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("=> %s\n", result.String())
	}

	return nil
}

// reportSyntaxErrors re-parses input to surface source-anchored
// diagnostics (file:line:column, the offending line, a caret) on
// stderr before handing the script to the engine, rather than the
// single flattened message nimbus.Engine.Eval returns on parse
// failure.
func reportSyntaxErrors(input, filename string) error {
	p := parser.New(lexer.New(input))
	p.ParseProgram()
	errs := p.Errors()
	if len(errs) == 0 {
		return nil
	}
	compileErrs := make([]*nimbuserrors.CompileError, len(errs))
	for i, e := range errs {
		compileErrs[i] = nimbuserrors.New(e.Pos, e.Message, input, filename)
	}
	fmt.Fprintln(os.Stderr, nimbuserrors.Join(compileErrs))
	return fmt.Errorf("parsing %s failed with %d error(s)", filename, len(errs))
}

func readSource(cmd *cobra.Command, args []string) (input, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		return string(content), filename, nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
