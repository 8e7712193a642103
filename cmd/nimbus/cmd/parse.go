package cmd

import (
	"fmt"
	"io"
	"os"

	nimbuserrors "github.com/nimbus-lang/nimbus/internal/errors"
	"github.com/nimbus-lang/nimbus/internal/lexer"
	"github.com/nimbus-lang/nimbus/internal/parser"
	"github.com/spf13/cobra"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a nimbus program and print its AST",
	Long: `Parse nimbus source code and display the Abstract Syntax Tree.

If no file is given, reads from stdin. Use -e to parse a single
expression given on the command line.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse inline code instead of reading from a file")
}

func runParse(_ *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case parseExpr != "":
		input, filename = parseExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading file: %w", err)
		}
		input = string(data)
	default:
		filename = "<stdin>"
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input = string(data)
	}

	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.Errors(); len(errs) > 0 {
		compileErrs := make([]*nimbuserrors.CompileError, len(errs))
		for i, e := range errs {
			compileErrs[i] = nimbuserrors.New(e.Pos, e.Message, input, filename)
		}
		fmt.Fprintln(os.Stderr, nimbuserrors.Join(compileErrs))
		return fmt.Errorf("parsing failed with %d error(s)", len(errs))
	}

	fmt.Println(program.String())
	return nil
}
