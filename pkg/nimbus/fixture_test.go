package nimbus_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/nimbus-lang/nimbus/internal/interp/packages/fmtpkg"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/jsonpkg"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/yamlpkg"
	"github.com/nimbus-lang/nimbus/pkg/nimbus"
)

// TestScriptFixtures runs a table of representative scripts end to end
// through the public Engine and snapshots their trailing value/output,
// grounded on the teacher's fixture-driven snapshot testing convention.
func TestScriptFixtures(t *testing.T) {
	categories := []struct {
		name       string
		src        string
		loadJSON   bool
		loadYAML   bool
		loadFmt    bool
		wantErr    bool
		withOutput bool
	}{
		{
			name: "Arithmetic",
			src:  `let a = 3; let b = 4; a * a + b * b`,
		},
		{
			name: "ArraysAndMaps",
			src: `
				let scores = [10, 20, 30];
				let totals = #{sum: 0};
				for s in scores { totals.sum = (totals.sum + s); }
				totals.sum
			`,
		},
		{
			name: "StringManipulation",
			src: `
				let greeting = "hello";
				let name = "nimbus";
				greeting + ", " + name + "!"
			`,
		},
		{
			name: "RecursiveFibonacci",
			src: `
				fn fib(n) {
					if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
				}
				fib(12)
			`,
		},
		{
			name: "ControlFlowLoopBreak",
			src: `
				let i = 0;
				let acc = 0;
				loop {
					i = i + 1;
					if i > 10 { break; }
					if i % 2 == 0 { continue; }
					acc = acc + i;
				}
				acc
			`,
		},
		{
			name: "JSONRoundTrip",
			src: `
				let doc = parse_json("{\"name\":\"nimbus\",\"stars\":[1,2,3]}");
				to_json(doc)
			`,
			loadJSON: true,
		},
		{
			name: "YAMLRoundTrip",
			src: `
				let doc = parse_yaml("name: nimbus\nstars:\n  - 1\n  - 2\n");
				doc.name
			`,
			loadYAML: true,
		},
		{
			name: "HumanizeBytes",
			src:  `humanize_bytes(2097152)`,
			loadFmt: true,
		},
		{
			name:       "PrintSink",
			src:        `print("running " + "nimbus"); 1 + 1`,
			withOutput: true,
		},
		{
			name:    "VariableNotFound",
			src:     `undeclared_name + 1`,
			wantErr: true,
		},
		{
			name:    "ArrayOutOfBounds",
			src:     `let a = [1, 2, 3]; a[10]`,
			wantErr: true,
		},
	}

	for _, tt := range categories {
		t.Run(tt.name, func(t *testing.T) {
			var opts []nimbus.Option
			var buf bytes.Buffer
			if tt.withOutput {
				opts = append(opts, nimbus.WithOutput(&buf))
			}
			engine, err := nimbus.New(opts...)
			if err != nil {
				t.Fatalf("nimbus.New: %v", err)
			}
			if tt.loadJSON {
				engine.LoadPackage(jsonpkg.New())
			}
			if tt.loadYAML {
				engine.LoadPackage(yamlpkg.New())
			}
			if tt.loadFmt {
				engine.LoadPackage(fmtpkg.New())
			}

			result, err := engine.Eval(tt.src)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error, got result %v", result)
				}
				snaps.MatchSnapshot(t, fmt.Sprintf("%s_error", tt.name), err.Error())
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_result", tt.name), result.String())
			if tt.withOutput {
				snaps.MatchSnapshot(t, fmt.Sprintf("%s_stdout", tt.name), buf.String())
			}
		})
	}
}

// TestCompiledProgramStringFixture snapshots the optimized AST's
// rendering for a script exercising constant folding, dead-code
// elimination, and literal index picking together.
func TestCompiledProgramStringFixture(t *testing.T) {
	engine, err := nimbus.New(nimbus.WithOptimizationLevel(nimbus.OptFull))
	if err != nil {
		t.Fatalf("nimbus.New: %v", err)
	}
	program, err := engine.Compile(`
		let unused = 1 + 2;
		if true {
			let a = [10, 20, 30];
			a[1]
		} else {
			99
		}
	`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	snaps.MatchSnapshot(t, "OptimizedProgram", program.String())
}
