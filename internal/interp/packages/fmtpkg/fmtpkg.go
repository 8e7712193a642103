// Package fmtpkg wires dustin/go-humanize into a loadable Package
// bundle: `humanize_bytes` and `humanize_time`.
package fmtpkg

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/lexer"
)

// New returns the fmt package bundle.
func New() *interp.Package {
	pkg := interp.NewPackage("fmt")

	pkg.Natives.Register("humanize_bytes", []interp.TypeID{interp.TypeInt}, func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		n, _ := interp.AsInt(args[0])
		return interp.Str(humanize.Bytes(uint64(n))), nil
	})

	pkg.Natives.Register("humanize_time", []interp.TypeID{interp.TypeInt}, func(args []interp.Value, _ lexer.Position) (interp.Value, error) {
		secs, _ := interp.AsInt(args[0])
		then := time.Now().Add(-time.Duration(secs) * time.Second)
		return interp.Str(humanize.Time(then)), nil
	})

	return pkg
}
