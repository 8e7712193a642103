package nimbus

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/nimbus-lang/nimbus/internal/interp"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/corepkg"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/fmtpkg"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/jsonpkg"
	"github.com/nimbus-lang/nimbus/internal/interp/packages/yamlpkg"
)

// packageManifest is the shape of a CLI --config file: a list of
// built-in package bundle names to load, newest-last matching
// load_package's "prepend" precedence (spec §3 "Package").
type packageManifest struct {
	Packages []string `yaml:"packages"`
}

// builtinPackages names the bundles LoadPackageFile/the CLI can load by
// name, beyond the `core` bundle New() preloads automatically.
var builtinPackages = map[string]func() *interp.Package{
	"core": corepkg.New,
	"json": jsonpkg.New,
	"yaml": yamlpkg.New,
	"fmt":  fmtpkg.New,
}

// LoadPackageFile reads a YAML manifest of package bundle names and
// loads each in order (spec.md SPEC_FULL §6 ambient addition:
// "convenience that reads a YAML package-manifest... for CLI --config").
func (e *Engine) LoadPackageFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var manifest packageManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("nimbus: invalid package manifest %s: %w", path, err)
	}
	for _, name := range manifest.Packages {
		factory, ok := builtinPackages[name]
		if !ok {
			return fmt.Errorf("nimbus: unknown package %q in %s", name, path)
		}
		e.LoadPackage(factory())
	}
	return nil
}
