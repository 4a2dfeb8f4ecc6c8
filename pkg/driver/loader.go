package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"slpy/interpreter-go/pkg/ast"
	"slpy/interpreter-go/pkg/parser"
	"slpy/interpreter-go/pkg/typechecker"
)

// DepPrefix marks a script argument that resolves inside the dependency
// cache instead of the filesystem: `dep:tools/fizz.slpy` runs fizz.slpy from
// the fetched `tools` dependency.
const DepPrefix = "dep:"

// CacheDirName is the per-project dependency cache, a sibling of slpy.yml.
const CacheDirName = ".slpy"

// Loader resolves script arguments to files and parses them.
type Loader struct {
	cacheDir string
}

// NewLoader constructs a loader. cacheDir may be empty when the project has
// no manifest; dep: arguments then fail with a clear error.
func NewLoader(cacheDir string) *Loader {
	return &Loader{cacheDir: cacheDir}
}

// Load reads, parses, and checks a script.
func (l *Loader) Load(arg string) (*ast.Program, error) {
	program, err := l.LoadUnchecked(arg)
	if err != nil {
		return nil, err
	}
	if err := typechecker.Check(program); err != nil {
		return nil, err
	}
	return program, nil
}

// LoadUnchecked reads and parses a script without running the checker. The
// fmt and ast commands use it so malformed-but-parsable programs still
// render.
func (l *Loader) LoadUnchecked(arg string) (*ast.Program, error) {
	path, err := l.Resolve(arg)
	if err != nil {
		return nil, err
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return parser.Parse(string(source), path)
}

// Resolve maps a script argument to an absolute file path, expanding the
// dep: prefix against the dependency cache.
func (l *Loader) Resolve(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("loader: empty script path")
	}
	if rest, ok := strings.CutPrefix(arg, DepPrefix); ok {
		if l.cacheDir == "" {
			return "", fmt.Errorf("loader: %q needs a project manifest (%s) to locate dependencies", arg, ManifestName)
		}
		name, sub, found := strings.Cut(rest, "/")
		if !found || name == "" || sub == "" {
			return "", fmt.Errorf("loader: malformed dependency path %q, want dep:<name>/<file>", arg)
		}
		path := filepath.Join(l.cacheDir, "pkg", name, filepath.FromSlash(sub))
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("loader: dependency script %s not fetched (run `slpy deps`): %w", arg, err)
		}
		return path, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("loader: resolve %s: %w", arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("loader: %s is a directory", abs)
	}
	return abs, nil
}

// CacheDirFor returns the dependency cache directory for a manifest path.
func CacheDirFor(manifestPath string) string {
	if manifestPath == "" {
		return ""
	}
	return filepath.Join(filepath.Dir(manifestPath), CacheDirName)
}
