package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LockfileName is the pinned-dependency record written next to slpy.yml.
const LockfileName = "slpy.lock"

// Lockfile records the exact revision each dependency resolved to, so a
// later `slpy deps` reproduces the same tree.
type Lockfile struct {
	Path      string
	Project   string
	Generated string
	Packages  []*LockedPackage
}

// LockedPackage captures a single resolved dependency entry.
type LockedPackage struct {
	Name     string
	Source   string
	Revision string
}

type lockfileDisk struct {
	Project   string            `yaml:"project"`
	Generated string            `yaml:"generated"`
	Packages  []lockfilePackage `yaml:"packages"`
}

type lockfilePackage struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Revision string `yaml:"revision"`
}

// NewLockfile seeds an empty lockfile for the named project.
func NewLockfile(project string) *Lockfile {
	return &Lockfile{
		Project:   strings.TrimSpace(project),
		Generated: time.Now().UTC().Format(time.RFC3339),
	}
}

// LoadLockfile parses slpy.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := &Lockfile{
		Path:      abs,
		Project:   strings.TrimSpace(raw.Project),
		Generated: strings.TrimSpace(raw.Generated),
	}
	for _, pkg := range raw.Packages {
		lock.Packages = append(lock.Packages, &LockedPackage{
			Name:     strings.TrimSpace(pkg.Name),
			Source:   strings.TrimSpace(pkg.Source),
			Revision: strings.TrimSpace(pkg.Revision),
		})
	}
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile, refreshing its timestamp.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	lock.Path = abs
	lock.Generated = time.Now().UTC().Format(time.RFC3339)
	lock.normalize()

	disk := lockfileDisk{
		Project:   lock.Project,
		Generated: lock.Generated,
	}
	for _, pkg := range lock.Packages {
		disk.Packages = append(disk.Packages, lockfilePackage{
			Name:     pkg.Name,
			Source:   pkg.Source,
			Revision: pkg.Revision,
		})
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(disk); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Upsert records (or replaces) the resolved revision for a dependency.
func (l *Lockfile) Upsert(name, source, revision string) {
	name = strings.TrimSpace(name)
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			pkg.Source = strings.TrimSpace(source)
			pkg.Revision = strings.TrimSpace(revision)
			return
		}
	}
	l.Packages = append(l.Packages, &LockedPackage{
		Name:     name,
		Source:   strings.TrimSpace(source),
		Revision: strings.TrimSpace(revision),
	})
}

// Find returns the locked entry for a dependency, or nil.
func (l *Lockfile) Find(name string) *LockedPackage {
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg
		}
	}
	return nil
}

func (l *Lockfile) normalize() {
	sort.SliceStable(l.Packages, func(i, j int) bool {
		return l.Packages[i].Name < l.Packages[j].Name
	})
}
