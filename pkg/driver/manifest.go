// Package driver ties the front end together for the command line: it loads
// scripts from disk (including scripts provided by fetched dependencies) and
// reads the slpy.yml project manifest and its slpy.lock companion.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the project manifest file looked up from the script's
// directory upward.
const ManifestName = "slpy.yml"

// Manifest models slpy.yml.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Authors      []string
	Entry        string
	Dependencies map[string]*DependencySpec
}

// DependencySpec pins one dependency. Either Git (with exactly one of Tag,
// Rev, or Branch) or a local Path must be set.
type DependencySpec struct {
	Git    string
	Tag    string
	Rev    string
	Branch string
	Path   string
}

type manifestDisk struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Authors      []string                   `yaml:"authors"`
	Entry        string                     `yaml:"entry"`
	Dependencies map[string]*dependencyDisk `yaml:"dependencies"`
}

type dependencyDisk struct {
	Git    string `yaml:"git"`
	Tag    string `yaml:"tag"`
	Rev    string `yaml:"rev"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

// LoadManifest parses slpy.yml from disk. Unknown keys are rejected so typos
// in the manifest surface immediately.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw manifestDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	m := raw.toManifest()
	m.Path = abs
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// FindManifest walks from dir upward looking for slpy.yml. It returns ""
// (and no error) when no manifest governs the directory.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(abs, ManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// DependencyNames returns the declared dependency names in sorted order.
func (m *Manifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *Manifest) validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: %s missing name", m.Path)
	}
	for name, spec := range m.Dependencies {
		if spec == nil {
			return fmt.Errorf("manifest: dependency %q has no source", name)
		}
		switch {
		case spec.Git != "" && spec.Path != "":
			return fmt.Errorf("manifest: dependency %q sets both git and path", name)
		case spec.Git == "" && spec.Path == "":
			return fmt.Errorf("manifest: dependency %q needs git or path", name)
		}
		if spec.Git != "" {
			pins := 0
			for _, pin := range []string{spec.Tag, spec.Rev, spec.Branch} {
				if pin != "" {
					pins++
				}
			}
			if pins != 1 {
				return fmt.Errorf("manifest: dependency %q must pin exactly one of tag, rev, or branch", name)
			}
		}
	}
	return nil
}

func (d manifestDisk) toManifest() *Manifest {
	m := &Manifest{
		Name:    strings.TrimSpace(d.Name),
		Version: strings.TrimSpace(d.Version),
		Entry:   strings.TrimSpace(d.Entry),
	}
	for _, author := range d.Authors {
		if trimmed := strings.TrimSpace(author); trimmed != "" {
			m.Authors = append(m.Authors, trimmed)
		}
	}
	if len(d.Dependencies) > 0 {
		m.Dependencies = make(map[string]*DependencySpec, len(d.Dependencies))
		for name, dep := range d.Dependencies {
			if dep == nil {
				m.Dependencies[strings.TrimSpace(name)] = nil
				continue
			}
			m.Dependencies[strings.TrimSpace(name)] = &DependencySpec{
				Git:    strings.TrimSpace(dep.Git),
				Tag:    strings.TrimSpace(dep.Tag),
				Rev:    strings.TrimSpace(dep.Rev),
				Branch: strings.TrimSpace(dep.Branch),
				Path:   strings.TrimSpace(dep.Path),
			}
		}
	}
	return m
}
