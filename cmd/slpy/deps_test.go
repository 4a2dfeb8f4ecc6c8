package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"

	"slpy/interpreter-go/pkg/driver"
)

func TestGitRevisionSelection(t *testing.T) {
	tag := &driver.DependencySpec{Git: "https://example.com/x.git", Tag: "v1.0"}
	if got := gitRevision(tag, nil); got != plumbing.Revision("refs/tags/v1.0") {
		t.Fatalf("tag pin resolved to %q", got)
	}
	branch := &driver.DependencySpec{Git: "https://example.com/x.git", Branch: "main"}
	if got := gitRevision(branch, nil); got != plumbing.Revision("refs/heads/main") {
		t.Fatalf("branch pin resolved to %q", got)
	}
	rev := &driver.DependencySpec{Git: "https://example.com/x.git", Rev: "abc123"}
	if got := gitRevision(rev, nil); got != plumbing.Revision("abc123") {
		t.Fatalf("rev pin resolved to %q", got)
	}

	locked := &driver.LockedPackage{Name: "x", Revision: "def456"}
	if got := gitRevision(tag, locked); got != plumbing.Revision("def456") {
		t.Fatalf("lockfile should win over the tag pin, got %q", got)
	}
}

func TestPathDependencyFetch(t *testing.T) {
	project := t.TempDir()
	depSrc := filepath.Join(project, "vendor", "tools")
	if err := os.MkdirAll(filepath.Join(depSrc, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(depSrc, "fizz.slpy"), []byte("print(1)\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(depSrc, "sub", "buzz.slpy"), []byte("print(2)\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	f := &depFetcher{
		cacheDir:    filepath.Join(project, driver.CacheDirName),
		manifestDir: project,
	}
	source, revision, err := f.fetch("tools", &driver.DependencySpec{Path: "vendor/tools"}, nil)
	if err != nil {
		t.Fatalf("fetch returned error: %v", err)
	}
	if source != "path+vendor/tools" || revision != "local" {
		t.Fatalf("unexpected descriptor: %q %q", source, revision)
	}

	fetched := filepath.Join(project, driver.CacheDirName, "pkg", "tools", "sub", "buzz.slpy")
	if _, err := os.Stat(fetched); err != nil {
		t.Fatalf("fetched tree missing %s: %v", fetched, err)
	}

	// A stale file in the cache disappears on the next fetch.
	stale := filepath.Join(project, driver.CacheDirName, "pkg", "tools", "old.slpy")
	if err := os.WriteFile(stale, []byte("print(0)\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := f.fetch("tools", &driver.DependencySpec{Path: "vendor/tools"}, nil); err != nil {
		t.Fatalf("refetch returned error: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("stale file survived the sync: %v", err)
	}
}
