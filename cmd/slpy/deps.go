package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"slpy/interpreter-go/pkg/driver"
)

func runDeps(args []string) int {
	update := false
	switch {
	case len(args) == 0:
	case len(args) == 1 && args[0] == "install":
	case len(args) == 1 && args[0] == "update":
		update = true
	default:
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(args, " "))
		printUsage()
		return 1
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if manifestPath == "" {
		fmt.Fprintf(os.Stderr, "no %s found from %s upward\n", driver.ManifestName, cwd)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	lockPath := filepath.Join(filepath.Dir(manifestPath), driver.LockfileName)
	lock, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		lock = driver.NewLockfile(manifest.Name)
	}

	cacheDir := driver.CacheDirFor(manifestPath)
	fetcher := &depFetcher{
		cacheDir:    cacheDir,
		manifestDir: filepath.Dir(manifestPath),
	}
	for _, name := range manifest.DependencyNames() {
		spec := manifest.Dependencies[name]
		var locked *driver.LockedPackage
		if !update {
			locked = lock.Find(name)
		}
		source, revision, err := fetcher.fetch(name, spec, locked)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fetch %s: %v\n", name, err)
			return 1
		}
		lock.Upsert(name, source, revision)
		fmt.Fprintf(os.Stdout, "fetched %s (%s)\n", name, revision)
	}

	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

type depFetcher struct {
	cacheDir    string
	manifestDir string
}

// fetch materialises one dependency under <cache>/pkg/<name> and reports the
// source descriptor and resolved revision for the lockfile.
func (f *depFetcher) fetch(name string, spec *driver.DependencySpec, locked *driver.LockedPackage) (string, string, error) {
	targetDir := filepath.Join(f.cacheDir, "pkg", name)
	if spec.Path != "" {
		src := spec.Path
		if !filepath.IsAbs(src) {
			src = filepath.Join(f.manifestDir, src)
		}
		if err := syncDir(src, targetDir); err != nil {
			return "", "", err
		}
		return "path+" + spec.Path, "local", nil
	}

	revision := gitRevision(spec, locked)
	commit, err := gitCheckout(targetDir, spec.Git, revision)
	if err != nil {
		return "", "", err
	}
	return "git+" + spec.Git, commit, nil
}

// gitRevision prefers the locked commit so repeated installs reproduce the
// same tree; tag and branch pins only steer the first fetch (or an update).
func gitRevision(spec *driver.DependencySpec, locked *driver.LockedPackage) plumbing.Revision {
	if locked != nil && locked.Revision != "" && locked.Revision != "local" {
		return plumbing.Revision(locked.Revision)
	}
	switch {
	case spec.Rev != "":
		return plumbing.Revision(spec.Rev)
	case spec.Tag != "":
		return plumbing.Revision("refs/tags/" + spec.Tag)
	default:
		return plumbing.Revision("refs/heads/" + spec.Branch)
	}
}

func gitCheckout(targetDir, url string, revision plumbing.Revision) (string, error) {
	parent := filepath.Dir(targetDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp(parent, "git-fetch-*")
	if err != nil {
		return "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.RemoveAll(targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return hash.String(), nil
}

// syncDir mirrors src into dst, removing files that no longer exist.
func syncDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}

	if dstEntries, err := os.ReadDir(dst); err == nil {
		for _, entry := range dstEntries {
			stale := true
			for _, srcEntry := range entries {
				if srcEntry.Name() == entry.Name() {
					stale = false
					break
				}
			}
			if stale {
				if err := os.RemoveAll(filepath.Join(dst, entry.Name())); err != nil {
					return err
				}
			}
		}
	}

	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := syncDir(srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(srcPath, dstPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
