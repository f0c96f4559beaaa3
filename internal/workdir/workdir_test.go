package workdir

import (
	"os"
	"path/filepath"
	"testing"
)

// assertSamePath compares two paths after resolving symlinks (macOS /tmp → /private/tmp).
func assertSamePath(t *testing.T, want, got string) {
	t.Helper()
	wantResolved, err := filepath.EvalSymlinks(want)
	if err != nil {
		wantResolved = filepath.Clean(want)
	}
	gotResolved, err := filepath.EvalSymlinks(got)
	if err != nil {
		gotResolved = filepath.Clean(got)
	}
	if wantResolved != gotResolved {
		t.Fatalf("expected %q, got %q", wantResolved, gotResolved)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
}

func TestResolveBaseDir_FindsDataDirFromSubdir(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, dataDir))
	subdir := filepath.Join(root, "nested", "dir")
	mkdir(t, subdir)

	assertSamePath(t, root, ResolveBaseDir(subdir))
}

func TestResolveBaseDir_FollowsRootFile(t *testing.T) {
	project := t.TempDir()
	shared := filepath.Join(t.TempDir(), "shared-root")
	mkdir(t, shared)

	if err := os.WriteFile(filepath.Join(project, rootFile), []byte(shared+"\n"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}
	subdir := filepath.Join(project, "nested")
	mkdir(t, subdir)

	assertSamePath(t, shared, ResolveBaseDir(subdir))
}

func TestResolveBaseDir_RelativeRootFile(t *testing.T) {
	project := t.TempDir()
	mkdir(t, filepath.Join(project, "shared"))
	if err := os.WriteFile(filepath.Join(project, rootFile), []byte("shared"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	assertSamePath(t, filepath.Join(project, "shared"), ResolveBaseDir(project))
}

func TestResolveBaseDir_EmptyRootFileIgnored(t *testing.T) {
	project := t.TempDir()
	mkdir(t, filepath.Join(project, dataDir))
	if err := os.WriteFile(filepath.Join(project, rootFile), []byte("  \n"), 0644); err != nil {
		t.Fatalf("write %s: %v", rootFile, err)
	}

	assertSamePath(t, project, ResolveBaseDir(project))
}

func TestResolveBaseDir_NoMarkersUnchanged(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plain")
	mkdir(t, dir)

	if got := ResolveBaseDir(dir); got != dir {
		t.Fatalf("expected %q unchanged, got %q", dir, got)
	}
}
