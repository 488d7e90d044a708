package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureAtCreatesLayout(t *testing.T) {
	base := filepath.Join(t.TempDir(), BaseDirName)
	root, err := EnsureAt(base)
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	for _, p := range []string{
		filepath.Join(root, "configs"),
		TrackCacheDir(root),
		filepath.Join(root, "projects"),
	} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected directory %s: %v", p, err)
		}
	}
}

func TestCreateProject(t *testing.T) {
	base := filepath.Join(t.TempDir(), BaseDirName)
	root, err := EnsureAt(base)
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}

	project, err := CreateProject(root, "My Book", "my-book.epub", []byte("fake-epub-data"))
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	for _, p := range []string{project.Root, project.SourcePath} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected path to exist %s: %v", p, err)
		}
	}
	if filepath.Dir(project.DBPath) != project.Root {
		t.Fatalf("db path should live in project root, got %s", project.DBPath)
	}
}

func TestBookIDStableAcrossCaseAndSpacing(t *testing.T) {
	a := BookID("The Night Circus")
	b := BookID("  the night circus ")
	if a != b {
		t.Fatalf("book id should ignore case and surrounding space: %s vs %s", a, b)
	}
	if len(a) != 12 {
		t.Fatalf("book id length = %d, want 12", len(a))
	}
	if a == BookID("Another Title") {
		t.Fatalf("distinct titles should not collide")
	}
}
