package provision

import (
	"os"
	"testing"
)

func TestResolveReturnsExistingLocalDirUnchanged(t *testing.T) {
	dir := t.TempDir()
	got, err := Resolve(t.TempDir(), dir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %q unchanged, got %q", dir, got)
	}
}

func TestIsLocalDirRejectsFiles(t *testing.T) {
	dir := t.TempDir()
	file := dir + "/level.dat"
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if isLocalDir(file) {
		t.Fatal("expected a plain file to not count as a local dir")
	}
}
