package pacman

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPackageMembers(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "deb2pac-builder-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	for _, name := range []string{".PKGINFO", ".INSTALL", ".MTREE"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	for _, dir := range []string{"usr", "etc"} {
		if err := os.MkdirAll(filepath.Join(tmpDir, dir), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	// Metadata files come first, in fixed order, then the payload
	members, err := packageMembers(tmpDir, true)
	if err != nil {
		t.Fatalf("packageMembers failed: %v", err)
	}
	want := []string{".PKGINFO", ".INSTALL", ".MTREE", "etc", "usr"}
	if len(members) != len(want) {
		t.Fatalf("Expected %v, got %v", want, members)
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("Expected %q at %d, got %q", want[i], i, members[i])
		}
	}

	// The manifest pass must not list the file it is about to write
	members, err = packageMembers(tmpDir, false)
	if err != nil {
		t.Fatalf("packageMembers failed: %v", err)
	}
	for _, m := range members {
		if m == ".MTREE" {
			t.Error(".MTREE listed in its own input set")
		}
	}
}

func TestPackageMembersWithoutInstall(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "deb2pac-builder-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.WriteFile(filepath.Join(tmpDir, ".PKGINFO"), []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write .PKGINFO: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "usr"), 0o755); err != nil {
		t.Fatalf("Failed to create usr: %v", err)
	}

	members, err := packageMembers(tmpDir, false)
	if err != nil {
		t.Fatalf("packageMembers failed: %v", err)
	}
	want := []string{".PKGINFO", "usr"}
	if len(members) != len(want) || members[0] != want[0] || members[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, members)
	}
}

func TestStderrTail(t *testing.T) {
	if got := stderrTail("  boom  \n"); got != "boom" {
		t.Errorf("Expected trimmed output, got %q", got)
	}

	long := strings.Repeat("x", 500) + "END"
	got := stderrTail(long)
	if len(got) != 400 {
		t.Errorf("Expected 400 characters, got %d", len(got))
	}
	if !strings.HasSuffix(got, "END") {
		t.Error("Tail should keep the end of the output")
	}
}
