package layout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"deb2pac/internal/models"
)

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/bin/ls":                     "/usr/bin/ls",
		"/sbin/init":                  "/usr/bin/init",
		"/lib/libc.so.6":              "/usr/lib/libc.so.6",
		"/lib64/ld-linux-x86-64.so.2": "/usr/lib/ld-linux-x86-64.so.2",
		"/usr/lib64/libfoo.so":        "/usr/lib/libfoo.so",
		"/bin":                        "/usr/bin",
		"/usr/bin/ls":                 "/usr/bin/ls",
		"/etc/passwd":                 "/etc/passwd",
		"/opt/app/bin/tool":           "/opt/app/bin/tool",
		// a prefix match needs the separator, not just the characters
		"/libexec/foo": "/libexec/foo",
	}

	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}

	// Normalizing twice changes nothing
	for in := range cases {
		once := NormalizePath(in)
		if NormalizePath(once) != once {
			t.Errorf("NormalizePath not idempotent for %q", in)
		}
	}
}

func TestNormalizeEntrySymlink(t *testing.T) {
	// Absolute link targets are rewritten along with the path
	e := models.FileEntry{Path: "/bin/sh", Type: models.EntrySymlink, LinkTarget: "/bin/dash"}
	n := NormalizeEntry(e)
	if n.Path != "/usr/bin/sh" {
		t.Errorf("Expected /usr/bin/sh, got %q", n.Path)
	}
	if n.LinkTarget != "/usr/bin/dash" {
		t.Errorf("Expected /usr/bin/dash, got %q", n.LinkTarget)
	}

	// Relative targets stay untouched
	e = models.FileEntry{Path: "/bin/sh", Type: models.EntrySymlink, LinkTarget: "dash"}
	if n := NormalizeEntry(e); n.LinkTarget != "dash" {
		t.Errorf("Relative target rewritten to %q", n.LinkTarget)
	}
}

func TestNormalizeCollision(t *testing.T) {
	entries := []models.FileEntry{
		{Path: "/sbin/init", Type: models.EntryFile},
		{Path: "/usr/bin/init", Type: models.EntryFile},
	}

	_, err := Normalize(entries)
	if err == nil {
		t.Fatal("Expected a collision error")
	}
	var collision *models.PathCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("Expected PathCollisionError, got %T", err)
	}
	if collision.Target != "/usr/bin/init" {
		t.Errorf("Expected target /usr/bin/init, got %q", collision.Target)
	}

	// Both original source paths are named for the user
	if collision.First != "/sbin/init" || collision.Second != "/usr/bin/init" {
		t.Errorf("Expected both sources named, got %q and %q", collision.First, collision.Second)
	}
}

func TestNormalizeMergesDirectories(t *testing.T) {
	entries := []models.FileEntry{
		{Path: "/bin", Type: models.EntryDir},
		{Path: "/usr/bin", Type: models.EntryDir},
		{Path: "/bin/ls", Type: models.EntryFile},
	}

	out, err := Normalize(entries)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	dirs := 0
	for _, e := range out {
		if e.Type == models.EntryDir && e.Path == "/usr/bin" {
			dirs++
		}
	}
	if dirs != 1 {
		t.Errorf("Expected one /usr/bin directory record, got %d", dirs)
	}
	if len(out) != 2 {
		t.Errorf("Expected 2 entries after deduplication, got %d", len(out))
	}
}

func TestNormalizeDropsRedundantSymlinks(t *testing.T) {
	entries := []models.FileEntry{
		// usr-merge artifacts: after the move these would point at themselves
		{Path: "/bin", Type: models.EntrySymlink, LinkTarget: "usr/bin"},
		{Path: "/lib64", Type: models.EntrySymlink, LinkTarget: "/usr/lib"},
		{Path: "/usr/bin", Type: models.EntryDir},
		{Path: "/usr/lib", Type: models.EntryDir},
	}

	out, err := Normalize(entries)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for _, e := range out {
		if e.Type == models.EntrySymlink {
			t.Errorf("Redundant symlink survived: %s -> %s", e.Path, e.LinkTarget)
		}
	}
	if len(out) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(out))
	}
}

func TestApply(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "deb2pac-layout-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	write := func(rel, content string) {
		p := filepath.Join(tmpDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("Failed to create %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(content), 0o755); err != nil {
			t.Fatalf("Failed to write %s: %v", p, err)
		}
	}

	write("bin/ls", "ls")
	write("usr/bin/cat", "cat")
	write("lib/udev/rules.d/60-test.rules", "rules")
	write("usr/lib/udev/hwdb.d/20-test.hwdb", "hwdb")
	if err := os.Symlink("usr/lib", filepath.Join(tmpDir, "lib64")); err != nil {
		t.Fatalf("Failed to create lib64 symlink: %v", err)
	}

	entries := []models.FileEntry{
		{Path: "/bin", Type: models.EntryDir},
		{Path: "/bin/ls", Type: models.EntryFile},
		{Path: "/usr/bin", Type: models.EntryDir},
		{Path: "/usr/bin/cat", Type: models.EntryFile},
		{Path: "/lib/udev/rules.d/60-test.rules", Type: models.EntryFile},
		{Path: "/usr/lib/udev/hwdb.d/20-test.hwdb", Type: models.EntryFile},
		{Path: "/lib64", Type: models.EntrySymlink, LinkTarget: "usr/lib"},
		{Path: "/usr/lib", Type: models.EntryDir},
	}

	normalized, err := Apply(tmpDir, entries)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// Files moved into the merged tree, existing files untouched
	for _, rel := range []string{
		"usr/bin/ls",
		"usr/bin/cat",
		"usr/lib/udev/rules.d/60-test.rules",
		"usr/lib/udev/hwdb.d/20-test.hwdb",
	} {
		if _, err := os.Stat(filepath.Join(tmpDir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("Expected %s after merge: %v", rel, err)
		}
	}

	// Legacy locations are gone
	for _, rel := range []string{"bin", "lib", "lib64"} {
		if _, err := os.Lstat(filepath.Join(tmpDir, rel)); !os.IsNotExist(err) {
			t.Errorf("Legacy %s still present", rel)
		}
	}

	// Entry records match the restructured tree
	for _, e := range normalized {
		if strings.HasPrefix(e.Path, "/bin") || strings.HasPrefix(e.Path, "/lib") {
			t.Errorf("Entry not normalized: %s", e.Path)
		}
	}
}
