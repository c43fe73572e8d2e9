package deb

import (
	"errors"
	"strings"
	"testing"

	"deb2pac/internal/models"
)

const sampleControl = `Package: hello
Version: 2.10-3
Architecture: amd64
Maintainer: Example Maintainer <maint@example.org>
Installed-Size: 280
Depends: libc6 (>= 2.14)
Recommends: curl | wget
Section: devel
Priority: optional
Multi-Arch: foreign
Homepage: https://www.gnu.org/software/hello/
Description: example package based on GNU hello
 The GNU hello program produces a familiar, friendly greeting. It
 allows non-programmers to use a classic computer science tool which
 would otherwise be unavailable to them.
`

func TestParseControl(t *testing.T) {
	meta, err := ParseControl([]byte(sampleControl))
	if err != nil {
		t.Fatalf("Failed to parse control: %v", err)
	}

	if meta.Name != "hello" {
		t.Errorf("Expected name hello, got %q", meta.Name)
	}
	if meta.Version != "2.10-3" {
		t.Errorf("Expected version 2.10-3, got %q", meta.Version)
	}
	if meta.Architecture != "amd64" {
		t.Errorf("Expected architecture amd64, got %q", meta.Architecture)
	}
	if meta.Maintainer != "Example Maintainer <maint@example.org>" {
		t.Errorf("Unexpected maintainer: %q", meta.Maintainer)
	}
	if meta.InstalledSize != 280 {
		t.Errorf("Expected installed size 280, got %d", meta.InstalledSize)
	}
	if meta.Section != "devel" {
		t.Errorf("Expected section devel, got %q", meta.Section)
	}
	if meta.Homepage != "https://www.gnu.org/software/hello/" {
		t.Errorf("Unexpected homepage: %q", meta.Homepage)
	}

	// Description splits into synopsis and continuation lines
	if meta.Description != "example package based on GNU hello" {
		t.Errorf("Unexpected description: %q", meta.Description)
	}
	if !strings.Contains(meta.LongDescription, "friendly greeting") {
		t.Errorf("Long description lost: %q", meta.LongDescription)
	}

	// Dependency fields are parsed
	if len(meta.Depends) != 1 {
		t.Fatalf("Expected 1 depends group, got %d", len(meta.Depends))
	}
	if meta.Depends[0].Alternatives[0].Name != "libc6" {
		t.Errorf("Unexpected dependency: %q", meta.Depends[0].Alternatives[0].Name)
	}
	if len(meta.Recommends) != 1 || len(meta.Recommends[0].Alternatives) != 2 {
		t.Errorf("Recommends alternatives not parsed: %+v", meta.Recommends)
	}

	// Unmapped fields are kept verbatim
	if meta.Fields["Multi-Arch"] != "foreign" {
		t.Errorf("Extra field not preserved: %q", meta.Fields["Multi-Arch"])
	}
}

func TestParseControlMissingPackage(t *testing.T) {
	_, err := ParseControl([]byte("Version: 1.0\nArchitecture: amd64\n"))
	if err == nil {
		t.Fatal("Expected an error for missing Package field")
	}
	var metaErr *models.MalformedMetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("Expected MalformedMetadataError, got %T", err)
	}
	if metaErr.Field != "Package" {
		t.Errorf("Expected field Package, got %q", metaErr.Field)
	}
}

func TestParseControlMissingVersion(t *testing.T) {
	_, err := ParseControl([]byte("Package: hello\nArchitecture: amd64\n"))
	if err == nil {
		t.Fatal("Expected an error for missing Version field")
	}
	var metaErr *models.MalformedMetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("Expected MalformedMetadataError, got %T", err)
	}
	if metaErr.Field != "Version" {
		t.Errorf("Expected field Version, got %q", metaErr.Field)
	}
}

func TestParseControlInvalidVersion(t *testing.T) {
	_, err := ParseControl([]byte("Package: hello\nVersion: not a version\n"))
	if err == nil {
		t.Fatal("Expected an error for an unparseable version")
	}
	var metaErr *models.MalformedMetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("Expected MalformedMetadataError, got %T", err)
	}
	if metaErr.Field != "Version" {
		t.Errorf("Expected field Version, got %q", metaErr.Field)
	}
}

func TestParseControlInstalledSizeGarbage(t *testing.T) {
	meta, err := ParseControl([]byte("Package: hello\nVersion: 1.0\nInstalled-Size: lots\n"))
	if err != nil {
		t.Fatalf("Garbage Installed-Size should not fail the package: %v", err)
	}
	if meta.InstalledSize != 0 {
		t.Errorf("Expected installed size 0, got %d", meta.InstalledSize)
	}
}
