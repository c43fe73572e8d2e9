package deb

import (
	"errors"
	"testing"

	"deb2pac/internal/models"
)

func TestParseDependencyField(t *testing.T) {
	groups, err := ParseDependencyField("Depends", "libc6 (>= 2.31), libssl1.1, debconf | debconf-2.0")
	if err != nil {
		t.Fatalf("Failed to parse dependency field: %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}

	// Constraint extraction
	first := groups[0]
	if len(first.Alternatives) != 1 {
		t.Fatalf("Expected 1 alternative, got %d", len(first.Alternatives))
	}
	alt := first.Alternatives[0]
	if alt.Name != "libc6" {
		t.Errorf("Expected name libc6, got %q", alt.Name)
	}
	if alt.Constraint == nil {
		t.Fatal("Expected a version constraint on libc6")
	}
	if alt.Constraint.Op != ">=" || alt.Constraint.Version != "2.31" {
		t.Errorf("Unexpected constraint: %s %s", alt.Constraint.Op, alt.Constraint.Version)
	}

	// Bare name has no constraint
	if groups[1].Alternatives[0].Name != "libssl1.1" {
		t.Errorf("Expected libssl1.1, got %q", groups[1].Alternatives[0].Name)
	}
	if groups[1].Alternatives[0].Constraint != nil {
		t.Error("Expected no constraint on a bare name")
	}

	// Alternatives keep declared order
	third := groups[2]
	if third.Raw != "debconf | debconf-2.0" {
		t.Errorf("Raw group text not preserved: %q", third.Raw)
	}
	if len(third.Alternatives) != 2 {
		t.Fatalf("Expected 2 alternatives, got %d", len(third.Alternatives))
	}
	if third.Alternatives[0].Name != "debconf" || third.Alternatives[1].Name != "debconf-2.0" {
		t.Errorf("Alternatives out of order: %q, %q", third.Alternatives[0].Name, third.Alternatives[1].Name)
	}
}

func TestParseDependencyFieldOperators(t *testing.T) {
	cases := []struct {
		in      string
		op      string
		version string
	}{
		{"pkg (<< 1.0)", "<<", "1.0"},
		{"pkg (<= 1.0)", "<=", "1.0"},
		{"pkg (= 1.0)", "=", "1.0"},
		{"pkg (>= 1.0)", ">=", "1.0"},
		{"pkg (>> 1.0)", ">>", "1.0"},
		// legacy single-character spellings mean inclusive comparison
		{"pkg (< 1.0)", "<=", "1.0"},
		{"pkg (> 1.0)", ">=", "1.0"},
	}

	for _, tc := range cases {
		groups, err := ParseDependencyField("Depends", tc.in)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.in, err)
			continue
		}
		c := groups[0].Alternatives[0].Constraint
		if c == nil {
			t.Errorf("%s: missing constraint", tc.in)
			continue
		}
		if c.Op != tc.op || c.Version != tc.version {
			t.Errorf("%s: got %s %s, want %s %s", tc.in, c.Op, c.Version, tc.op, tc.version)
		}
	}
}

func TestParseDependencyFieldQualifiers(t *testing.T) {
	groups, err := ParseDependencyField("Depends", "gcc:any (>= 4:10.2), foo [amd64 i386], bar <!nocheck>")
	if err != nil {
		t.Fatalf("Failed to parse dependency field: %v", err)
	}

	// Architecture qualifier split off the name, constraint kept
	gcc := groups[0].Alternatives[0]
	if gcc.Name != "gcc" {
		t.Errorf("Expected gcc, got %q", gcc.Name)
	}
	if gcc.ArchQual != "any" {
		t.Errorf("Expected arch qualifier any, got %q", gcc.ArchQual)
	}
	if gcc.Constraint == nil || gcc.Constraint.Version != "4:10.2" {
		t.Errorf("Constraint lost: %+v", gcc.Constraint)
	}

	// Architecture restriction list discarded
	if groups[1].Alternatives[0].Name != "foo" {
		t.Errorf("Expected foo, got %q", groups[1].Alternatives[0].Name)
	}

	// Build profile discarded
	if groups[2].Alternatives[0].Name != "bar" {
		t.Errorf("Expected bar, got %q", groups[2].Alternatives[0].Name)
	}
}

func TestParseDependencyFieldSkipsEmptyElements(t *testing.T) {
	groups, err := ParseDependencyField("Depends", "a, , b")
	if err != nil {
		t.Fatalf("Failed to parse dependency field: %v", err)
	}
	if len(groups) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(groups))
	}
}

func TestParseDependencyFieldMalformed(t *testing.T) {
	cases := []string{
		"pkg (~> 1.0)", // unknown operator
		"pkg (>=)",     // operator without version
		"(>= 1.0)",     // constraint without name
		"pkg (>= 1.0",  // unterminated constraint
		" | ",          // group with no alternatives
	}

	for _, in := range cases {
		_, err := ParseDependencyField("Depends", in)
		if err == nil {
			t.Errorf("%q: expected an error", in)
			continue
		}
		var metaErr *models.MalformedMetadataError
		if !errors.As(err, &metaErr) {
			t.Errorf("%q: expected MalformedMetadataError, got %T", in, err)
		}
	}
}
