package rpm

import (
	"testing"
)

func TestRpmOperator(t *testing.T) {
	cases := []struct {
		flags int64
		want  string
	}{
		{0x02, "<<"},
		{0x04, ">>"},
		{0x08, "="},
		{0x02 | 0x08, "<="},
		{0x04 | 0x08, ">="},
		{0, ""},
		// interpreter and pre/post flags without comparison bits
		{0x100, ""},
		{0x200 | 0x08, "="},
	}
	for _, c := range cases {
		if got := rpmOperator(c.flags); got != c.want {
			t.Errorf("rpmOperator(%#x) = %q, want %q", c.flags, got, c.want)
		}
	}
}

func TestSingletonGroup(t *testing.T) {
	g := singletonGroup("openssl")
	if g.Raw != "openssl" {
		t.Errorf("Expected raw text openssl, got %q", g.Raw)
	}
	if len(g.Alternatives) != 1 {
		t.Fatalf("Expected one alternative, got %d", len(g.Alternatives))
	}
	if g.Alternatives[0].Name != "openssl" {
		t.Errorf("Unexpected alternative name %q", g.Alternatives[0].Name)
	}
	if g.Alternatives[0].Constraint != nil {
		t.Error("Singleton groups carry no constraint")
	}
}
