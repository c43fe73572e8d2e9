package resolve

import (
	"regexp"

	"deb2pac/internal/models"
)

// Table holds the name mappings Resolve consults: built-in entries,
// virtual package providers and user overrides. A Table is immutable
// after construction and safe for concurrent use.
type Table struct {
	builtin  map[string]*entry
	user     map[string]*entry
	virtual  map[string][]string
	stripped map[string][]*entry // built-in entries indexed by stripped name
}

type entry struct {
	name    string
	targets []string
	version string
}

// One trailing version run with an optional separator: "libssl1.1",
// "libx11-6", "libglib2.0-0". Stripping is single-pass so index keys
// and query keys stay consistent.
var versionSuffix = regexp.MustCompile(`^(.+?)[-.]?[0-9][0-9.]*$`)

// StripVersionSuffix removes one trailing version run from a package
// name ("libssl1.1" becomes "libssl"). Names without one come back
// unchanged.
func StripVersionSuffix(name string) string {
	if m := versionSuffix.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}

// NewTable builds a Table from the built-in data plus the given user
// overrides. A nil or empty override value means "drop this
// dependency"; overrides shadow built-in entries of the same name.
func NewTable(user map[string][]string) *Table {
	t := &Table{
		builtin:  make(map[string]*entry),
		user:     make(map[string]*entry),
		virtual:  make(map[string][]string, len(builtinVirtual)),
		stripped: make(map[string][]*entry),
	}

	for _, m := range builtinMappings {
		e := &entry{name: m.name, targets: m.targets, version: m.version}
		t.builtin[m.name] = e
		key := StripVersionSuffix(m.name)
		t.stripped[key] = append(t.stripped[key], e)
	}
	for name, providers := range builtinVirtual {
		t.virtual[name] = providers
	}
	for name, targets := range user {
		t.user[name] = &entry{name: name, targets: targets}
	}
	return t
}

// exact returns the exact-match targets for name, user overrides first.
func (t *Table) exact(name string) ([]string, models.Provenance, bool) {
	if e, ok := t.user[name]; ok {
		return e.targets, models.ProvenanceUser, true
	}
	if e, ok := t.builtin[name]; ok {
		return e.targets, models.ProvenanceBuiltin, true
	}
	return nil, models.ProvenanceNone, false
}
