package layout

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"deb2pac/internal/models"
)

// rule rewrites one directory prefix to another.
type rule struct {
	from string
	to   string
}

// Rewrite rules in match order, longest prefixes first. The first
// matching rule wins; unmatched paths stay where they are.
var rules = []rule{
	{"/usr/lib64", "/usr/lib"},
	{"/lib64", "/usr/lib"},
	{"/bin", "/usr/bin"},
	{"/sbin", "/usr/bin"},
	{"/lib", "/usr/lib"},
}

// Legacy directories whose contents Apply folds into their targets, in
// the same order as the rules.
var legacyDirs = []rule{
	{"usr/lib64", "usr/lib"},
	{"lib64", "usr/lib"},
	{"bin", "usr/bin"},
	{"sbin", "usr/bin"},
	{"lib", "usr/lib"},
}

// NormalizePath maps an absolute source path to its target location.
// Rule targets are never rule sources, so the mapping is idempotent.
func NormalizePath(p string) string {
	for _, r := range rules {
		if p == r.from {
			return r.to
		}
		if strings.HasPrefix(p, r.from+"/") {
			return r.to + strings.TrimPrefix(p, r.from)
		}
	}
	return p
}

// NormalizeEntry applies the path rules to an entry and to an absolute
// link target. Relative link targets are left alone: they stay correct
// when source and target directory move together.
func NormalizeEntry(e models.FileEntry) models.FileEntry {
	e.Path = NormalizePath(e.Path)
	if e.LinkTarget != "" && strings.HasPrefix(e.LinkTarget, "/") {
		e.LinkTarget = NormalizePath(e.LinkTarget)
	}
	return e
}

// Normalize rewrites every entry and checks the result set: two
// distinct non-directory source paths may not land on the same target
// path. Directories merge silently and duplicate directory records
// collapse to one. Input order is preserved.
//
// A symlink that resolves to its own normalized location (the usr-merge
// artifacts /bin -> usr/bin and friends) is dropped from the set.
func Normalize(entries []models.FileEntry) ([]models.FileEntry, error) {
	out := make([]models.FileEntry, 0, len(entries))
	firstSource := make(map[string]string)
	dirSeen := make(map[string]bool)

	for _, e := range entries {
		n := NormalizeEntry(e)

		if n.Type == models.EntrySymlink && isRedundantLink(e, n) {
			continue
		}

		if n.Type == models.EntryDir {
			if dirSeen[n.Path] {
				continue
			}
			dirSeen[n.Path] = true
		} else {
			if first, ok := firstSource[n.Path]; ok && first != e.Path {
				return nil, &models.PathCollisionError{Target: n.Path, First: first, Second: e.Path}
			}
			firstSource[n.Path] = e.Path
		}

		out = append(out, n)
	}
	return out, nil
}

// isRedundantLink reports whether the original symlink pointed at the
// very place normalization moves it to.
func isRedundantLink(orig, normalized models.FileEntry) bool {
	target := orig.LinkTarget
	if target == "" {
		return false
	}
	if !strings.HasPrefix(target, "/") {
		target = path.Join(path.Dir(orig.Path), target)
	}
	return NormalizePath(path.Clean(target)) == normalized.Path
}

// Apply normalizes entries and restructures the extracted tree under
// dataDir to match: legacy directory contents move into their targets
// and the emptied directories disappear. The normalized entries come
// back in input order.
func Apply(dataDir string, entries []models.FileEntry) ([]models.FileEntry, error) {
	normalized, err := Normalize(entries)
	if err != nil {
		return nil, err
	}

	for _, d := range legacyDirs {
		src := filepath.Join(dataDir, filepath.FromSlash(d.from))
		info, err := os.Lstat(src)
		if err != nil {
			continue
		}
		// usr-merge style symlinks are redundant once the trees merge
		if info.Mode()&os.ModeSymlink != 0 {
			if err := os.Remove(src); err != nil {
				return nil, err
			}
			continue
		}
		if err := mergeDir(src, filepath.Join(dataDir, filepath.FromSlash(d.to))); err != nil {
			return nil, err
		}
	}
	return normalized, nil
}

// mergeDir moves the contents of src into dst, recursing into
// directories that exist on both sides, then removes src.
func mergeDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	items, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, item := range items {
		s := filepath.Join(src, item.Name())
		d := filepath.Join(dst, item.Name())
		if item.IsDir() {
			if _, err := os.Lstat(d); err == nil {
				if err := mergeDir(s, d); err != nil {
					return err
				}
				continue
			}
		}
		if err := os.Rename(s, d); err != nil {
			return err
		}
	}
	return os.Remove(src)
}
