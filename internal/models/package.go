package models

// PackageMetadata holds a source package's control data in a
// distribution-neutral form. Field values keep whatever the source
// declared; translation to the target's conventions happens later in
// the pipeline.
type PackageMetadata struct {
	Name            string
	Version         string // raw [epoch:]upstream[-revision] string
	Architecture    string
	Maintainer      string
	InstalledSize   int64 // KiB as declared, 0 when absent
	Section         string
	Priority        string
	Homepage        string
	License         string
	Description     string // first line only
	LongDescription string
	Source          string

	Depends    []DependencyGroup
	PreDepends []DependencyGroup
	Recommends []DependencyGroup
	Suggests   []DependencyGroup
	Conflicts  []DependencyGroup
	Breaks     []DependencyGroup
	Provides   []DependencyGroup
	Replaces   []DependencyGroup

	// Fields keeps control fields the parser does not model explicitly.
	Fields map[string]string
}

// VersionConstraint is a relational restriction on a dependency version.
type VersionConstraint struct {
	Op      string // one of <<, <=, =, >=, >>
	Version string
}

// DependencySpec is a single alternative inside a dependency group: a
// package name with an optional version constraint.
type DependencySpec struct {
	Name       string
	Constraint *VersionConstraint
	ArchQual   string // architecture qualifier, stripped from Name
}

// DependencyGroup is one comma-separated element of a dependency field.
// Alternatives are |-separated and tried in declared order.
type DependencyGroup struct {
	Raw          string
	Alternatives []DependencySpec
}

// EntryType classifies a filesystem entry inside a package payload.
type EntryType int

const (
	EntryFile EntryType = iota
	EntryDir
	EntrySymlink
	EntryHardlink
)

// String returns a human-readable entry type name.
func (t EntryType) String() string {
	switch t {
	case EntryFile:
		return "file"
	case EntryDir:
		return "dir"
	case EntrySymlink:
		return "symlink"
	case EntryHardlink:
		return "hardlink"
	default:
		return "unknown"
	}
}

// FileEntry describes one payload entry. Path is absolute ("/"-rooted)
// regardless of how the source archive spelled it.
type FileEntry struct {
	Path       string
	Type       EntryType
	Mode       int64
	UID        int
	GID        int
	Uname      string
	Gname      string
	Size       int64
	LinkTarget string // symlink or hardlink target, empty otherwise
}

// Scripts holds the maintainer scripts shipped with the source package.
type Scripts struct {
	PreInstall  string
	PostInstall string
	PreRemove   string
	PostRemove  string
}

// Empty reports whether no script is present.
func (s Scripts) Empty() bool {
	return s.PreInstall == "" && s.PostInstall == "" && s.PreRemove == "" && s.PostRemove == ""
}

// ExtractedPackage is the on-disk result of unpacking a source archive
// into a work directory.
type ExtractedPackage struct {
	Format     string // "deb" or "rpm"
	SourcePath string
	DataDir    string // root of the unpacked filesystem tree
	ControlDir string // deb control members, empty for rpm
	Entries    []FileEntry
	RawControl []byte // deb control file text, nil for rpm
	Scripts    Scripts
	Conffiles  []string
}
