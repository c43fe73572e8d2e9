package models

// Stage identifies a checkpoint in the conversion pipeline. A package
// advances through the stages in order; Failed is terminal from any of
// them.
type Stage int

const (
	StageFetched Stage = iota
	StageExtracted
	StageParsed
	StageResolved
	StageNormalized
	StageEmitted
	StagePacked
	StageDone
	StageFailed
)

// String returns the string representation of Stage
func (s Stage) String() string {
	switch s {
	case StageFetched:
		return "fetched"
	case StageExtracted:
		return "extracted"
	case StageParsed:
		return "parsed"
	case StageResolved:
		return "resolved"
	case StageNormalized:
		return "normalized"
	case StageEmitted:
		return "emitted"
	case StagePacked:
		return "packed"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Provenance records which mapping source produced a resolution.
type Provenance int

const (
	ProvenanceNone Provenance = iota
	ProvenanceBuiltin
	ProvenanceUser
	ProvenanceVirtual
	ProvenanceFuzzy
	ProvenancePkgfile
)

// String returns the string representation of Provenance
func (p Provenance) String() string {
	switch p {
	case ProvenanceBuiltin:
		return "builtin"
	case ProvenanceUser:
		return "user"
	case ProvenanceVirtual:
		return "virtual"
	case ProvenanceFuzzy:
		return "fuzzy"
	case ProvenancePkgfile:
		return "pkgfile"
	default:
		return "none"
	}
}

// ResolutionStatus classifies the outcome of resolving one dependency
// group.
type ResolutionStatus int

const (
	StatusMapped ResolutionStatus = iota
	StatusDropped
	StatusUnresolved
)

// String returns the string representation of ResolutionStatus
func (s ResolutionStatus) String() string {
	switch s {
	case StatusMapped:
		return "mapped"
	case StatusDropped:
		return "dropped"
	default:
		return "unresolved"
	}
}

// Resolution is the recorded outcome for one dependency group.
type Resolution struct {
	Source     string // original group text
	Targets    []string
	Provenance Provenance
	Status     ResolutionStatus
	Constraint *VersionConstraint // declared constraint of the winning alternative
}

// ConversionResult is returned for every conversion that reaches Done.
// Unresolved dependencies are warnings, not failures; they appear here
// in first-seen order.
type ConversionResult struct {
	Package     string
	OutputPath  string
	SHA256      string
	Stage       Stage
	Warnings    []string
	Unresolved  []string
	Resolutions []Resolution
}
