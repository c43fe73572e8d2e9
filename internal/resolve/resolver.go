package resolve

import (
	"context"
	"strings"

	"deb2pac/internal/deb"
	"deb2pac/internal/models"
)

// FileLookup finds the package owning a file path or shared-object
// name. Implementations may consult external databases, so results are
// environment-dependent; a nil lookup disables the step and keeps
// resolution a pure function of the table.
type FileLookup interface {
	Owner(ctx context.Context, name string) (string, bool)
}

// Resolver translates source dependency names into target package
// names.
type Resolver struct {
	table *Table
	files FileLookup
}

// NewResolver returns a Resolver over table. lookup may be nil.
func NewResolver(table *Table, lookup FileLookup) *Resolver {
	return &Resolver{table: table, files: lookup}
}

// ResolveAll resolves every dependency group in declared order.
func (r *Resolver) ResolveAll(ctx context.Context, groups []models.DependencyGroup) []models.Resolution {
	resolutions := make([]models.Resolution, 0, len(groups))
	for _, g := range groups {
		resolutions = append(resolutions, r.ResolveGroup(ctx, g))
	}
	return resolutions
}

// ResolveGroup resolves one dependency group. Alternatives are tried in
// declared order and the first yielding target names wins. A user
// override to the empty list counts as an intentional drop, not a
// miss: a group whose alternatives were all dropped is satisfied
// silently, and only a group with no resolvable alternative at all is
// unresolved.
func (r *Resolver) ResolveGroup(ctx context.Context, group models.DependencyGroup) models.Resolution {
	res := models.Resolution{Source: group.Raw, Status: models.StatusUnresolved}

	sawDrop := false
	for _, alt := range group.Alternatives {
		targets, prov, ok := r.resolveName(ctx, alt)
		if !ok {
			continue
		}
		if len(targets) == 0 {
			sawDrop = true
			continue
		}
		res.Targets = targets
		res.Provenance = prov
		res.Status = models.StatusMapped
		res.Constraint = alt.Constraint
		return res
	}

	if sawDrop {
		res.Status = models.StatusDropped
		res.Provenance = models.ProvenanceUser
	}
	return res
}

// ResolveNames resolves a plain name list (conflicts, provides,
// replaces). Unresolved names are kept as-is: a cross-distribution
// conflict is still worth declaring under its original name. Dropped
// names vanish.
func (r *Resolver) ResolveNames(ctx context.Context, groups []models.DependencyGroup) []string {
	var out []string
	for _, g := range groups {
		for _, alt := range g.Alternatives {
			targets, _, ok := r.resolveName(ctx, alt)
			if !ok {
				out = append(out, alt.Name)
				continue
			}
			out = append(out, targets...)
		}
	}
	return out
}

// resolveName resolves a single alternative. ok reports whether any
// step succeeded; success with an empty target list is a user drop.
func (r *Resolver) resolveName(ctx context.Context, spec models.DependencySpec) ([]string, models.Provenance, bool) {
	name := spec.Name

	// Step 1: exact match, user overrides first
	if targets, prov, ok := r.table.exact(name); ok {
		return targets, prov, true
	}

	// Step 2: virtual packages map to their first configured provider.
	// A virtual name without providers is terminally unresolved; it
	// never falls through to fuzzy matching.
	if providers, ok := r.table.virtual[name]; ok {
		if len(providers) == 0 {
			return nil, models.ProvenanceNone, false
		}
		return providers[:1], models.ProvenanceVirtual, true
	}

	// Step 3: fuzzy matching, except for path and shared-object names
	if !strings.Contains(name, "/") && !strings.Contains(name, ".so") {
		if targets, prov, ok := r.resolveFuzzy(spec); ok {
			return targets, prov, true
		}
	}

	// Step 4: file ownership lookup when available
	if r.files != nil {
		if owner, ok := r.files.Owner(ctx, name); ok {
			return []string{owner}, models.ProvenancePkgfile, true
		}
	}

	return nil, models.ProvenanceNone, false
}

func (r *Resolver) resolveFuzzy(spec models.DependencySpec) ([]string, models.Provenance, bool) {
	name := spec.Name

	// python3 packages keep their name under the python- prefix
	if strings.HasPrefix(name, "python3-") {
		return []string{"python-" + strings.TrimPrefix(name, "python3-")}, models.ProvenanceFuzzy, true
	}

	// development packages fold into their base package
	if strings.HasSuffix(name, "-dev") {
		base := strings.TrimSuffix(name, "-dev")
		if targets, _, ok := r.table.exact(base); ok && len(targets) > 0 {
			return targets, models.ProvenanceFuzzy, true
		}
		if candidates := r.table.stripped[base]; len(candidates) > 0 {
			return pickCandidate(candidates, spec.Constraint).targets, models.ProvenanceFuzzy, true
		}
		return []string{base}, models.ProvenanceFuzzy, true
	}

	// strip one trailing version run and retry the exact tables
	stripped := StripVersionSuffix(name)
	if stripped == name {
		return nil, models.ProvenanceNone, false
	}
	if e, ok := r.table.user[stripped]; ok {
		return e.targets, models.ProvenanceFuzzy, true
	}
	if candidates := r.table.stripped[stripped]; len(candidates) > 0 {
		return pickCandidate(candidates, spec.Constraint).targets, models.ProvenanceFuzzy, true
	}
	return nil, models.ProvenanceNone, false
}

// pickCandidate chooses among built-in entries sharing a stripped name:
// the first whose recorded version satisfies the declared constraint,
// else the most recently defined one.
func pickCandidate(candidates []*entry, c *models.VersionConstraint) *entry {
	if c != nil {
		for _, e := range candidates {
			if e.version != "" && deb.ConstraintSatisfied(e.version, c) {
				return e
			}
		}
	}
	return candidates[len(candidates)-1]
}
