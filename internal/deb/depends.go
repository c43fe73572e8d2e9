package deb

import (
	"fmt"
	"strings"

	"deb2pac/internal/models"
)

// Relational operators in precedence order for prefix matching. The
// two-character forms must come first; bare < and > are legacy
// spellings of <= and >=.
var constraintOps = []string{"<<", ">>", "<=", ">=", "=", "<", ">"}

// ParseDependencyField parses a comma-separated dependency field value
// into its groups. Within a group, |-separated alternatives keep their
// declared order. The field name is only used for error reporting.
func ParseDependencyField(field, value string) ([]models.DependencyGroup, error) {
	var groups []models.DependencyGroup
	for _, element := range strings.Split(value, ",") {
		element = strings.TrimSpace(element)
		if element == "" {
			continue
		}
		group, err := parseGroup(field, element)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseGroup(field, element string) (models.DependencyGroup, error) {
	group := models.DependencyGroup{Raw: element}
	for _, alt := range strings.Split(element, "|") {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			continue
		}
		spec, err := parseAlternative(field, alt)
		if err != nil {
			return models.DependencyGroup{}, err
		}
		group.Alternatives = append(group.Alternatives, spec)
	}
	if len(group.Alternatives) == 0 {
		return models.DependencyGroup{}, &models.MalformedMetadataError{
			Field:  field,
			Reason: fmt.Sprintf("dependency element %q has no alternatives", element),
		}
	}
	return group, nil
}

// parseAlternative parses one "name [(op version)]" alternative.
// Architecture restriction lists in brackets and build profiles in
// angle brackets are discarded; an architecture qualifier after a
// colon is split off the name.
func parseAlternative(field, s string) (models.DependencySpec, error) {
	var spec models.DependencySpec

	s = stripDelimited(s, '[', ']')

	// Version constraint, before angle brackets are stripped so the
	// operator characters inside parentheses survive
	if i := strings.IndexByte(s, '('); i >= 0 {
		j := strings.IndexByte(s, ')')
		if j < i {
			return spec, &models.MalformedMetadataError{
				Field:  field,
				Reason: fmt.Sprintf("unterminated version constraint in %q", s),
			}
		}
		constraint, err := parseConstraint(field, strings.TrimSpace(s[i+1:j]))
		if err != nil {
			return spec, err
		}
		spec.Constraint = constraint
		s = s[:i] + s[j+1:]
	}

	s = strings.TrimSpace(stripDelimited(s, '<', '>'))

	if i := strings.IndexByte(s, ':'); i >= 0 {
		spec.ArchQual = strings.TrimSpace(s[i+1:])
		s = s[:i]
	}

	spec.Name = strings.TrimSpace(s)
	if spec.Name == "" {
		return spec, &models.MalformedMetadataError{
			Field:  field,
			Reason: "dependency alternative has no package name",
		}
	}
	return spec, nil
}

func parseConstraint(field, s string) (*models.VersionConstraint, error) {
	for _, op := range constraintOps {
		if !strings.HasPrefix(s, op) {
			continue
		}
		ver := strings.TrimSpace(strings.TrimPrefix(s, op))
		if ver == "" {
			return nil, &models.MalformedMetadataError{
				Field:  field,
				Reason: fmt.Sprintf("version constraint %q has no version", s),
			}
		}
		switch op {
		case "<":
			op = "<="
		case ">":
			op = ">="
		}
		return &models.VersionConstraint{Op: op, Version: ver}, nil
	}
	return nil, &models.MalformedMetadataError{
		Field:  field,
		Reason: fmt.Sprintf("unknown operator in version constraint %q", s),
	}
}

// stripDelimited removes every open...close span from s. An
// unterminated span runs to the end of the string.
func stripDelimited(s string, open, close byte) string {
	for {
		i := strings.IndexByte(s, open)
		if i < 0 {
			return s
		}
		j := strings.IndexByte(s[i:], close)
		if j < 0 {
			return s[:i]
		}
		s = s[:i] + s[i+j+1:]
	}
}
