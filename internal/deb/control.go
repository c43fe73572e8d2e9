package deb

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"pault.ag/go/debian/version"

	"deb2pac/internal/models"
)

// ParseControl parses the Debian control file format into
// PackageMetadata. Package and Version are required; a missing or
// unparseable Version is a metadata error.
func ParseControl(data []byte) (*models.PackageMetadata, error) {
	meta := &models.PackageMetadata{
		Fields: make(map[string]string),
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	var currentKey string
	var currentValue strings.Builder

	for scanner.Scan() {
		line := scanner.Text()

		// Handle continuation lines (start with space or tab)
		if len(line) > 0 && (line[0] == ' ' || line[0] == '\t') {
			currentValue.WriteString("\n")
			currentValue.WriteString(strings.TrimSpace(line))
			continue
		}

		// Save previous key-value pair
		if currentKey != "" {
			if err := setField(meta, currentKey, currentValue.String()); err != nil {
				return nil, err
			}
		}
		currentKey = ""

		// Parse new key-value pair
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			currentKey = strings.TrimSpace(parts[0])
			currentValue.Reset()
			if len(parts) > 1 {
				currentValue.WriteString(strings.TrimSpace(parts[1]))
			}
		}
	}

	// Save last key-value pair
	if currentKey != "" {
		if err := setField(meta, currentKey, currentValue.String()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if meta.Name == "" {
		return nil, &models.MalformedMetadataError{Field: "Package", Reason: "required field missing"}
	}
	if meta.Version == "" {
		return nil, &models.MalformedMetadataError{Field: "Version", Reason: "required field missing"}
	}
	if _, err := version.Parse(meta.Version); err != nil {
		return nil, &models.MalformedMetadataError{Field: "Version", Reason: err.Error()}
	}

	return meta, nil
}

// setField sets a field in the PackageMetadata based on the control
// file key.
func setField(meta *models.PackageMetadata, key, value string) error {
	switch key {
	case "Package":
		meta.Name = value
	case "Version":
		meta.Version = value
	case "Architecture":
		meta.Architecture = value
	case "Maintainer":
		meta.Maintainer = value
	case "Installed-Size":
		// KiB per policy; a garbage value degrades to 0 rather than
		// failing the whole package
		if size, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			meta.InstalledSize = size
		}
	case "Section":
		meta.Section = value
	case "Priority":
		meta.Priority = value
	case "Homepage":
		meta.Homepage = value
	case "License":
		meta.License = value
	case "Source":
		meta.Source = value
	case "Description":
		parts := strings.SplitN(value, "\n", 2)
		meta.Description = parts[0]
		if len(parts) > 1 {
			meta.LongDescription = parts[1]
		}
	case "Depends":
		return setDependencyField(&meta.Depends, key, value)
	case "Pre-Depends":
		return setDependencyField(&meta.PreDepends, key, value)
	case "Recommends":
		return setDependencyField(&meta.Recommends, key, value)
	case "Suggests":
		return setDependencyField(&meta.Suggests, key, value)
	case "Conflicts":
		return setDependencyField(&meta.Conflicts, key, value)
	case "Breaks":
		return setDependencyField(&meta.Breaks, key, value)
	case "Provides":
		return setDependencyField(&meta.Provides, key, value)
	case "Replaces":
		return setDependencyField(&meta.Replaces, key, value)
	default:
		// Store other fields verbatim
		meta.Fields[key] = value
	}
	return nil
}

func setDependencyField(dst *[]models.DependencyGroup, key, value string) error {
	groups, err := ParseDependencyField(key, value)
	if err != nil {
		return err
	}
	*dst = groups
	return nil
}
