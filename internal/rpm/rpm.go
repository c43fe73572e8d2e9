package rpm

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sassoftware/go-rpmutils"

	"deb2pac/internal/models"
)

// RPMFILE_CONFIG marks %config files in FILEFLAGS.
const fileFlagConfig = 1 << 0

// Extract unpacks an RPM payload into workDir/data and records the
// header's file list, ownership included, as entries.
func Extract(ctx context.Context, pkgPath, workDir string) (*models.ExtractedPackage, error) {
	f, err := os.Open(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read RPM: %w", err)
	}

	dataDir := filepath.Join(workDir, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := rpm.ExpandPayload(dataDir); err != nil {
		return nil, fmt.Errorf("failed to expand payload: %w", err)
	}

	entries, conffiles, err := fileEntries(rpm)
	if err != nil {
		return nil, fmt.Errorf("failed to read file list: %w", err)
	}

	return &models.ExtractedPackage{
		Format:     "rpm",
		SourcePath: pkgPath,
		DataDir:    dataDir,
		Entries:    entries,
		Conffiles:  conffiles,
		Scripts: models.Scripts{
			PreInstall:  getStringTag(rpm, rpmutils.PREIN),
			PostInstall: getStringTag(rpm, rpmutils.POSTIN),
			PreRemove:   getStringTag(rpm, rpmutils.PREUN),
			PostRemove:  getStringTag(rpm, rpmutils.POSTUN),
		},
	}, nil
}

// ParseMetadata reads the package header into the neutral metadata
// form. The version is assembled as [epoch:]version-release so the
// release slots into the revision position downstream.
func ParseMetadata(pkgPath string) (*models.PackageMetadata, error) {
	f, err := os.Open(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer f.Close()

	rpm, err := rpmutils.ReadRpm(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read RPM: %w", err)
	}

	nevra, err := rpm.Header.GetNEVRA()
	if err != nil {
		return nil, &models.MalformedMetadataError{Field: "NEVRA", Reason: err.Error()}
	}
	if nevra.Name == "" {
		return nil, &models.MalformedMetadataError{Field: "Name", Reason: "required field missing"}
	}
	if nevra.Version == "" {
		return nil, &models.MalformedMetadataError{Field: "Version", Reason: "required field missing"}
	}

	version := nevra.Version
	if nevra.Release != "" {
		version += "-" + nevra.Release
	}
	if nevra.Epoch != "" && nevra.Epoch != "0" {
		version = nevra.Epoch + ":" + version
	}

	meta := &models.PackageMetadata{
		Name:            nevra.Name,
		Version:         version,
		Architecture:    nevra.Arch,
		Maintainer:      getStringTag(rpm, rpmutils.PACKAGER),
		Homepage:        getStringTag(rpm, rpmutils.URL),
		License:         getStringTag(rpm, rpmutils.LICENSE),
		Description:     getStringTag(rpm, rpmutils.SUMMARY),
		LongDescription: getStringTag(rpm, rpmutils.DESCRIPTION),
		Section:         getStringTag(rpm, rpmutils.GROUP),
		InstalledSize:   getIntTag(rpm, rpmutils.SIZE) / 1024, // bytes to KiB
		Depends:         requirementGroups(rpm),
		Fields:          make(map[string]string),
	}

	for _, name := range getStringSliceTag(rpm, rpmutils.CONFLICTNAME) {
		meta.Conflicts = append(meta.Conflicts, singletonGroup(name))
	}
	for _, name := range getStringSliceTag(rpm, rpmutils.OBSOLETENAME) {
		meta.Replaces = append(meta.Replaces, singletonGroup(name))
	}
	for _, name := range getStringSliceTag(rpm, rpmutils.PROVIDENAME) {
		if name == meta.Name || strings.HasPrefix(name, "config(") || strings.HasPrefix(name, "rpmlib(") {
			continue
		}
		meta.Provides = append(meta.Provides, singletonGroup(name))
	}

	return meta, nil
}

func singletonGroup(name string) models.DependencyGroup {
	return models.DependencyGroup{
		Raw:          name,
		Alternatives: []models.DependencySpec{{Name: name}},
	}
}

// requirementGroups assembles Requires entries with their version
// constraints. rpmlib and config internals are dropped; the parallel
// version/flag arrays are read unfiltered so indexes stay aligned.
func requirementGroups(rpm *rpmutils.Rpm) []models.DependencyGroup {
	names := rawStrings(rpm, rpmutils.REQUIRENAME)
	versions := rawStrings(rpm, rpmutils.REQUIREVERSION)
	flags := rawInts(rpm, rpmutils.REQUIREFLAGS)

	var groups []models.DependencyGroup
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || strings.HasPrefix(name, "rpmlib(") || strings.HasPrefix(name, "config(") {
			continue
		}
		// boolean dependencies ("(a or b)") have no single name to map
		if strings.HasPrefix(name, "(") {
			continue
		}
		spec := models.DependencySpec{Name: name}
		raw := name
		if i < len(versions) && i < len(flags) && versions[i] != "" {
			if op := rpmOperator(flags[i]); op != "" {
				spec.Constraint = &models.VersionConstraint{Op: op, Version: versions[i]}
				raw = fmt.Sprintf("%s (%s %s)", name, op, versions[i])
			}
		}
		groups = append(groups, models.DependencyGroup{
			Raw:          raw,
			Alternatives: []models.DependencySpec{spec},
		})
	}
	return groups
}

// rpmOperator translates RPMSENSE comparison bits into the operator
// vocabulary the resolver speaks.
func rpmOperator(flags int64) string {
	const (
		senseLess    = 0x02
		senseGreater = 0x04
		senseEqual   = 0x08
	)
	switch {
	case flags&senseLess != 0 && flags&senseEqual != 0:
		return "<="
	case flags&senseGreater != 0 && flags&senseEqual != 0:
		return ">="
	case flags&senseLess != 0:
		return "<<"
	case flags&senseGreater != 0:
		return ">>"
	case flags&senseEqual != 0:
		return "="
	}
	return ""
}

// fileEntries converts the header file list, flagging %config files
// the way the other source format lists conffiles.
func fileEntries(rpm *rpmutils.Rpm) ([]models.FileEntry, []string, error) {
	files, err := rpm.Header.GetFiles()
	if err != nil {
		return nil, nil, err
	}

	var entries []models.FileEntry
	var conffiles []string
	for _, fi := range files {
		p := path.Clean(fi.Name())
		if !strings.HasPrefix(p, "/") {
			p = "/" + strings.TrimPrefix(p, "./")
		}

		mode := int64(fi.Mode())
		entry := models.FileEntry{
			Path:       p,
			Mode:       mode & 0o7777,
			Uname:      fi.UserName(),
			Gname:      fi.GroupName(),
			Size:       fi.Size(),
			LinkTarget: fi.Linkname(),
		}
		switch mode & 0o170000 {
		case 0o040000:
			entry.Type = models.EntryDir
		case 0o120000:
			entry.Type = models.EntrySymlink
		default:
			entry.Type = models.EntryFile
		}

		if entry.Type == models.EntryFile && fi.Flags()&fileFlagConfig != 0 {
			conffiles = append(conffiles, p)
		}
		entries = append(entries, entry)
	}
	return entries, conffiles, nil
}

// getStringTag safely gets a string tag from RPM
func getStringTag(rpm *rpmutils.Rpm, tag int) string {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return ""
	}

	// Handle different types that might be returned
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	default:
		return fmt.Sprintf("%v", v)
	}

	return ""
}

// getIntTag safely gets an integer tag from RPM
func getIntTag(rpm *rpmutils.Rpm, tag int) int64 {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return 0
	}
	switch v := val.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case []int32:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []int64:
		if len(v) > 0 {
			return v[0]
		}
	}
	return 0
}

// getStringSliceTag safely gets a string slice tag from RPM
func getStringSliceTag(rpm *rpmutils.Rpm, tag int) []string {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return nil
	}
	if slice, ok := val.([]string); ok {
		// Filter out empty strings
		var result []string
		for _, s := range slice {
			s = strings.TrimSpace(s)
			if s != "" {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}

func rawStrings(rpm *rpmutils.Rpm, tag int) []string {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return nil
	}
	if s, ok := val.([]string); ok {
		return s
	}
	return nil
}

func rawInts(rpm *rpmutils.Rpm, tag int) []int64 {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return nil
	}
	switch v := val.(type) {
	case []int64:
		return v
	case []int32:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out
	case []int:
		out := make([]int64, len(v))
		for i, x := range v {
			out[i] = int64(x)
		}
		return out
	}
	return nil
}
