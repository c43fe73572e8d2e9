package convert

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"deb2pac/internal/deb"
	"deb2pac/internal/detect"
	"deb2pac/internal/fetch"
	"deb2pac/internal/layout"
	"deb2pac/internal/models"
	"deb2pac/internal/pacman"
	"deb2pac/internal/resolve"
	"deb2pac/internal/rpm"
	"deb2pac/internal/utils"
)

// Reader extracts and parses one source package format.
type Reader interface {
	Extract(ctx context.Context, pkgPath, workDir string) (*models.ExtractedPackage, error)
	Parse(pkg *models.ExtractedPackage) (*models.PackageMetadata, error)
}

type debReader struct{}

func (debReader) Extract(ctx context.Context, pkgPath, workDir string) (*models.ExtractedPackage, error) {
	return deb.Extract(ctx, pkgPath, workDir)
}

func (debReader) Parse(pkg *models.ExtractedPackage) (*models.PackageMetadata, error) {
	return deb.ParseControl(pkg.RawControl)
}

type rpmReader struct{}

func (rpmReader) Extract(ctx context.Context, pkgPath, workDir string) (*models.ExtractedPackage, error) {
	return rpm.Extract(ctx, pkgPath, workDir)
}

func (rpmReader) Parse(pkg *models.ExtractedPackage) (*models.PackageMetadata, error) {
	return rpm.ParseMetadata(pkg.SourcePath)
}

// Converter drives packages through the pipeline. It holds only
// immutable collaborators, so a single Converter may serve concurrent
// conversions.
type Converter struct {
	opts     models.ConvertOptions
	resolver *resolve.Resolver
	packer   pacman.Packer
	readers  map[detect.Format]Reader
}

// New assembles a Converter from its collaborators.
func New(opts models.ConvertOptions, resolver *resolve.Resolver, packer pacman.Packer) *Converter {
	return &Converter{
		opts:     opts,
		resolver: resolver,
		packer:   packer,
		readers: map[detect.Format]Reader{
			detect.FormatDeb: debReader{},
			detect.FormatRpm: rpmReader{},
		},
	}
}

// Convert runs the full pipeline for one target, a local path or URL.
// Fatal failures come back as a ConvertError carrying the stage they
// happened in; unresolved dependencies are warnings in the result, not
// failures.
func (c *Converter) Convert(ctx context.Context, target string) (*models.ConversionResult, error) {
	source := fetch.ForTarget(target)
	defer source.Cleanup()

	fail := func(stage models.Stage, pkgName string, err error) (*models.ConversionResult, error) {
		return nil, &models.ConvertError{Stage: stage, Package: pkgName, Err: err}
	}

	// Stage: fetched
	if err := ctx.Err(); err != nil {
		return fail(models.StageFetched, "", err)
	}
	localPath, err := source.Fetch(ctx)
	if err != nil {
		return fail(models.StageFetched, "", err)
	}

	format, err := detect.File(localPath)
	if err != nil {
		return fail(models.StageFetched, "", err)
	}
	reader, ok := c.readers[format]
	if !ok {
		return fail(models.StageFetched, "", fmt.Errorf("unsupported package format: %s", filepath.Base(localPath)))
	}
	logrus.Infof("Converting %s package %s", format, localPath)

	workDir, err := os.MkdirTemp("", "deb2pac-")
	if err != nil {
		return fail(models.StageExtracted, "", err)
	}
	defer func() {
		if c.opts.KeepWorkDir {
			logrus.Infof("Keeping work directory %s", workDir)
			return
		}
		os.RemoveAll(workDir)
	}()

	// Stage: extracted
	if err := ctx.Err(); err != nil {
		return fail(models.StageExtracted, "", err)
	}
	extracted, err := reader.Extract(ctx, localPath, workDir)
	if err != nil {
		return fail(models.StageExtracted, "", err)
	}
	logrus.Debugf("Extracted %d entries to %s", len(extracted.Entries), workDir)

	// Stage: parsed
	if err := ctx.Err(); err != nil {
		return fail(models.StageParsed, "", err)
	}
	meta, err := reader.Parse(extracted)
	if err != nil {
		return fail(models.StageParsed, "", err)
	}
	logrus.Infof("Parsed %s %s (%s)", meta.Name, meta.Version, meta.Architecture)

	// Stage: resolved
	if err := ctx.Err(); err != nil {
		return fail(models.StageResolved, meta.Name, err)
	}
	hard := make([]models.DependencyGroup, 0, len(meta.PreDepends)+len(meta.Depends))
	hard = append(hard, meta.PreDepends...)
	hard = append(hard, meta.Depends...)
	depends := c.resolver.ResolveAll(ctx, hard)

	optionals := make([]models.DependencyGroup, 0, len(meta.Recommends)+len(meta.Suggests))
	optionals = append(optionals, meta.Recommends...)
	optionals = append(optionals, meta.Suggests...)
	optional := c.resolver.ResolveAll(ctx, optionals)

	conflictGroups := make([]models.DependencyGroup, 0, len(meta.Conflicts)+len(meta.Breaks))
	conflictGroups = append(conflictGroups, meta.Conflicts...)
	conflictGroups = append(conflictGroups, meta.Breaks...)

	var warnings []string
	var unresolved []string
	seenUnresolved := make(map[string]bool)
	for _, res := range depends {
		if res.Status != models.StatusUnresolved || seenUnresolved[res.Source] {
			continue
		}
		seenUnresolved[res.Source] = true
		unresolved = append(unresolved, res.Source)
		warnings = append(warnings, fmt.Sprintf("unresolved dependency: %s", res.Source))
		logrus.Warnf("No mapping for dependency %q", res.Source)
	}
	for _, res := range optional {
		if res.Status == models.StatusUnresolved {
			logrus.Debugf("Skipping optional dependency %q", res.Source)
		}
	}

	// Stage: normalized
	if err := ctx.Err(); err != nil {
		return fail(models.StageNormalized, meta.Name, err)
	}
	if _, err := layout.Apply(extracted.DataDir, extracted.Entries); err != nil {
		return fail(models.StageNormalized, meta.Name, err)
	}

	// Stage: emitted
	if err := ctx.Err(); err != nil {
		return fail(models.StageEmitted, meta.Name, err)
	}
	info := pacman.NewInfo(meta)
	info.Depends = pacman.Dedup(targetsOf(depends))
	info.OptDepends = pacman.Dedup(targetsOf(optional))
	info.Conflicts = pacman.Dedup(c.resolver.ResolveNames(ctx, conflictGroups))
	info.Provides = pacman.Dedup(c.resolver.ResolveNames(ctx, meta.Provides))
	info.Replaces = pacman.Dedup(c.resolver.ResolveNames(ctx, meta.Replaces))
	info.Backup = backupPaths(extracted.Conffiles)

	if err := utils.WriteFile(filepath.Join(extracted.DataDir, ".PKGINFO"), info.Render(), 0o644); err != nil {
		return fail(models.StageEmitted, meta.Name, err)
	}
	if c.opts.IncludeScripts {
		if data := pacman.RenderInstall(extracted.Scripts); data != nil {
			if err := utils.WriteFile(filepath.Join(extracted.DataDir, ".INSTALL"), data, 0o644); err != nil {
				return fail(models.StageEmitted, meta.Name, err)
			}
		}
	}

	// Stage: packed
	if err := ctx.Err(); err != nil {
		return fail(models.StagePacked, meta.Name, err)
	}
	filename := info.Filename()
	packedPath := filepath.Join(workDir, filename)
	if err := c.packer.Pack(ctx, extracted.DataDir, packedPath); err != nil {
		return fail(models.StagePacked, meta.Name, err)
	}

	if err := utils.EnsureDir(c.opts.OutputDir); err != nil {
		return fail(models.StagePacked, meta.Name, err)
	}
	outputPath := filepath.Join(c.opts.OutputDir, filename)
	if err := utils.CopyFile(packedPath, outputPath); err != nil {
		return fail(models.StagePacked, meta.Name, err)
	}

	sums, err := utils.CalculateChecksums(outputPath)
	if err != nil {
		return fail(models.StagePacked, meta.Name, err)
	}

	logrus.Infof("Created %s", outputPath)
	return &models.ConversionResult{
		Package:     meta.Name,
		OutputPath:  outputPath,
		SHA256:      sums.SHA256,
		Stage:       models.StageDone,
		Warnings:    warnings,
		Unresolved:  unresolved,
		Resolutions: depends,
	}, nil
}

func targetsOf(resolutions []models.Resolution) []string {
	var out []string
	for _, r := range resolutions {
		out = append(out, r.Targets...)
	}
	return out
}

// backupPaths rewrites conffile paths through the layout rules and
// strips the leading slash the backup format wants gone.
func backupPaths(conffiles []string) []string {
	var out []string
	for _, p := range conffiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		out = append(out, strings.TrimPrefix(layout.NormalizePath(path.Clean(p)), "/"))
	}
	return pacman.Dedup(out)
}
