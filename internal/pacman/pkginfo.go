package pacman

import (
	"bytes"
	"fmt"
	"time"

	"deb2pac/internal/deb"
	"deb2pac/internal/models"
)

// Packager is the identity recorded in emitted package metadata.
const Packager = "deb2pac"

// Info is the target package's metadata record: everything that lands
// in .PKGINFO plus the fields deriving the output file name.
type Info struct {
	Name       string
	Base       string
	Version    string // cleaned upstream[-revision]
	Release    string
	Desc       string
	URL        string
	BuildDate  int64
	Packager   string
	Size       int64 // installed size in bytes
	Arch       string
	Licenses   []string
	Replaces   []string
	Conflicts  []string
	Provides   []string
	Backup     []string
	Depends    []string
	OptDepends []string
}

// NewInfo derives the base record from parsed source metadata. The
// dependency lists are filled in by the caller once resolution has
// run.
func NewInfo(meta *models.PackageMetadata) *Info {
	license := meta.License
	if license == "" {
		license = "custom"
	}
	return &Info{
		Name:      meta.Name,
		Base:      meta.Name,
		Version:   deb.CleanVersion(meta.Version),
		Release:   "1",
		Desc:      meta.Description,
		URL:       meta.Homepage,
		BuildDate: time.Now().Unix(),
		Packager:  Packager,
		Size:      meta.InstalledSize * 1024, // KiB to bytes
		Arch:      TargetArch(meta.Architecture),
		Licenses:  []string{license},
	}
}

// FullVersion returns the pkgver string including the release suffix.
func (i *Info) FullVersion() string {
	return i.Version + "-" + i.Release
}

// Filename returns the conventional package file name.
func (i *Info) Filename() string {
	return fmt.Sprintf("%s-%s-%s.pkg.tar.zst", i.Name, i.FullVersion(), i.Arch)
}

// Render serializes the record in the key = value format the target
// package manager reads.
func (i *Info) Render() []byte {
	var buf bytes.Buffer

	// Write a field to the buffer
	writeField := func(key, value string) {
		if value != "" {
			buf.WriteString(fmt.Sprintf("%s = %s\n", key, value))
		}
	}
	writeList := func(key string, values []string) {
		for _, v := range values {
			writeField(key, v)
		}
	}

	buf.WriteString(fmt.Sprintf("# Generated by %s\n", Packager))
	writeField("pkgname", i.Name)
	writeField("pkgbase", i.Base)
	writeField("pkgver", i.FullVersion())
	writeField("pkgdesc", i.Desc)
	writeField("url", i.URL)
	writeField("builddate", fmt.Sprintf("%d", i.BuildDate))
	writeField("packager", i.Packager)
	writeField("size", fmt.Sprintf("%d", i.Size))
	writeField("arch", i.Arch)
	writeList("license", i.Licenses)
	writeList("replaces", i.Replaces)
	writeList("conflict", i.Conflicts)
	writeList("provides", i.Provides)
	writeList("backup", i.Backup)
	writeList("depend", i.Depends)
	writeList("optdepend", i.OptDepends)

	return buf.Bytes()
}

// Dedup drops empty and duplicate names, keeping first-occurrence
// order.
func Dedup(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
