package deb

import (
	"archive/tar"
	"compress/bzip2"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"

	"deb2pac/internal/models"
)

// Extract unpacks a .deb archive into workDir. Control members land in
// workDir/control, the filesystem payload in workDir/data, and every
// payload entry is recorded with its ownership and mode as declared in
// the archive.
func Extract(ctx context.Context, pkgPath, workDir string) (*models.ExtractedPackage, error) {
	f, err := os.Open(pkgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open package: %w", err)
	}
	defer f.Close()

	pkg := &models.ExtractedPackage{
		Format:     "deb",
		SourcePath: pkgPath,
		ControlDir: filepath.Join(workDir, "control"),
		DataDir:    filepath.Join(workDir, "data"),
	}
	for _, dir := range []string{pkg.ControlDir, pkg.DataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create work directory: %w", err)
		}
	}

	var haveControl, haveData bool

	// .deb files are ar archives: debian-binary, control.tar.*, data.tar.*
	reader := ar.NewReader(f)
	for {
		header, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ar member: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// ar names may carry trailing slashes and padding
		name := strings.TrimRight(strings.TrimSpace(header.Name), "/")
		switch {
		case strings.HasPrefix(name, "control.tar"):
			if err := extractControlTar(reader, name, pkg); err != nil {
				return nil, fmt.Errorf("failed to extract %s: %w", name, err)
			}
			haveControl = true
		case strings.HasPrefix(name, "data.tar"):
			entries, err := extractDataTar(ctx, reader, name, pkg.DataDir)
			if err != nil {
				return nil, fmt.Errorf("failed to extract %s: %w", name, err)
			}
			pkg.Entries = entries
			haveData = true
		}
	}

	if !haveControl {
		return nil, fmt.Errorf("control.tar not found in package")
	}
	if !haveData {
		return nil, fmt.Errorf("data.tar not found in package")
	}
	return pkg, nil
}

// tarReader wraps an archive member in the decompressor its file name
// suffix calls for and returns a tar reader over the result.
func tarReader(name string, r io.Reader) (*tar.Reader, func(), error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return tar.NewReader(gr), func() { gr.Close() }, nil
	case strings.HasSuffix(name, ".xz"):
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return tar.NewReader(xr), func() {}, nil
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return tar.NewReader(zr), zr.Close, nil
	case strings.HasSuffix(name, ".bz2"):
		return tar.NewReader(bzip2.NewReader(r)), func() {}, nil
	case strings.HasSuffix(name, ".lzma"):
		lr, err := lzma.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return tar.NewReader(lr), func() {}, nil
	default:
		return tar.NewReader(r), func() {}, nil
	}
}

// extractControlTar reads the control archive: the control file itself,
// maintainer scripts and the conffiles list.
func extractControlTar(r io.Reader, name string, pkg *models.ExtractedPackage) error {
	tr, closeReader, err := tarReader(name, r)
	if err != nil {
		return err
	}
	defer closeReader()

	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}

		member := strings.TrimPrefix(path.Clean(header.Name), "./")
		if member == "" || member == "." || strings.Contains(member, "/") {
			continue
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			return err
		}

		switch member {
		case "control":
			pkg.RawControl = data
		case "preinst":
			pkg.Scripts.PreInstall = string(data)
		case "postinst":
			pkg.Scripts.PostInstall = string(data)
		case "prerm":
			pkg.Scripts.PreRemove = string(data)
		case "postrm":
			pkg.Scripts.PostRemove = string(data)
		case "conffiles":
			for _, line := range strings.Split(string(data), "\n") {
				line = strings.TrimSpace(line)
				if line != "" {
					pkg.Conffiles = append(pkg.Conffiles, line)
				}
			}
		}

		// Keep a copy on disk for inspection
		if err := os.WriteFile(filepath.Join(pkg.ControlDir, member), data, 0o644); err != nil {
			return err
		}
	}

	if pkg.RawControl == nil {
		return fmt.Errorf("control file not found in control.tar")
	}
	return nil
}

// extractDataTar unpacks the filesystem payload under destDir and
// returns one entry per archive member, paths canonicalized to be
// "/"-rooted.
func extractDataTar(ctx context.Context, r io.Reader, name, destDir string) ([]models.FileEntry, error) {
	tr, closeReader, err := tarReader(name, r)
	if err != nil {
		return nil, err
	}
	defer closeReader()

	var entries []models.FileEntry
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rel := path.Clean(strings.TrimPrefix(header.Name, "./"))
		if rel == "." || rel == "/" || rel == "" {
			continue
		}
		if strings.HasPrefix(rel, "..") {
			return nil, fmt.Errorf("unsafe path %q in data.tar", header.Name)
		}
		rel = strings.TrimPrefix(rel, "/")
		dest := filepath.Join(destDir, filepath.FromSlash(rel))

		entry := models.FileEntry{
			Path:  "/" + rel,
			Mode:  header.Mode,
			UID:   header.Uid,
			GID:   header.Gid,
			Uname: header.Uname,
			Gname: header.Gname,
			Size:  header.Size,
		}

		switch header.Typeflag {
		case tar.TypeDir:
			entry.Type = models.EntryDir
			if err := os.MkdirAll(dest, header.FileInfo().Mode().Perm()); err != nil {
				return nil, err
			}
		case tar.TypeSymlink:
			entry.Type = models.EntrySymlink
			entry.LinkTarget = header.Linkname
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return nil, err
			}
			if err := os.Symlink(header.Linkname, dest); err != nil {
				return nil, err
			}
		case tar.TypeLink:
			entry.Type = models.EntryHardlink
			linkRel := strings.TrimPrefix(path.Clean(strings.TrimPrefix(header.Linkname, "./")), "/")
			entry.LinkTarget = "/" + linkRel
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return nil, err
			}
			if err := os.Link(filepath.Join(destDir, filepath.FromSlash(linkRel)), dest); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			entry.Type = models.EntryFile
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return nil, err
			}
			if err := writeEntry(dest, tr, header); err != nil {
				return nil, err
			}
		default:
			// devices and fifos have no place in a converted package
			logrus.Debugf("Skipping unsupported entry type %d: %s", header.Typeflag, header.Name)
			continue
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

func writeEntry(dest string, r io.Reader, header *tar.Header) error {
	mode := header.FileInfo().Mode()
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	// reapply setuid/setgid/sticky lost to the create call
	if mode&(os.ModeSetuid|os.ModeSetgid|os.ModeSticky) != 0 {
		return os.Chmod(dest, mode)
	}
	return nil
}
