package pacman

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"

	"deb2pac/internal/models"
)

// Packer turns a prepared package root into a package file.
type Packer interface {
	Pack(ctx context.Context, root, outputPath string) error
}

// BsdtarPacker packs with bsdtar under fakeroot, so archive entries
// come out root-owned without the process holding any privileges.
type BsdtarPacker struct {
	bsdtar   string
	fakeroot string
	timeout  time.Duration
}

// NewBsdtarPacker locates the external tools. A missing tool surfaces
// as an ExternalToolError naming it.
func NewBsdtarPacker(timeout time.Duration) (*BsdtarPacker, error) {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	bsdtar, err := exec.LookPath("bsdtar")
	if err != nil {
		return nil, &models.ExternalToolError{Tool: "bsdtar", ExitCode: -1, Err: err}
	}
	fakeroot, err := exec.LookPath("fakeroot")
	if err != nil {
		return nil, &models.ExternalToolError{Tool: "fakeroot", ExitCode: -1, Err: err}
	}
	return &BsdtarPacker{bsdtar: bsdtar, fakeroot: fakeroot, timeout: timeout}, nil
}

// Pack writes the .MTREE manifest inside root, archives the root's
// contents and compresses the stream into outputPath.
func (p *BsdtarPacker) Pack(ctx context.Context, root, outputPath string) error {
	if err := p.writeMtree(ctx, root); err != nil {
		return err
	}
	return p.writeArchive(ctx, root, outputPath)
}

func (p *BsdtarPacker) writeMtree(ctx context.Context, root string) error {
	members, err := packageMembers(root, false)
	if err != nil {
		return err
	}

	logrus.Debugf("Writing .MTREE for %d members", len(members))
	args := []string{"--", p.bsdtar, "-czf", ".MTREE", "--format=mtree",
		"--options=!all,use-set,type,uid,gid,mode,time,size,md5,sha256,link"}
	args = append(args, members...)
	return p.run(ctx, "bsdtar", args, root, nil)
}

func (p *BsdtarPacker) writeArchive(ctx context.Context, root, outputPath string) error {
	members, err := packageMembers(root, true)
	if err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	zw, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		return err
	}

	args := append([]string{"--", p.bsdtar, "-cf", "-"}, members...)
	if err := p.run(ctx, "bsdtar", args, root, zw); err != nil {
		zw.Close()
		out.Close()
		os.Remove(outputPath)
		return err
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finish compression: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// run executes bin under fakeroot with a per-invocation timeout.
func (p *BsdtarPacker) run(ctx context.Context, tool string, args []string, dir string, stdout io.Writer) error {
	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, p.fakeroot, args...)
	cmd.Dir = dir
	cmd.Stdout = stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &models.ExternalToolError{
			Tool:     tool,
			ExitCode: exitCode,
			Stderr:   stderrTail(stderr.String()),
			Err:      err,
		}
	}
	return nil
}

// packageMembers lists the root's entries in pack order: metadata files
// first, then the payload directories.
func packageMembers(root string, withMtree bool) ([]string, error) {
	items, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(items))
	var payload []string
	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			present[name] = true
			continue
		}
		payload = append(payload, name)
	}

	var members []string
	for _, name := range []string{".PKGINFO", ".INSTALL", ".MTREE"} {
		if name == ".MTREE" && !withMtree {
			continue
		}
		if present[name] {
			members = append(members, name)
		}
	}
	return append(members, payload...), nil
}

func stderrTail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 400 {
		s = s[len(s)-400:]
	}
	return s
}
