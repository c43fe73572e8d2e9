package resolve

import (
	"context"
	"os"
	"os/exec"
	"path"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"deb2pac/internal/models"
)

// Pkgfile answers file-ownership queries through the pkgfile command.
// Its database is host state, so results vary between machines; the
// lookup is only wired in when explicitly requested.
type Pkgfile struct {
	path    string
	timeout time.Duration
}

// NewPkgfile returns a Pkgfile lookup, or nil when the command is not
// installed.
func NewPkgfile(timeout time.Duration) *Pkgfile {
	binPath, err := exec.LookPath("pkgfile")
	if err != nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Pkgfile{path: binPath, timeout: timeout}
}

// Owner implements FileLookup. Shared-object decorations like
// "()(64bit)" are stripped before querying; a binary-name search is
// tried before the general path search, matching how dependencies are
// usually spelled.
func (p *Pkgfile) Owner(ctx context.Context, name string) (string, bool) {
	query := name
	if i := strings.IndexByte(query, '('); i >= 0 {
		query = strings.TrimSpace(query[:i])
	}
	if query == "" {
		return "", false
	}

	for _, args := range [][]string{{"-b", path.Base(query)}, {query}} {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		out, err := exec.CommandContext(ctx, p.path, args...).Output()
		cancel()
		if err != nil {
			continue
		}
		// first line is "repo/package"
		line := strings.TrimSpace(strings.SplitN(string(out), "\n", 2)[0])
		if i := strings.LastIndexByte(line, '/'); i >= 0 {
			line = line[i+1:]
		}
		if line != "" {
			logrus.Debugf("pkgfile resolved %s to %s", name, line)
			return line, true
		}
	}
	return "", false
}

// Update refreshes the pkgfile database. The system cache directory
// normally needs root.
func (p *Pkgfile) Update(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, p.path, "-u")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		exitCode := -1
		if ee, ok := err.(*exec.ExitError); ok {
			exitCode = ee.ExitCode()
		}
		return &models.ExternalToolError{Tool: "pkgfile", ExitCode: exitCode, Err: err}
	}
	return nil
}
