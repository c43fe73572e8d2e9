package pacman

import (
	"bytes"
	"strings"

	"deb2pac/internal/models"
)

// RenderInstall translates the source's maintainer scripts into the
// install-script functions the target package manager runs. The
// install-time scripts double as upgrade hooks, matching how the
// source distribution invokes them on upgrades. Returns nil when there
// is nothing to emit.
func RenderInstall(s models.Scripts) []byte {
	if s.Empty() {
		return nil
	}

	var buf bytes.Buffer
	write := func(fn, body string) {
		if body == "" {
			return
		}
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(fn + "() {\n")
		buf.WriteString(strings.TrimRight(stripShebang(body), "\n"))
		buf.WriteString("\n}\n")
	}

	write("pre_install", s.PreInstall)
	write("post_install", s.PostInstall)
	write("pre_upgrade", s.PreInstall)
	write("post_upgrade", s.PostInstall)
	write("pre_remove", s.PreRemove)
	write("post_remove", s.PostRemove)
	return buf.Bytes()
}

// stripShebang drops an interpreter line; the functions run under the
// package manager's shell.
func stripShebang(s string) string {
	if strings.HasPrefix(s, "#!") {
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			return s[i+1:]
		}
		return ""
	}
	return s
}
