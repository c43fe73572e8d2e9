package pacman

import "strings"

// Source-to-target architecture names. Debian and RPM spellings both
// appear so either source format maps cleanly.
var archNames = map[string]string{
	"i386":    "i686",
	"i586":    "i686",
	"i686":    "i686",
	"amd64":   "x86_64",
	"x86_64":  "x86_64",
	"armhf":   "armv7h",
	"armv7hl": "armv7h",
	"arm64":   "aarch64",
	"aarch64": "aarch64",
	"armel":   "arm",
	"all":     "any",
	"noarch":  "any",
	"any":     "any",
}

// TargetArch maps a source architecture name onto the target's set.
// Unrecognized values degrade to "any".
func TargetArch(arch string) string {
	if t, ok := archNames[strings.ToLower(strings.TrimSpace(arch))]; ok {
		return t
	}
	return "any"
}
