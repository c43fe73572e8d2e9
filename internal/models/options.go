package models

import "time"

// ConvertOptions contains the runtime options for a conversion run.
// CLI flags and the config file both feed into this; flags win.
type ConvertOptions struct {
	// Input/Output
	OutputDir string

	// Behavior
	IncludeScripts bool // translate maintainer scripts into an install file
	KeepWorkDir    bool // leave the work directory behind for inspection
	UsePkgfile     bool // allow pkgfile lookups for unresolved names

	// External tools
	ToolTimeout time.Duration // per-invocation limit, 0 means the default

	// CLI behavior
	Install bool // run pacman -U on the produced package
}
