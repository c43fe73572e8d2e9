package fetch

import (
	"context"
	"strings"
)

// Source hands the pipeline a local file to convert and cleans up
// anything it materialized to get there.
type Source interface {
	// Fetch returns a local path to the package file.
	Fetch(ctx context.Context) (string, error)
	// Cleanup removes whatever Fetch downloaded. Always safe to call.
	Cleanup()
}

// ForTarget picks a source for a target string: http(s) URLs download,
// everything else is treated as a local path.
func ForTarget(target string) Source {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return NewURLSource(target)
	}
	return NewLocalSource(target)
}
