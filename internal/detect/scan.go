package detect

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Found is a convertible package file located during scanning.
type Found struct {
	Path   string
	Format Format
	Size   int64
}

// Scan recursively scans a directory for convertible packages.
func Scan(ctx context.Context, dir string) ([]Found, error) {
	var packages []Found

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Skip directories
		if info.IsDir() {
			return nil
		}

		format, err := File(path)
		if err != nil {
			logrus.Warnf("Failed to detect format for %s: %v", path, err)
			return nil
		}
		if format == FormatUnknown {
			return nil
		}

		logrus.Debugf("Found %s package: %s", format, path)
		packages = append(packages, Found{
			Path:   path,
			Format: format,
			Size:   info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Infof("Found %d packages in %s", len(packages), dir)
	return packages, nil
}
