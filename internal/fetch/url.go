package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// URLSource downloads a package over http(s) with retries before
// handing it to the pipeline.
type URLSource struct {
	url     string
	client  *retryablehttp.Client
	tempDir string
}

// NewURLSource returns a source that downloads the given URL.
func NewURLSource(url string) *URLSource {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil // progress goes through logrus instead

	return &URLSource{url: url, client: client}
}

// Fetch streams the file into a fresh temp directory and returns its
// local path.
func (s *URLSource) Fetch(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid download url: %w", err)
	}

	logrus.Infof("Downloading %s", s.url)
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: %s returned %s", s.url, resp.Status)
	}

	dir, err := os.MkdirTemp("", "deb2pac-fetch-")
	if err != nil {
		return "", err
	}
	s.tempDir = dir

	name := path.Base(req.URL.Path)
	if name == "" || name == "." || name == "/" {
		name = "package"
	}
	dest := filepath.Join(dir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	n, err := io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		return "", fmt.Errorf("download failed: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if resp.ContentLength > 0 && n != resp.ContentLength {
		return "", fmt.Errorf("short download: got %d of %d bytes", n, resp.ContentLength)
	}

	logrus.Debugf("Downloaded %d bytes to %s", n, dest)
	return dest, nil
}

// Cleanup removes the download directory.
func (s *URLSource) Cleanup() {
	if s.tempDir != "" {
		os.RemoveAll(s.tempDir)
		s.tempDir = ""
	}
}
