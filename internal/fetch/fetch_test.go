package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestForTarget(t *testing.T) {
	if _, ok := ForTarget("https://example.org/pool/hello.deb").(*URLSource); !ok {
		t.Error("https target should use the URL source")
	}
	if _, ok := ForTarget("http://example.org/pool/hello.deb").(*URLSource); !ok {
		t.Error("http target should use the URL source")
	}
	if _, ok := ForTarget("/var/cache/apt/hello.deb").(*LocalSource); !ok {
		t.Error("path target should use the local source")
	}
	if _, ok := ForTarget("hello.deb").(*LocalSource); !ok {
		t.Error("relative path should use the local source")
	}
}

func TestLocalSourceFetch(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "deb2pac-fetch-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "hello.deb")
	if err := os.WriteFile(path, []byte("payload"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	src := NewLocalSource(path)
	got, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if got != path {
		t.Errorf("Expected %s back, got %s", path, got)
	}
	src.Cleanup()
	if _, err := os.Stat(path); err != nil {
		t.Error("Cleanup must not touch caller-owned files")
	}
}

func TestLocalSourceFetchMissing(t *testing.T) {
	src := NewLocalSource("/nonexistent/hello.deb")
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestLocalSourceFetchDirectory(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "deb2pac-fetch-test-")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	if _, err := NewLocalSource(tmpDir).Fetch(context.Background()); err == nil {
		t.Error("Expected an error for a directory target")
	}
}

func TestURLSourceFetch(t *testing.T) {
	payload := []byte("fake package bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pool/hello_2.10-3_amd64.deb" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer server.Close()

	src := NewURLSource(server.URL + "/pool/hello_2.10-3_amd64.deb")
	localPath, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if got := filepath.Base(localPath); got != "hello_2.10-3_amd64.deb" {
		t.Errorf("Expected filename from URL, got %s", got)
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("Downloaded file unreadable: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("Downloaded content mismatch: %q", data)
	}

	src.Cleanup()
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Error("Cleanup should remove the download directory")
	}
}

func TestURLSourceFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	src := NewURLSource(server.URL + "/missing.deb")
	defer src.Cleanup()
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Error("Expected an error for a 404 response")
	}
}
