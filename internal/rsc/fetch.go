package rsc

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const userAgent = "sim-maps/1 (+resource fetch)"

// Fetch downloads a zip resource pack from url and extracts it into d. It returns the
// extracted file paths.
func Fetch(ctx context.Context, client *http.Client, url string, d Dir) ([]string, error) {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	tmp, err := os.CreateTemp("", "sim-maps-rsc-*.zip")
	if err != nil {
		return nil, fmt.Errorf("rsc: fetch: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("rsc: fetch: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rsc: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rsc: fetch %s: HTTP %d", url, resp.StatusCode)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, fmt.Errorf("rsc: fetch: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("rsc: fetch: %w", err)
	}
	return Unzip(tmp.Name(), string(d))
}

// Unzip extracts zipPath into destDir, preserving directory structure. Entries that would
// land outside destDir are skipped.
func Unzip(zipPath, destDir string) (extracted []string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("rsc: unzip: %w", err)
	}
	defer r.Close()
	absDir, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("rsc: unzip: %w", err)
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("rsc: unzip: %w", err)
	}
	for _, f := range r.File {
		dest := filepath.Join(absDir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(dest, absDir+string(os.PathSeparator)) {
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return extracted, fmt.Errorf("rsc: unzip: %w", err)
			}
			continue
		}
		if err := extractFile(f, dest); err != nil {
			return extracted, err
		}
		extracted = append(extracted, dest)
	}
	return extracted, nil
}

func extractFile(f *zip.File, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("rsc: unzip: %w", err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("rsc: unzip %s: %w", f.Name, err)
	}
	defer rc.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("rsc: unzip: %w", err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("rsc: unzip %s: %w", f.Name, err)
	}
	return out.Close()
}
