package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local stores files under a directory that the server exposes statically.
type Local struct {
	root    string
	baseURL string
}

// NewLocal creates root if needed. Files are served at baseURL/<folder>/<name>.
func NewLocal(root, baseURL string) (*Local, error) {
	if root == "" {
		return nil, fmt.Errorf("storage/local: upload dir is empty")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: create %s: %w", root, err)
	}
	if baseURL == "" {
		baseURL = "/uploads"
	}
	return &Local{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the directory files are written to.
func (l *Local) Root() string { return l.root }

// BaseURL returns the URL prefix returned by Save.
func (l *Local) BaseURL() string { return l.baseURL }

func (l *Local) Save(_ context.Context, folder, filename string, r io.Reader, _ string) (string, error) {
	if strings.ContainsAny(filename, `/\`) || strings.Contains(folder, "..") {
		return "", fmt.Errorf("storage/local: invalid path %s/%s", folder, filename)
	}
	dir := filepath.Join(l.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return "", fmt.Errorf("storage/local: create: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("storage/local: write: %w", err)
	}
	return l.baseURL + "/" + folder + "/" + filename, nil
}

func (l *Local) Delete(_ context.Context, ref string) error {
	rel, ok := strings.CutPrefix(ref, l.baseURL+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(l.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", rel, err)
	}
	return nil
}
