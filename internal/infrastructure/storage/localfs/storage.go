// Package localfs archives uploaded source documents on the local disk so the
// review screen can fetch the original file alongside the extracted record.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type Archive struct {
	basePath string
}

// New creates the archive directory if needed. An empty base path is a
// configuration error: the caller decides whether archiving is enabled, not
// this package.
func New(basePath string) (*Archive, error) {
	if basePath == "" {
		return nil, fmt.Errorf("archive base path is empty")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{basePath: basePath}, nil
}

func (a *Archive) Save(_ context.Context, key string, data io.Reader) error {
	path, err := a.resolve(key)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}
	return nil
}

func (a *Archive) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := a.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive file: %w", err)
	}
	return f, nil
}

// resolve rejects keys that would escape the archive directory. Keys are
// generated server-side, but the check keeps the adapter safe on its own.
func (a *Archive) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return filepath.Join(a.basePath, key), nil
}
