package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dir stores quote images in a flat local directory. Files keep their
// original basename; a colliding name gets an incrementing numeric prefix
// (1_name, 2_name, ...). Name resolution and reservation happen under mu so
// two concurrent saves cannot land on the same name.
type Dir struct {
	root string
	mu   sync.Mutex
}

// NewDir creates an image directory rooted at root.
func NewDir(root string) (*Dir, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("image dir root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &Dir{root: abs}, nil
}

// Root returns the absolute directory path.
func (d *Dir) Root() string {
	return d.root
}

// Save streams r into the directory under a collision-free variant of
// filename and returns the stored name. The bytes land in tmp/ first and
// only reach their final name by rename, so a failed save leaves no
// partial file behind.
func (d *Dir) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if d == nil {
		return "", fmt.Errorf("image dir is not configured")
	}
	if r == nil {
		return "", fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	base, err := cleanBasename(filename)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Join(d.root, "tmp"), "save-*")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		cleanup()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", err
	}

	name, err := d.reserveName(base)
	if err != nil {
		_ = os.Remove(tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, filepath.Join(d.root, name)); err != nil {
		_ = os.Remove(filepath.Join(d.root, name))
		_ = os.Remove(tmpPath)
		return "", err
	}

	return name, nil
}

// reserveName resolves the first free variant of base and creates it
// exclusively so no concurrent save can claim the same name.
func (d *Dir) reserveName(base string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	name := base
	for counter := 1; ; counter++ {
		f, err := os.OpenFile(filepath.Join(d.root, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_ = f.Close()
			return name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", err
		}
		name = fmt.Sprintf("%d_%s", counter, base)
	}
}

// Path returns the absolute path of a stored image name.
func (d *Dir) Path(name string) (string, error) {
	base, err := cleanBasename(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, base), nil
}

// Open returns a reader for a stored image.
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	path, err := d.Path(name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Exists reports whether a stored image name is present on disk.
func (d *Dir) Exists(name string) (bool, error) {
	path, err := d.Path(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Remove deletes a stored image. Returns os.ErrNotExist when the file was
// already gone so callers can report the inconsistency.
func (d *Dir) Remove(name string) error {
	path, err := d.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func cleanBasename(filename string) (string, error) {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid image filename %q", filename)
	}
	if base == "tmp" {
		return "", fmt.Errorf("reserved image filename %q", filename)
	}
	return base, nil
}
