package repo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkordes/gas-calc/internal/domain"
)

// fileSnapshotRepo stores each snapshot as <dir>/<key>.json. The file holds
// the plain snapshot JSON, so a file exported from the browser can be loaded
// as is.
type fileSnapshotRepo struct {
	dir string
}

// NewFileSnapshotRepo constructs a SnapshotRepo writing one JSON file per key
// into dir. The directory is created on the first Save.
func NewFileSnapshotRepo(dir string) SnapshotRepo {
	return &fileSnapshotRepo{dir: dir}
}

// Load reads <dir>/<key>.json.
func (r *fileSnapshotRepo) Load(_ context.Context, key string) ([]byte, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, fmt.Errorf("repo.FileSnapshotRepo.Load: %w", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("repo.FileSnapshotRepo.Load: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("repo.FileSnapshotRepo.Load: %w", err)
	}
	return b, nil
}

// Save writes the blob to a temp file and renames it over <dir>/<key>.json,
// so a crash never leaves a half-written snapshot behind.
func (r *fileSnapshotRepo) Save(_ context.Context, key string, blob []byte) error {
	path, err := r.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileSnapshotRepo.Save: %w", err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("repo.FileSnapshotRepo.Save: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("repo.FileSnapshotRepo.Save: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		return fmt.Errorf("repo.FileSnapshotRepo.Save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("repo.FileSnapshotRepo.Save: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("repo.FileSnapshotRepo.Save: %w", err)
	}
	return nil
}

// Delete removes <dir>/<key>.json.
func (r *fileSnapshotRepo) Delete(_ context.Context, key string) error {
	path, err := r.path(key)
	if err != nil {
		return fmt.Errorf("repo.FileSnapshotRepo.Delete: %w", err)
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("repo.FileSnapshotRepo.Delete: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("repo.FileSnapshotRepo.Delete: %w", err)
	}
	return nil
}

// path maps key to its file. Keys that would escape dir are rejected.
func (r *fileSnapshotRepo) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: invalid snapshot key %q", domain.ErrValidation, key)
	}
	return filepath.Join(r.dir, key+".json"), nil
}
