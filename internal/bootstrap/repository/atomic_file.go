// Package repository persists the secrets record and writes derived artifacts
// to the filesystem. Every write goes through a temp file in the destination
// directory and a rename, so readers see either the old file or the new one.
package repository

import (
	"context"
	"os"
	"path/filepath"

	"github.com/strichliste/bootstrap/internal/bootstrap/domain"
	apperrors "github.com/strichliste/bootstrap/internal/errors"
)

// writeFileAtomic writes data to a temp file next to path, syncs it and renames
// it over path. The temp file is closed and removed on every failure path.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	closed := false
	defer func() {
		if !closed {
			_ = tmp.Close()
		}
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// FileArtifactWriter writes derived artifacts atomically.
type FileArtifactWriter struct{}

// NewFileArtifactWriter creates an artifact writer.
func NewFileArtifactWriter() *FileArtifactWriter {
	return &FileArtifactWriter{}
}

// Write replaces the file at path with content.
func (w *FileArtifactWriter) Write(ctx context.Context, path string, content []byte, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := writeFileAtomic(path, content, perm); err != nil {
		return apperrors.Join(domain.ErrPersistence, err)
	}
	return nil
}
