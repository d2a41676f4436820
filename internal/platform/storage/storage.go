// Copyright (c) 2026 Galleria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides byte-level access to the media filesystem namespace.

It abstracts the physical location of media artifacts behind a small
interface so the derivation engine and archive exporter never touch the
filesystem directly.

Core Responsibilities:

  - Addressing: Paths are always relative to the media root ("pictures/...").
  - URL Mapping: Translates storage paths into public URLs for API responses.
  - Exclusivity: CreateExclusive implements O_EXCL semantics so two writers
    can never silently corrupt the same artifact.
*/
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// # Storage Contract

// Storage is the byte-level file access contract used by the media
// derivation engine and the archive exporter.
type Storage interface {

	// Write stores data at the given storage path, creating parent
	// directories as needed. An existing file is overwritten.
	Write(path string, data []byte) error

	// Read returns the full contents of the file at the given storage path.
	Read(path string) ([]byte, error)

	// Open returns a reader over the file at the given storage path.
	Open(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at the given storage path.
	Exists(path string) bool

	// Remove deletes the file at the given storage path. Removing a
	// missing file is not an error.
	Remove(path string) error

	// Size returns the byte size of the file, or an error if unavailable.
	Size(path string) (int64, error)

	// URLFor maps a storage path onto its public URL.
	URLFor(path string) string

	// CreateExclusive opens a new file for writing, failing with
	// [os.ErrExist] if the path already exists. Parent directories are
	// created as needed.
	CreateExclusive(path string) (io.WriteCloser, error)

	// CopyFrom copies a local filesystem file into the given storage path.
	CopyFrom(localPath, path string) error

	// MoveFrom moves a local filesystem file into the given storage path.
	MoveFrom(localPath, path string) error
}

// # Local Disk Implementation

// Local stores media artifacts under a single root directory on local disk.
type Local struct {
	root    string
	baseURL string
}

// NewLocal constructs a disk-backed [Storage] rooted at root.
//
// # Parameters
//   - root: Filesystem directory holding all media artifacts.
//   - baseURL: Public URL prefix that maps onto root (e.g. "/media").
func NewLocal(root, baseURL string) *Local {
	return &Local{
		root:    filepath.Clean(root),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// abs resolves a storage path to an absolute filesystem path.
func (l *Local) abs(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

// Write stores data at path, creating parent directories as needed.
func (l *Local) Write(path string, data []byte) error {
	target := l.abs(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", path, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", path, err)
	}
	return nil
}

// Read returns the contents of the file at path.
func (l *Local) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(l.abs(path))
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// Open returns a reader over the file at path.
func (l *Local) Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(l.abs(path))
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	return file, nil
}

// Exists reports whether a file exists at path.
func (l *Local) Exists(path string) bool {
	info, err := os.Stat(l.abs(path))
	return err == nil && !info.IsDir()
}

// Remove deletes the file at path. A missing file is not an error.
func (l *Local) Remove(path string) error {
	if err := os.Remove(l.abs(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", path, err)
	}
	return nil
}

// Size returns the byte size of the file at path.
func (l *Local) Size(path string) (int64, error) {
	info, err := os.Stat(l.abs(path))
	if err != nil {
		return 0, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// URLFor maps a storage path onto its public URL.
func (l *Local) URLFor(path string) string {
	return l.baseURL + "/" + strings.TrimPrefix(path, "/")
}

// CreateExclusive opens path for writing with O_EXCL semantics.
//
// The caller owns the returned handle and must Close it. If the file
// already exists the call fails with an error satisfying
// errors.Is(err, os.ErrExist).
func (l *Local) CreateExclusive(path string) (io.WriteCloser, error) {
	target := l.abs(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir for %s: %w", path, err)
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: exclusive create %s: %w", path, err)
	}
	return file, nil
}

// CopyFrom copies a local filesystem file into storage at path.
func (l *Local) CopyFrom(localPath, path string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("storage: read source %s: %w", localPath, err)
	}
	return l.Write(path, data)
}

// MoveFrom moves a local filesystem file into storage at path.
//
// A rename is attempted first; cross-device moves fall back to copy+delete.
func (l *Local) MoveFrom(localPath, path string) error {
	target := l.abs(path)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("storage: mkdir for %s: %w", path, err)
	}
	if err := os.Rename(localPath, target); err == nil {
		return nil
	}
	if err := l.CopyFrom(localPath, path); err != nil {
		return err
	}
	if err := os.Remove(localPath); err != nil {
		return fmt.Errorf("storage: remove source %s: %w", localPath, err)
	}
	return nil
}
