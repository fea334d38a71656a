// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package blob

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Directory and file modes for the uploads tree.
const (
	dirMode = 0o755
	// permissiveDirMode is the one-shot retry mode used when the default
	// mode is rejected on shared volumes with restrictive umasks.
	permissiveDirMode = 0o777
	fileMode          = 0o644
)

// FS is the filesystem-backed [Store] implementation.
//
// All blobs live under a single root directory handed in by the host process;
// references returned by Save are relative to that root. Concurrent writers
// never collide because every file name embeds its owner ID, position, and a
// write-time timestamp.
type FS struct {
	root   string
	logger *slog.Logger
}

// NewFS constructs a filesystem blob store rooted at root.
func NewFS(root string, logger *slog.Logger) *FS {
	return &FS{root: root, logger: logger}
}

/*
Save decodes the data URI and writes the bytes to {root}/{folder}/{name}{ext}.

Description: Every missing ancestor directory is created. A permission failure
on directory creation is retried once with a more permissive mode before the
operation is abandoned. The returned reference uses forward slashes regardless
of the host OS so it can be stored and served unchanged.

Parameters:
  - ctx: context.Context (honored between I/O steps)
  - dataURI: string
  - folder: string (forward-slash logical scope)
  - name: string (file name stem, no extension)

Returns:
  - string: "{folder}/{name}{ext}"
  - error: ErrInvalidPayload or ErrStorageUnavailable
*/
func (store *FS) Save(ctx context.Context, dataURI, folder, name string) (string, error) {

	// 1. Decode and validate before touching the disk
	decoded, extension, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	// 2. Ensure the target directory exists
	directory := filepath.Join(store.root, filepath.FromSlash(folder))
	if err := os.MkdirAll(directory, dirMode); err != nil {
		if !errors.Is(err, fs.ErrPermission) {
			return "", store.unavailable("mkdir", folder, err)
		}

		// Retry once with a permissive mode before giving up
		if err := os.MkdirAll(directory, permissiveDirMode); err != nil {
			return "", store.unavailable("mkdir_retry", folder, err)
		}
	}

	// 3. Write the decoded bytes
	fileName := name + extension
	if err := os.WriteFile(filepath.Join(directory, fileName), decoded, fileMode); err != nil {
		return "", store.unavailable("write", folder, err)
	}

	reference := path.Join(folder, fileName)

	store.logger.Debug("blob_stored",
		slog.String("ref", reference),
		slog.Int("bytes", len(decoded)),
	)

	return reference, nil
}

/*
Remove deletes the blob behind a reference.

Description: Missing files are treated as success so that repeated cleanup of
the same reference is idempotent. Any other I/O error is logged and swallowed;
row deletion is the source of truth and must never be blocked by blob cleanup.
*/
func (store *FS) Remove(ctx context.Context, ref string) error {

	// Reject references that escape the uploads root
	clean := path.Clean(ref)
	if clean == "." || strings.HasPrefix(clean, "..") || path.IsAbs(clean) {
		store.logger.Warn("blob_remove_rejected", slog.String("ref", ref))
		return nil
	}

	err := os.Remove(filepath.Join(store.root, filepath.FromSlash(clean)))
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	store.logger.Warn("blob_remove_failed",
		slog.String("ref", ref),
		slog.Any("error", err),
	)

	return nil
}

// unavailable logs the underlying cause and returns the client-safe sentinel.
func (store *FS) unavailable(step, folder string, cause error) error {
	store.logger.Error("blob_store_failed",
		slog.String("step", step),
		slog.String("folder", folder),
		slog.Any("error", cause),
	)
	return ErrStorageUnavailable
}
