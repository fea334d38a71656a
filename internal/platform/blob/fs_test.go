// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

package blob_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plcastro/mangario/internal/platform/blob"
)

// discard silences blob store logging in tests.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// dataURI builds a valid base64 image payload for tests.
func dataURI(mime string, payload []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(payload)
}

/*
TestFS_Save_JPEG verifies the happy path for a JPEG payload.
*/
func TestFS_Save_JPEG(t *testing.T) {
	root := t.TempDir()
	store := blob.NewFS(root, discard)

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	// 1. Save the payload under a chapter folder
	ref, err := store.Save(context.Background(), dataURI("image/jpeg", payload),
		"capitulos/ch-1", "pagina_ch-1_1_1700000000000")
	require.NoError(t, err)

	// 2. Reference is a forward-slash path with the default .jpg extension
	assert.Equal(t, "capitulos/ch-1/pagina_ch-1_1_1700000000000.jpg", ref)

	// 3. The decoded bytes are on disk at the referenced location
	written, err := os.ReadFile(filepath.Join(root, "capitulos", "ch-1", "pagina_ch-1_1_1700000000000.jpg"))
	require.NoError(t, err)
	assert.Equal(t, payload, written)
}

/*
TestFS_Save_PNG verifies the extension is derived from the declared MIME type.
*/
func TestFS_Save_PNG(t *testing.T) {
	store := blob.NewFS(t.TempDir(), discard)

	ref, err := store.Save(context.Background(), dataURI("image/png", []byte{0x89, 0x50}),
		"capas/m-1", "capa_m-1_1700000000000")
	require.NoError(t, err)

	assert.Equal(t, "capas/m-1/capa_m-1_1700000000000.png", ref)
}

/*
TestFS_Save_InvalidPayload covers the malformed inputs rejected before I/O.
*/
func TestFS_Save_InvalidPayload(t *testing.T) {
	root := t.TempDir()
	store := blob.NewFS(root, discard)

	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"missing_marker", "base64,aGVsbG8="},
		{"missing_comma", "data:image/png;base64"},
		{"empty_body", "data:image/png;base64,"},
		{"invalid_base64", "data:image/png;base64,@@not-base64@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Save(context.Background(), tt.payload, "capitulos/x", "pagina")
			assert.True(t, errors.Is(err, blob.ErrInvalidPayload))
		})
	}

	// No file may be left behind by a rejected payload
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

/*
TestFS_Save_StorageUnavailable covers disk failures after a valid payload was
decoded: they must surface as ErrStorageUnavailable, never ErrInvalidPayload.
*/
func TestFS_Save_StorageUnavailable(t *testing.T) {
	payload := dataURI("image/jpeg", []byte{0xFF, 0xD8})

	t.Run("directory creation blocked by a file", func(t *testing.T) {
		root := t.TempDir()
		store := blob.NewFS(root, discard)

		// A regular file squats on the folder path, so MkdirAll cannot succeed
		require.NoError(t, os.WriteFile(filepath.Join(root, "capitulos"), []byte("squatter"), 0o644))

		_, err := store.Save(context.Background(), payload, "capitulos/ch-3", "pagina_ch-3_1_1700000000000")

		assert.True(t, errors.Is(err, blob.ErrStorageUnavailable))
		assert.False(t, errors.Is(err, blob.ErrInvalidPayload))
	})

	t.Run("write blocked by a directory at the file path", func(t *testing.T) {
		root := t.TempDir()
		store := blob.NewFS(root, discard)

		// A directory squats on the exact target file path
		require.NoError(t, os.MkdirAll(filepath.Join(root, "capitulos", "ch-4", "pagina_ch-4_1_1700000000000.jpg"), 0o755))

		_, err := store.Save(context.Background(), payload, "capitulos/ch-4", "pagina_ch-4_1_1700000000000")

		assert.True(t, errors.Is(err, blob.ErrStorageUnavailable))
	})

	t.Run("permission failure triggers the permissive retry", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root bypasses directory permissions")
		}

		root := t.TempDir()
		var logged bytes.Buffer
		store := blob.NewFS(root, slog.New(slog.NewTextHandler(&logged, nil)))

		// A read-only parent denies both the initial and the retried MkdirAll
		parent := filepath.Join(root, "capitulos")
		require.NoError(t, os.MkdirAll(parent, 0o755))
		require.NoError(t, os.Chmod(parent, 0o555))
		defer os.Chmod(parent, 0o755)

		_, err := store.Save(context.Background(), payload, "capitulos/ch-5", "pagina_ch-5_1_1700000000000")

		assert.True(t, errors.Is(err, blob.ErrStorageUnavailable))
		assert.Contains(t, logged.String(), "mkdir_retry", "the permissive-mode retry must have run")
	})
}

/*
TestFS_Remove_Idempotent verifies that removing a reference twice succeeds.
*/
func TestFS_Remove_Idempotent(t *testing.T) {
	store := blob.NewFS(t.TempDir(), discard)

	ref, err := store.Save(context.Background(), dataURI("image/jpeg", []byte{1, 2, 3}),
		"capitulos/ch-2", "pagina_ch-2_1_1700000000000")
	require.NoError(t, err)

	// 1. First removal deletes the file
	require.NoError(t, store.Remove(context.Background(), ref))

	// 2. Second removal of the same reference is silently successful
	require.NoError(t, store.Remove(context.Background(), ref))
}

/*
TestFS_Remove_RejectsTraversal verifies references cannot escape the root.
*/
func TestFS_Remove_RejectsTraversal(t *testing.T) {
	root := t.TempDir()
	store := blob.NewFS(root, discard)

	outside := filepath.Join(filepath.Dir(root), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
	defer os.Remove(outside)

	require.NoError(t, store.Remove(context.Background(), "../victim.txt"))

	// The file outside the uploads root must survive
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
