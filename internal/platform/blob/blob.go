// Copyright (c) 2026 Mangario. All rights reserved.
// Author: p.castro.dev@gmail.com

/*
Package blob persists binary image payloads outside the relational database.

Clients upload images as base64 data URIs ("data:image/png;base64,...."); this
package decodes them, writes the bytes under a content-scoped directory, and
hands back a stable forward-slash reference (e.g.
"capitulos/{chapterID}/pagina_{chapterID}_2_1718000000000.jpg") that is stored
verbatim in the paginas/mangas rows and resolved by readers against the public
uploads base path.

# Consistency Model

Blob writes are NOT part of any relational transaction. The content writer
stores blobs first and compensates with best-effort deletes when the
surrounding database transaction fails, accepting transient orphan files over
dangling row references.
*/
package blob

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/plcastro/mangario/internal/platform/apperr"
)

// # Error Taxonomy

var (
	// ErrInvalidPayload signals a malformed or empty base64 image payload.
	// It is detected before any I/O takes place.
	ErrInvalidPayload = apperr.New("INVALID_PAYLOAD",
		"Image must be a base64 data URI (data:image/...;base64,...)",
		http.StatusBadRequest)

	// ErrStorageUnavailable signals an infrastructure failure while writing
	// to the backing store (disk full, permissions, ...).
	ErrStorageUnavailable = apperr.New("STORAGE_UNAVAILABLE",
		"Image storage is unavailable",
		http.StatusServiceUnavailable)
)

// # Storage Contract

// Store is the persistence contract for image payloads.
type Store interface {

	/*
		Save decodes a base64 data URI and persists it under folder with the
		given file name stem (the extension is derived from the declared MIME
		type: ".png" for image/png, ".jpg" otherwise).

		Parameters:
		  - ctx: context.Context
		  - dataURI: string (full "data:image/...;base64,..." payload)
		  - folder: string (logical scope, e.g. "capitulos/{chapterID}")
		  - name: string (file name stem including the caller's timestamp)

		Returns:
		  - string: Stable forward-slash reference relative to the uploads root
		  - error: ErrInvalidPayload or ErrStorageUnavailable
	*/
	Save(ctx context.Context, dataURI, folder, name string) (string, error)

	/*
		Remove deletes the blob identified by a reference previously returned
		by Save.

		Removal is best-effort and idempotent: a missing file is success, and
		other I/O failures are logged and swallowed so that blob cleanup can
		never block the relational deletion that triggered it.
	*/
	Remove(ctx context.Context, ref string) error
}

// # Payload Decoding

const (
	dataURIMarker = "data:image"
	pngMediaType  = "image/png"

	extPNG = ".png"
	extJPG = ".jpg"
)

// decodeDataURI validates and decodes a base64 image data URI.
// It returns the raw bytes and the file extension for the declared MIME type.
func decodeDataURI(dataURI string) ([]byte, string, error) {

	// 1. Structural validation: marker and base64 separator must be present
	if !strings.Contains(dataURI, dataURIMarker) {
		return nil, "", ErrInvalidPayload
	}

	header, encoded, found := strings.Cut(dataURI, ",")
	if !found || encoded == "" {
		return nil, "", ErrInvalidPayload
	}

	// 2. Extension selection from the declared media type
	extension := extJPG
	if strings.Contains(header, pngMediaType) {
		extension = extPNG
	}

	// 3. Base64 decoding
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(decoded) == 0 {
		return nil, "", ErrInvalidPayload
	}

	return decoded, extension, nil
}
