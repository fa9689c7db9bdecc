package image

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Key layout is load-bearing: prefix deletion in Delete and the
// idempotency of ExecuteResize both rely on it.
const keyFormat = "images/%s/%d/%s"

var invalidKeyChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// StorageKey derives the blob key for one rendition. Deterministic and
// pure: re-deriving for the same (id, fileName, height) always yields
// the same key.
func StorageKey(id uuid.UUID, fileName string, height int) string {
	normalized := invalidKeyChars.ReplaceAllString(fileName, "_")
	if normalized == "" {
		normalized = "_"
	}

	return fmt.Sprintf(keyFormat, id, height, normalized)
}

// StoragePrefix is the common prefix of every rendition key of one
// image; prefix deletion enumerates blobs under it.
func StoragePrefix(id uuid.UUID) string {
	return fmt.Sprintf("images/%s/", id)
}
