package similarity

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint returns a stable content hash of text, used as cache identity.
func Fingerprint(text string) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16)
}
