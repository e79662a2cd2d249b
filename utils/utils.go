package utils

import (
	"crypto/md5"
	"sort"
	"strings"

	"github.com/gofrs/uuid"
)

// GenUuidFromStrings derives a version 3 style uuid from parts. Parts are
// sorted first, so the result does not depend on argument order.
func GenUuidFromStrings(parts ...string) string {
	if len(parts) == 0 {
		parts = []string{uuid.Nil.String()}
	}

	sorted := make([]string, len(parts))
	copy(sorted, parts)
	sort.Strings(sorted)

	return uuidHash([]byte(strings.Join(sorted, ""))).String()
}

// GenOrderedUuid is GenUuidFromStrings without the sort: ("a", "b") and
// ("b", "a") give different ids.
func GenOrderedUuid(parts ...string) uuid.UUID {
	return uuidHash([]byte(strings.Join(parts, "#")))
}

func uuidHash(b []byte) uuid.UUID {
	sum := md5.Sum(b)
	sum[6] = (sum[6] & 0x0f) | 0x30
	sum[8] = (sum[8] & 0x3f) | 0x80
	return uuid.FromBytesOrNil(sum[:])
}
