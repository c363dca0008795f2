package dm

import (
	"strings"

	"github.com/google/uuid"
)

// Key derives the order-independent identifier of the 1:1 conversation
// between two users: the two IDs sorted lexicographically and joined with
// ":". Key(a, b) == Key(b, a) for all pairs, which is what makes the
// conversation lookup order-independent.
func Key(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// IsUUID reports whether s is a canonical UUID v1-v5 string. Wrong
// length, wrong variant or an out-of-range version is treated as
// malformed and callers degrade it to a not-found result rather than an
// error.
func IsUUID(s string) bool {
	if len(s) != 36 || strings.Count(s, "-") != 4 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	if u.Variant() != uuid.RFC4122 {
		return false
	}
	v := u.Version()
	return v >= 1 && v <= 5
}
