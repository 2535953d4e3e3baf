package models

import "regexp"

var userIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidUserID reports whether id is a well-formed user identifier.
func ValidUserID(id string) bool {
	return userIDPattern.MatchString(id)
}

// CanonicalPair orders two user ids under byte-wise string comparison so
// that an unordered pair always maps to the same (low, high) storage key.
// Every write path (create, duplicate lookup, count) must go through this
// so the unique index on (low_user_id, high_user_id) holds one row per pair.
func CanonicalPair(a, b string) (low, high string, err error) {
	if a == b {
		return "", "", ErrSelfRelationship
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}
