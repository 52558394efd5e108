package db

import "strings"

// IsUniqueViolation reports whether err looks like a Postgres unique
// constraint violation. A non-empty constraintName narrows the match to
// that constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value")
}
