package db

import "strings"

// IsUniqueViolation reports whether the provided error references a sqlite
// unique constraint failure. When columnName is provided, the helper looks
// for the column text in the error message.
func IsUniqueViolation(err error, columnName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	if columnName != "" {
		return strings.Contains(msg, columnName)
	}
	return true
}

// IsLocked reports whether the store rejected the operation because another
// connection holds the write lock. This is the transient condition the
// retry wrapper recovers from.
func IsLocked(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
