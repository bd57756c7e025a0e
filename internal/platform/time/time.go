// Package time contains time related helpers
package time

import "time"

// Stamp renders t the way timestamps travel on the wire: UTC, RFC3339 with nanoseconds
func Stamp(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// ParseStamp is the inverse of Stamp; any RFC3339 offset is accepted
func ParseStamp(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

// Latest returns the later of a and b
func Latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
