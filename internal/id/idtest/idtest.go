// Package idtest provides deterministic id generators for tests.
package idtest

import "strconv"

// Sequence returns a generator yielding prefix-1, prefix-2, ...
func Sequence(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}
