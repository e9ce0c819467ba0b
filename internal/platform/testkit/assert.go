package testkit

import (
	"strings"
	"testing"
)

// excerpt keeps failure output readable when the haystack is a full log
func excerpt(s string) string {
	const max = 2048
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

// MustPanic fails unless fn panics
func MustPanic(t testing.TB, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	fn()
}

// MustContain fails unless haystack contains needle
func MustContain(t testing.TB, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("missing %q in:\n%s", needle, excerpt(haystack))
	}
}

// MustNotContain fails if haystack contains needle
func MustNotContain(t testing.TB, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("unexpected %q in:\n%s", needle, excerpt(haystack))
	}
}
