// Package columns maps free-text spreadsheet headers onto the roster fields
// the engine understands.
package columns

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and drops everything that is not a letter or digit.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Resolve returns the index of the first header matching one of candidates.
// Exact normalized matches win over substring matches; within a pass the
// leftmost header wins. ok is false when the field is absent.
func Resolve(headers []string, candidates []string) (int, bool) {
	norms := make([]string, len(candidates))
	for i, c := range candidates {
		norms[i] = Normalize(c)
	}

	normHeaders := make([]string, len(headers))
	for i, h := range headers {
		normHeaders[i] = Normalize(h)
	}

	for i, h := range normHeaders {
		if h == "" {
			continue
		}
		for _, c := range norms {
			if c != "" && h == c {
				return i, true
			}
		}
	}

	for i, h := range normHeaders {
		if h == "" {
			continue
		}
		for _, c := range norms {
			if c != "" && strings.Contains(h, c) {
				return i, true
			}
		}
	}

	return -1, false
}
