package patch

import (
	"strings"
	"unicode"
)

// Fuzz penalties for the matching tiers. Only their ordering matters.
const (
	FuzzExact       = 0
	FuzzRightTrim   = 1
	FuzzTrim        = 100
	FuzzEOFFallback = 10000

	// FuzzAnchorTrim is charged when an @@ anchor only matches after trimming.
	FuzzAnchorTrim = 1
)

// findContext finds the best match for a set of context lines within a file.
// It returns the match index (or -1) and the fuzz the match cost.
func findContext(lines []string, context []string, start int, eof bool) (int, int) {
	if !eof {
		return findContextCore(lines, context, start)
	}

	// Anchor at the end of the file first
	tail := len(lines) - len(context)
	if tail >= 0 && tail >= start {
		if newIndex, fuzz := findContextCore(lines, context, tail); newIndex != -1 {
			return newIndex, fuzz
		}
	}

	newIndex, fuzz := findContextCore(lines, context, start)
	if newIndex == -1 {
		return -1, 0
	}
	return newIndex, fuzz + FuzzEOFFallback
}

// findContextCore tries exact, right-trimmed and fully trimmed comparison, in
// that order, over every window starting at or after start.
func findContextCore(lines []string, context []string, start int) (int, int) {
	if len(context) == 0 {
		return start, FuzzExact
	}

	if i := scanWindows(lines, context, start, identity); i != -1 {
		return i, FuzzExact
	}
	if i := scanWindows(lines, context, start, trimRight); i != -1 {
		return i, FuzzRightTrim
	}
	if i := scanWindows(lines, context, start, strings.TrimSpace); i != -1 {
		return i, FuzzTrim
	}

	return -1, 0
}

func scanWindows(lines, context []string, start int, norm func(string) string) int {
	if start < 0 {
		start = 0
	}
	for i := start; i <= len(lines)-len(context); i++ {
		match := true
		for j := range context {
			if norm(lines[i+j]) != norm(context[j]) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// findAnchor scans forward from start for a skip-ahead anchor line. It returns
// the index just past the anchor and the fuzz spent, or start and -1 when the
// anchor does not occur.
func findAnchor(lines []string, anchor string, start int) (int, int) {
	for i := start; i < len(lines); i++ {
		if lines[i] == anchor {
			return i + 1, FuzzExact
		}
	}

	trimmed := strings.TrimSpace(anchor)
	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == trimmed {
			return i + 1, FuzzAnchorTrim
		}
	}

	return start, -1
}

func identity(s string) string { return s }

func trimRight(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
