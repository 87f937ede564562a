package refiner

import (
	"regexp"
	"strings"
)

var (
	explicitHeadingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	allCapsHeadingRegex  = regexp.MustCompile(`^[A-Z][A-Z0-9 \-/&',]{1,49}$`)
	numberedSectionRegex = regexp.MustCompile(`^(\d+(?:\.\d+)+)\.?\s+(.+)$`)
)

// detectHeading recognizes the three supported heading forms
// (explicit "#", short all-caps lines, and dotted numbered sections) and
// returns the canonical "#"*level markdown form.
func detectHeading(line string, opts Options) (string, bool) {
	if !opts.PreserveHeadings {
		return "", false
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	if explicitHeadingRegex.MatchString(trimmed) {
		return trimmed, true
	}

	if m := numberedSectionRegex.FindStringSubmatch(trimmed); m != nil {
		level := clamp(strings.Count(m[1], ".")+1, opts.MinHeadingLevel, opts.MaxHeadingLevel)
		return strings.Repeat("#", level) + " " + m[2], true
	}

	if isAllCapsHeading(trimmed) {
		level := clamp(2, opts.MinHeadingLevel, opts.MaxHeadingLevel)
		return strings.Repeat("#", level) + " " + trimmed, true
	}

	return "", false
}

func isAllCapsHeading(s string) bool {
	if !allCapsHeadingRegex.MatchString(s) {
		return false
	}
	return !strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz")
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
