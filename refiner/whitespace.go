package refiner

import (
	"regexp"
	"strings"
)

var excessBlankLinesRegex = regexp.MustCompile(`\n{4,}`)

// normalizeWhitespace guarantees a blank
// line surrounds every heading and fenced code block, and cap consecutive
// blank lines at two.
func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	ensureBlankBefore := func() {
		if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
			out = append(out, "")
		}
	}
	ensureBlankAfter := func(i int) {
		if i+1 < len(lines) && strings.TrimSpace(lines[i+1]) != "" {
			out = append(out, "")
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if !inFence {
				ensureBlankBefore()
			}
			out = append(out, line)
			inFence = !inFence
			if !inFence {
				ensureBlankAfter(i)
			}
			continue
		}

		if inFence {
			out = append(out, line)
			continue
		}

		if mdHeadingLineRegex.MatchString(line) {
			ensureBlankBefore()
			out = append(out, line)
			ensureBlankAfter(i)
			continue
		}

		out = append(out, line)
	}

	result := strings.Join(out, "\n")
	result = excessBlankLinesRegex.ReplaceAllString(result, "\n\n\n")
	return result
}
