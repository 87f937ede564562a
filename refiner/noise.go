package refiner

import (
	"regexp"
	"strings"
)

var (
	syntheticHeadingRegex = regexp.MustCompile(`(?m)^#{1,6}\s*Paragraph\s+\d+\s*$`)
	extraBlankLinesRegex  = regexp.MustCompile(`\n{3,}`)
	runOfSpacesRegex       = regexp.MustCompile(`[ \t]{2,}`)
)

// cleanNoise strips synthetic "Paragraph N" headings a format reader may
// have invented as placeholders, then collapses runs of three or more
// newlines to one blank line everywhere, and runs of spaces/tabs on lines
// outside ``` fenced code blocks.
func cleanNoise(text string) string {
	text = syntheticHeadingRegex.ReplaceAllString(text, "")
	text = extraBlankLinesRegex.ReplaceAllString(text, "\n\n")
	lines := strings.Split(text, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		} else if !inFence {
			lines[i] = runOfSpacesRegex.ReplaceAllString(line, " ")
		}
	}
	return strings.Join(lines, "\n")
}
