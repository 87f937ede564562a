package refiner

import (
	"regexp"
	"strings"

	"github.com/arborline/chunkforge/schema"
)

var mdHeadingLineRegex = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+)$`)

// headingOccurrence is a single heading line found in final refined text.
type headingOccurrence struct {
	Level int
	Title string
	Start int
}

// collectHeadings scans text for canonical markdown headings. Used both
// to build the heading-level distribution recorded in DocumentMetadata
// and as the input to buildSections.
func collectHeadings(text string) []headingOccurrence {
	matches := mdHeadingLineRegex.FindAllStringSubmatchIndex(text, -1)
	occurrences := make([]headingOccurrence, 0, len(matches))
	for _, m := range matches {
		level := m[3] - m[2]
		title := strings.TrimSpace(text[m[4]:m[5]])
		occurrences = append(occurrences, headingOccurrence{Level: level, Title: title, Start: m[0]})
	}
	return occurrences
}

// buildSections constructs the section tree.1 step 7:
// children attach to the nearest preceding heading of strictly lower
// level, and a section's content runs to the next heading of the same or
// higher level (or end of text).
func buildSections(text string, opts Options) []*schema.Section {
	occurrences := collectHeadings(text)
	if len(occurrences) == 0 {
		return nil
	}

	sections := make([]*schema.Section, len(occurrences))
	for i, occ := range occurrences {
		end := len(text)
		for j := i + 1; j < len(occurrences); j++ {
			if occurrences[j].Level <= occ.Level {
				end = occurrences[j].Start
				break
			}
		}
		s := schema.NewSection(occ.Title, occ.Level, occ.Start, end)
		s.Content = strings.TrimSpace(text[occ.Start:end])
		sections[i] = s
	}

	var roots []*schema.Section
	stack := make([]*schema.Section, 0, len(sections))
	for _, s := range sections {
		for len(stack) > 0 && stack[len(stack)-1].Level >= s.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, s)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, s)
		}
		stack = append(stack, s)
	}
	return roots
}
