package chunker

import (
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// koreanOuterMarkers (□, ■) open a section at baseLevel; koreanInnerMarkers
// (ㅇ, ○, ●, ◆) open a nested section at baseLevel+1, so "□ 개요" followed
// by "ㅇ 세부" nests 세부 under 개요.
var (
	koreanOuterMarkers = []string{"□", "■"}
	koreanInnerMarkers = []string{"ㅇ", "○", "●", "◆"}
)

// koreanMarkerLine reports whether line opens a Korean section marker and,
// if so, its nesting depth (0 = outer, 1 = inner) and title.
func koreanMarkerLine(line string) (depth int, title string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, m := range koreanOuterMarkers {
		if strings.HasPrefix(trimmed, m) {
			return 0, strings.TrimSpace(strings.TrimPrefix(trimmed, m)), true
		}
	}
	for _, m := range koreanInnerMarkers {
		if strings.HasPrefix(trimmed, m) {
			return 1, strings.TrimSpace(strings.TrimPrefix(trimmed, m)), true
		}
	}
	return 0, "", false
}

// koreanSections scans text for lines opening a Korean section marker and
// builds a two-tier section tree from them, assigning levels baseLevel
// (outer) and baseLevel+1 (inner). Returns nil if no markers are found.
func koreanSections(text string, baseLevel int) []*schema.Section {
	type occurrence struct {
		depth int
		title string
		start int
	}

	var occurrences []occurrence
	offset := 0
	for _, line := range strings.SplitAfter(text, "\n") {
		if depth, title, ok := koreanMarkerLine(line); ok {
			occurrences = append(occurrences, occurrence{depth: depth, title: title, start: offset})
		}
		offset += len(line)
	}
	if len(occurrences) == 0 {
		return nil
	}

	sections := make([]*schema.Section, len(occurrences))
	for i, occ := range occurrences {
		level := baseLevel + occ.depth
		end := len(text)
		for j := i + 1; j < len(occurrences); j++ {
			if occurrences[j].depth <= occ.depth {
				end = occurrences[j].start
				break
			}
		}
		s := schema.NewSection(occ.title, level, occ.start, end)
		s.Content = strings.TrimSpace(text[occ.start:end])
		sections[i] = s
	}

	var roots []*schema.Section
	var stack []*schema.Section
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
