package refiner

import (
	"regexp"
	"strings"

	"github.com/arborline/chunkforge/schema"
)

var (
	fenceOpenRegex       = regexp.MustCompile("^```[ \t]*([a-zA-Z0-9_+-]*)[ \t]*$")
	imageRefRegex        = regexp.MustCompile(`!\[([^\]]*)\]\(embedded:(img_\d+)\)`)
	orderedListItemRegex = regexp.MustCompile(`^\d+\.\s+`)
)

// extractStructures scans the final refined text for the structural
// element kinds: fenced code blocks, pipe tables, list
// blocks, and image references. Locations are byte offsets into text,
// computed against the text actually returned to the caller so they
// always satisfy the 0 <= start <= end <= len(text) invariant.
func extractStructures(text string, opts Options) []schema.StructuredElement {
	var elements []schema.StructuredElement
	lines := strings.Split(text, "\n")

	offsets := make([]int, len(lines)+1)
	pos := 0
	for i, l := range lines {
		offsets[i] = pos
		pos += len(l) + 1
	}
	offsets[len(lines)] = len(text)

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if opts.DetectCodeBlocks {
			if m := fenceOpenRegex.FindStringSubmatch(trimmed); m != nil {
				start := offsets[i]
				j := i + 1
				var body []string
				for j < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[j]), "```") {
					body = append(body, lines[j])
					j++
				}
				end := offsets[len(lines)]
				if j < len(lines) {
					end = offsets[j] + len(lines[j])
				}
				elements = append(elements, schema.StructuredElement{
					Kind:     schema.ElementCode,
					Language: m[1],
					Content:  strings.Join(body, "\n"),
					Location: schema.ElementLocation{StartChar: start, EndChar: end},
				})
				i = j + 1
				continue
			}
		}

		if isTableLine(trimmed) {
			start := offsets[i]
			j := i
			var rowLines []string
			for j < len(lines) && isTableLine(strings.TrimSpace(lines[j])) {
				rowLines = append(rowLines, lines[j])
				j++
			}
			end := offsets[j-1] + len(lines[j-1])
			var rows [][]string
			for _, rl := range rowLines {
				t := strings.TrimSpace(rl)
				if isAlignmentSeparatorRow(t) {
					continue
				}
				rows = append(rows, splitPipeRow(rl))
			}
			elements = append(elements, schema.StructuredElement{
				Kind:     schema.ElementTable,
				Rows:     rows,
				Location: schema.ElementLocation{StartChar: start, EndChar: end},
			})
			i = j
			continue
		}

		if opts.PreserveLists && isListLine(trimmed) {
			start := offsets[i]
			j := i
			var items []string
			for j < len(lines) && isListLine(strings.TrimSpace(lines[j])) {
				items = append(items, listItemText(strings.TrimSpace(lines[j])))
				j++
			}
			end := offsets[j-1] + len(lines[j-1])
			elements = append(elements, schema.StructuredElement{
				Kind:     schema.ElementList,
				Items:    items,
				Location: schema.ElementLocation{StartChar: start, EndChar: end},
			})
			i = j
			continue
		}

		if opts.IncludeImagePlaceholders {
			for _, m := range imageRefRegex.FindAllStringSubmatchIndex(line, -1) {
				elements = append(elements, schema.StructuredElement{
					Kind:     schema.ElementImage,
					Alt:      line[m[2]:m[3]],
					ImageRef: line[m[4]:m[5]],
					Location: schema.ElementLocation{StartChar: offsets[i] + m[0], EndChar: offsets[i] + m[1]},
				})
			}
		}

		i++
	}

	return elements
}

func isTableLine(s string) bool {
	return strings.HasPrefix(s, "|") && strings.Count(s, "|") >= 2
}

func isListLine(s string) bool {
	if strings.HasPrefix(s, "- ") || strings.HasPrefix(s, "* ") || strings.HasPrefix(s, "+ ") {
		return true
	}
	return orderedListItemRegex.MatchString(s)
}

func listItemText(s string) string {
	if m := orderedListItemRegex.FindStringIndex(s); m != nil {
		return strings.TrimSpace(s[m[1]:])
	}
	if len(s) >= 2 {
		return strings.TrimSpace(s[2:])
	}
	return ""
}
