package refiner

import (
	"fmt"
	"strings"

	"github.com/arborline/chunkforge/schema"
)

// renderTableData renders an extracted TableData as a markdown table:
// header row, alignment separator row, data rows,
// with pipe/newline escaping and a low-confidence warning comment.
func renderTableData(t schema.TableData) string {
	if len(t.Cells) == 0 {
		return ""
	}
	cols := 0
	for _, row := range t.Cells {
		if len(row) > cols {
			cols = len(row)
		}
	}

	var header []string
	startRow := 0
	if t.HasHeader {
		header = escapeRow(t.Cells[0])
		startRow = 1
	} else {
		header = make([]string, cols)
		for i := range header {
			header[i] = fmt.Sprintf("Col%d", i+1)
		}
	}
	header = padRow(header, cols)

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")

	seps := make([]string, cols)
	for i := range seps {
		align := schema.AlignNone
		if i < len(t.ColumnAlignments) {
			align = t.ColumnAlignments[i]
		}
		seps[i] = alignmentToken(align)
	}
	sb.WriteString("| " + strings.Join(seps, " | ") + " |\n")

	for _, row := range t.Cells[startRow:] {
		r := padRow(escapeRow(row), cols)
		sb.WriteString("| " + strings.Join(r, " | ") + " |\n")
	}

	if t.Confidence < 0.7 {
		sb.WriteString(fmt.Sprintf("<!-- Table confidence: %.2f — may need verification -->\n", t.Confidence))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func alignmentToken(a schema.ColumnAlignment) string {
	switch a {
	case schema.AlignLeft:
		return ":---"
	case schema.AlignRight:
		return "---:"
	case schema.AlignCenter:
		return ":---:"
	default:
		return "---"
	}
}

func escapeRow(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", "\\|")
		c = strings.ReplaceAll(c, "\n", "<br>")
		out[i] = c
	}
	return out
}

func padRow(row []string, cols int) []string {
	for len(row) < cols {
		row = append(row, "")
	}
	return row
}

// isAlignmentSeparatorRow reports whether a pipe-delimited line is
// already a markdown alignment separator (e.g. "| --- | :---: |").
func isAlignmentSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !strings.Contains(trimmed, "-") {
		return false
	}
	for _, r := range trimmed {
		switch r {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitPipeRow splits a pipe-delimited line into trimmed cells, dropping
// a leading/trailing empty cell produced by leading/trailing pipes.
func splitPipeRow(line string) []string {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	parts := strings.Split(trimmed, "|")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// convertPipeLinesToMarkdownTable turns a buffered run of pipe-delimited
// lines into a proper markdown table, synthesizing an alignment
// separator row and Col1..ColN headers when the source lines are a bare
// pipe dump rather than already-valid markdown.
func convertPipeLinesToMarkdownTable(lines []string) []string {
	if len(lines) >= 2 && isAlignmentSeparatorRow(lines[1]) {
		return lines
	}

	rows := make([][]string, len(lines))
	maxCols := 0
	for i, l := range lines {
		rows[i] = splitPipeRow(l)
		if len(rows[i]) > maxCols {
			maxCols = len(rows[i])
		}
	}

	out := make([]string, 0, len(rows)+1)
	out = append(out, "| "+strings.Join(padRow(rows[0], maxCols), " | ")+" |")

	sep := make([]string, maxCols)
	for i := range sep {
		sep[i] = "---"
	}
	out = append(out, "| "+strings.Join(sep, " | ")+" |")

	for _, r := range rows[1:] {
		out = append(out, "| "+strings.Join(padRow(r, maxCols), " | ")+" |")
	}
	return out
}
