package refiner

import "strings"

// processLines is a single line-by-line
// pass that preserves fenced code blocks verbatim, buffers pipe-delimited
// lines until a blank line or non-table line flushes them into a markdown
// table, and converts headings, lists, and image placeholders into their
// canonical markdown forms.
func processLines(text string, opts Options) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	var tableBuf []string
	imgCounter := 0

	flushTable := func() {
		if len(tableBuf) == 0 {
			return
		}
		if len(tableBuf) == 1 {
			// A single pipe-containing line is more likely a stray
			// character than a table; pass it through unchanged.
			out = append(out, tableBuf...)
		} else {
			out = append(out, convertPipeLinesToMarkdownTable(tableBuf)...)
		}
		tableBuf = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inFence {
			out = append(out, line)
			if strings.HasPrefix(trimmed, "```") {
				inFence = false
			}
			continue
		}

		if strings.HasPrefix(trimmed, "```") {
			flushTable()
			inFence = true
			out = append(out, line)
			continue
		}

		if trimmed == "" {
			flushTable()
			out = append(out, line)
			continue
		}

		if strings.Count(trimmed, "|") >= 1 {
			tableBuf = append(tableBuf, line)
			continue
		}
		flushTable()

		if h, ok := detectHeading(line, opts); ok {
			out = append(out, h)
			continue
		}

		if opts.PreserveLists {
			if l, ok := convertListLine(line); ok {
				out = append(out, l)
				continue
			}
		}

		if opts.IncludeImagePlaceholders {
			line = normalizeImagePlaceholders(line, &imgCounter)
		}
		out = append(out, line)
	}
	flushTable()

	return strings.Join(out, "\n")
}
