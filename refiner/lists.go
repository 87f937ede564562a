package refiner

import "strings"

// bulletGlyphs is deliberately narrower than the full recognized glyph
// set "•●○■□▪▸►→". ●○■□ are excluded here: those four glyphs double
// as Korean section markers consumed by the chunker, and converting them
// to plain bullets in the refiner would erase the marker before the
// chunker ever sees it.
var bulletGlyphs = []string{"•", "▪", "▸", "►", "→"}

// convertListLine recognizes a bullet or numbered list line and returns
// its canonical markdown form.
func convertListLine(line string) (string, bool) {
	indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "+ ") {
		return line, true
	}

	for _, g := range bulletGlyphs {
		if strings.HasPrefix(trimmed, g) {
			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, g))
			if rest == "" {
				return "", false
			}
			return indent + "- " + rest, true
		}
	}

	if marker, rest, ok := splitEnumeratedMarker(trimmed); ok {
		if isNumericMarker(marker) {
			return indent + marker + ". " + rest, true
		}
		return indent + "- " + rest, true
	}

	return "", false
}

// splitEnumeratedMarker recognizes "(a)", "1)", "a." style leading
// markers and splits them from the remaining content.
func splitEnumeratedMarker(s string) (marker, rest string, ok bool) {
	i := 0
	paren := false
	if i < len(s) && s[i] == '(' {
		paren = true
		i++
	}
	start := i
	for i < len(s) && isAlnumByte(s[i]) {
		i++
	}
	if i == start {
		return "", "", false
	}
	marker = s[start:i]

	if paren {
		if i >= len(s) || s[i] != ')' {
			return "", "", false
		}
		i++
	} else {
		if i >= len(s) || (s[i] != '.' && s[i] != ')') {
			return "", "", false
		}
		i++
	}

	if i >= len(s) || s[i] != ' ' {
		return "", "", false
	}
	rest = strings.TrimSpace(s[i+1:])
	if rest == "" {
		return "", "", false
	}
	return marker, rest, true
}

func isNumericMarker(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isAlnumByte(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
