package refiner

import (
	"fmt"
	"regexp"
)

var (
	imageCommentRegex         = regexp.MustCompile(`(?i)<!--\s*image[^>]*?img_(\d+)[^>]*?-->`)
	imageBracketDescRegex     = regexp.MustCompile(`(?i)\[image:([^\]]*)\]`)
	imageBracketNumRegex      = regexp.MustCompile(`(?i)\[img_(\d+)\]`)
	imageEmbeddedBareRegex    = regexp.MustCompile(`(?i)\bembedded:img_(\d+)\b`)
	imageAlreadyMarkdownRegex = regexp.MustCompile(`!\[[^\]]*\]\(embedded:img_\d+\)`)
)

// normalizeImagePlaceholders rewrites the various image-placeholder
// spellings a format reader may emit into the canonical
// ![alt](embedded:img_N) markdown form. counter
// supplies a sequential N for placeholders that carry no number of their
// own.
func normalizeImagePlaceholders(line string, counter *int) string {
	if imageAlreadyMarkdownRegex.MatchString(line) {
		return line
	}

	line = imageEmbeddedBareRegex.ReplaceAllStringFunc(line, func(m string) string {
		sub := imageEmbeddedBareRegex.FindStringSubmatch(m)
		return fmt.Sprintf("![image](embedded:img_%s)", sub[1])
	})

	line = imageCommentRegex.ReplaceAllString(line, "![image](embedded:img_$1)")
	line = imageBracketNumRegex.ReplaceAllString(line, "![image](embedded:img_$1)")

	line = imageBracketDescRegex.ReplaceAllStringFunc(line, func(m string) string {
		sub := imageBracketDescRegex.FindStringSubmatch(m)
		alt := sub[1]
		if alt == "" {
			alt = "image"
		}
		*counter++
		return fmt.Sprintf("![%s](embedded:img_%d)", alt, *counter)
	})

	return line
}
