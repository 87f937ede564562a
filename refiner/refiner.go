// Package refiner turns RawContent into RefinedContent: cleaned,
// normalized markdown annotated with a section hierarchy and structured
// elements.
package refiner

import (
	"context"
	"strings"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/schema"
)

// Options controls which refinement steps run. The zero value is not
// useful; use DefaultOptions.
type Options struct {
	CleanNoise               bool
	ConvertTablesToMarkdown  bool
	ConvertBlocksToMarkdown  bool
	ExtractStructures        bool
	BuildSections            bool
	UseLLM                   bool
	NormalizeWhitespace      bool
	MinHeadingLevel          int
	MaxHeadingLevel          int
	PreserveLists            bool
	PreserveHeadings         bool
	IncludeImagePlaceholders bool
	DetectCodeBlocks         bool
}

// DefaultOptions returns the refinement defaults.
func DefaultOptions() Options {
	return Options{
		CleanNoise:               true,
		ConvertTablesToMarkdown:  true,
		ConvertBlocksToMarkdown:  true,
		ExtractStructures:        true,
		BuildSections:            true,
		UseLLM:                   false,
		NormalizeWhitespace:      true,
		MinHeadingLevel:          1,
		MaxHeadingLevel:          6,
		PreserveLists:            true,
		PreserveHeadings:         true,
		IncludeImagePlaceholders: true,
		DetectCodeBlocks:         true,
	}
}

// Refiner runs the heuristic (and optionally LLM-assisted) refinement
// algorithm. The zero value works with a nil LLM, which disables step 8
// regardless of Options.UseLLM.
type Refiner struct {
	LLM capability.TextCompletion
}

// NewRefiner creates a Refiner. llm may be nil.
func NewRefiner(llm capability.TextCompletion) *Refiner {
	return &Refiner{LLM: llm}
}

// Refine runs the nine-step algorithm over raw and returns the resulting
// RefinedContent. Blank raw text is not an error: with nothing to work
// from, refinement records an "empty input" warning and returns empty
// refined content, so an empty document flows through the rest of the
// pipeline as zero chunks. A blank Text with non-empty Tables produces a
// refined document built entirely from the tables.
func (r *Refiner) Refine(ctx context.Context, raw schema.RawContent, opts Options) (schema.RefinedContent, error) {
	if strings.TrimSpace(raw.Text) == "" && len(raw.Tables) == 0 {
		refined := schema.NewRefinedContent(raw.ID, "")
		refined.Info.Warnings = []string{"empty input"}
		refined.Metadata.Domain = schema.DomainGeneral
		refined.Metadata.DomainInferred = true
		refined.Quality = computeQuality(raw.Text, "", false)
		return refined, nil
	}

	refined := schema.NewRefinedContent(raw.ID, "")
	var warnings []string
	if strings.TrimSpace(raw.Text) == "" {
		warnings = append(warnings, "raw text was empty; refined content derived only from extracted tables")
	}

	text := raw.Text
	if opts.CleanNoise {
		text = cleanNoise(text)
	}

	text = processLines(text, opts)

	if opts.ConvertTablesToMarkdown && len(raw.Tables) > 0 {
		var sb strings.Builder
		sb.WriteString(text)
		for _, t := range raw.Tables {
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(renderTableData(t))
		}
		text = sb.String()
	}

	info := schema.RefinementInfo{Warnings: warnings}

	if opts.UseLLM && r.LLM != nil {
		enhanced, fellBack, warn := r.enhanceWithLLM(ctx, text)
		info.UsedLLM = true
		if fellBack {
			info.LLMFellBack = true
			if warn != "" {
				info.Warnings = append(info.Warnings, warn)
			}
		} else {
			text = enhanced
		}
	}

	if opts.NormalizeWhitespace {
		text = normalizeWhitespace(text)
	}

	var structures []schema.StructuredElement
	if opts.ExtractStructures {
		structures = extractStructures(text, opts)
	}

	headingLevels := make(map[int]int)
	for _, h := range collectHeadings(text) {
		headingLevels[h.Level]++
	}

	var sections []*schema.Section
	if opts.BuildSections {
		sections = buildSections(text, opts)
	}

	refined.Text = text
	refined.Sections = sections
	refined.Structures = structures
	refined.Metadata = schema.DocumentMetadata{
		Domain:         schema.DomainGeneral,
		DomainInferred: true,
		HeadingLevels:  headingLevels,
		Extra:          make(map[string]any),
	}
	refined.Quality = computeQuality(raw.Text, text, len(structures) > 0 || len(sections) > 0)
	refined.Info = info

	return refined, nil
}
