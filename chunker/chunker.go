package chunker

import (
	"context"

	"github.com/arborline/chunkforge/boundary"
	"github.com/arborline/chunkforge/errkit"
	"github.com/arborline/chunkforge/schema"
)

// Result is the outcome of a Chunk call: the finished chunks in document
// order, any detached document header text, the
// strategy actually used (meaningful when opts.Strategy was Auto), and
// any non-fatal warnings collected along the way.
type Result struct {
	Chunks       []*schema.DocumentChunk
	HeaderText   string
	UsedStrategy Strategy
	Warnings     []string
}

// isHierarchical reports whether a strategy always produces
// parent/child-linked candidates that must go through
// finalizeHierarchical instead of the flat post-processing pipeline.
// Intelligent is hierarchical only when its candidates actually carry
// parent links; see hasParentLinks.
func isHierarchical(s Strategy) bool { return s == StrategyHierarchical }

// hasParentLinks reports whether any candidate references a parent
// candidate, requiring hierarchical finalization to preserve the links.
func hasParentLinks(candidates []Candidate) bool {
	for _, c := range candidates {
		if c.ParentIndex >= 0 {
			return true
		}
	}
	return false
}

// Chunk runs the full chunking stage: it resolves Auto to a concrete
// strategy, runs that strategy over refined.Text, and finalizes the
// resulting candidates into DocumentChunks. detector may be
// nil; it is only consulted by the Semantic strategy.
func Chunk(ctx context.Context, raw schema.RawContent, refined schema.RefinedContent, opts ChunkingOptions, detector *boundary.Detector) (*Result, error) {
	if opts.MaxChunkSize <= 0 {
		opts = withDefaultsApplied(opts)
	}

	text := refined.Text
	if len(text) == 0 {
		return &Result{Warnings: []string{"empty input"}}, nil
	}

	sections := refined.Sections
	var warnings []string
	if opts.RecognizeKoreanSectionMarkers {
		// Outer markers sit one level above MaxHeadingLevel so the inner
		// tier still lands at or above the strategies' fold threshold and
		// opens its own chunk.
		base := opts.MaxHeadingLevel - 1
		if base < 1 {
			base = 1
		}
		if kr := koreanSections(text, base); len(kr) > 0 && len(sections) == 0 {
			sections = kr
		}
	}

	strategy := opts.Strategy
	if strategy == "" || strategy == StrategyAuto {
		strategy = resolveStrategy(refined, sections, opts)
		warnings = append(warnings, "auto strategy selected "+string(strategy))
	}

	candidates, err := runStrategy(ctx, strategy, raw, refined, text, sections, opts, detector)
	if err != nil {
		return nil, err
	}

	pageOffsets, _ := raw.Hints[schema.HintPageOffsets].(map[int]int)
	in := finalizeInput{
		RawID:       raw.ID,
		ParsedID:    refined.ID,
		Sections:    sections,
		PageOffsets: pageOffsets,
		Strategy:    strategy,
	}

	var chunks []*schema.DocumentChunk
	var headerText string
	var finalizeWarnings []string
	if isHierarchical(strategy) || (strategy == StrategyIntelligent && hasParentLinks(candidates)) {
		chunks, headerText, finalizeWarnings, err = finalizeHierarchical(in, text, candidates, opts)
	} else {
		chunks, headerText, finalizeWarnings, err = finalizeFlat(in, text, candidates, opts)
	}
	if err != nil {
		return nil, err
	}

	if err := validateMonotoneIndices(chunks); err != nil {
		return nil, err
	}

	return &Result{
		Chunks:       chunks,
		HeaderText:   headerText,
		UsedStrategy: strategy,
		Warnings:     append(warnings, finalizeWarnings...),
	}, nil
}

// runStrategy dispatches to the concrete strategy implementation. Auto
// must already have been resolved by the caller.
func runStrategy(ctx context.Context, strategy Strategy, raw schema.RawContent, refined schema.RefinedContent, text string, sections []*schema.Section, opts ChunkingOptions, detector *boundary.Detector) ([]Candidate, error) {
	switch strategy {
	case StrategyFixedSize:
		return chunkFixedSize(text, opts)
	case StrategyParagraph:
		return chunkParagraph(text, opts)
	case StrategySemantic:
		return chunkSemantic(ctx, text, opts, detector)
	case StrategyHierarchical:
		return chunkHierarchical(text, sections, opts)
	case StrategyPageLevel:
		return chunkPageLevel(text, raw, opts)
	case StrategyIntelligent:
		return chunkIntelligent(text, sections, opts)
	case StrategySmart:
		return chunkSmart(text, opts)
	default:
		return chunkFixedSize(text, opts)
	}
}

// validateMonotoneIndices enforces the "chunk indices are 0..n-1
// contiguous and monotone" invariant, surfacing any strategy bug as a
// ChunkingError rather than handing callers silently corrupt output.
func validateMonotoneIndices(chunks []*schema.DocumentChunk) error {
	for i, c := range chunks {
		if c.Index != i {
			return errkit.New(schema.StageChunk, errkit.KindChunkingError, nil,
				"chunk index %d is not contiguous at position %d", c.Index, i)
		}
		if c.Location.StartChar > c.Location.EndChar {
			return errkit.New(schema.StageChunk, errkit.KindChunkingError, nil,
				"chunk %s has start_char > end_char", c.ID)
		}
	}
	return nil
}

func withDefaultsApplied(opts ChunkingOptions) ChunkingOptions {
	defaults := DefaultChunkingOptions()
	if opts.Strategy == "" {
		opts.Strategy = defaults.Strategy
	}
	opts.MaxChunkSize = defaults.MaxChunkSize
	if opts.OverlapSize == 0 {
		opts.OverlapSize = defaults.OverlapSize
	}
	if opts.MinChunkSize == 0 {
		opts.MinChunkSize = defaults.MinChunkSize
	}
	if opts.MaxHeadingLevel == 0 {
		opts.MaxHeadingLevel = defaults.MaxHeadingLevel
	}
	if opts.MaxHeaderParagraphs == 0 {
		opts.MaxHeaderParagraphs = defaults.MaxHeaderParagraphs
	}
	if opts.MaxHeaderParagraphLength == 0 {
		opts.MaxHeaderParagraphLength = defaults.MaxHeaderParagraphLength
	}
	return opts
}
