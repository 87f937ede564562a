package chunker

import (
	"sort"
	"strings"
	"time"

	"github.com/arborline/chunkforge/schema"
	"github.com/arborline/chunkforge/tokenizer"
)

// finalizeInput bundles everything the builder needs that isn't already
// on a Candidate: the document identifiers to stamp onto every chunk, the
// section tree used for heading-path lookups (which may be the Korean
// marker tree rather than refined.Sections), and the page offsets used
// for SourceLocation.StartPage/EndPage.
type finalizeInput struct {
	RawID       string
	ParsedID    string
	Sections    []*schema.Section
	PageOffsets map[int]int
	Strategy    Strategy
}

// finalizeFlat applies the shared post-processing pipeline
// (header separation, overlap, minimum-size merging, deduplication,
// indexing) to a flat, document-order, non-overlapping candidate list
// and returns the finished chunks plus any header text detached from the
// first candidates and any non-fatal warnings.
func finalizeFlat(in finalizeInput, fullText string, candidates []Candidate, opts ChunkingOptions) ([]*schema.DocumentChunk, string, []string, error) {
	var warnings []string

	headerText, bodyStart := "", 0
	if opts.SeparateDocumentHeader {
		headerText, bodyStart = separateHeader(fullText, opts)
	}
	if bodyStart > 0 {
		candidates = dropHeaderCandidates(candidates, bodyStart)
	}

	if opts.OverlapSize > 0 {
		candidates = applyOverlap(fullText, candidates, opts.OverlapSize)
	}

	candidates = mergeUndersized(candidates, opts)

	if opts.DeduplicateOverlaps {
		candidates, warnings = deduplicate(candidates, warnings)
	}

	chunks := make([]*schema.DocumentChunk, 0, len(candidates))
	for i, c := range candidates {
		chunk := schema.NewDocumentChunk(in.RawID, in.ParsedID, c.Content, schema.SourceLocation{
			StartChar:   c.StartChar,
			EndChar:     c.EndChar,
			HeadingPath: headingPathAt(in.Sections, c.StartChar),
		})
		startPage, endPage := pagesForRange(in.PageOffsets, c.StartChar, c.EndChar)
		chunk.Location.StartPage = startPage
		chunk.Location.EndPage = endPage
		if len(chunk.Location.HeadingPath) > 0 {
			chunk.Location.Section = chunk.Location.HeadingPath[len(chunk.Location.HeadingPath)-1]
		}
		chunk.Index = i
		chunk.Strategy = string(in.Strategy)
		chunk.Tokens = tokenizer.CountTokens(tokenizer.NewSimpleTokenizer(), c.Content)
		chunk.Props["token_counter"] = "simple"
		chunk.CreatedAt = time.Now()
		if c.Atomic || len(c.Content) < opts.MinChunkSize {
			chunk.SetAtomic()
		}
		chunks = append(chunks, chunk)
	}

	return chunks, headerText, warnings, nil
}

// finalizeHierarchical builds HierarchicalDocumentChunks from a
// pre-order-walked candidate list carrying Level/ParentIndex links
// (chunkHierarchical's output). Overlap, minimum-size merging and
// deduplication are skipped: those steps assume a flat, non-overlapping
// sequence, which a hierarchical set deliberately is not (a parent's
// range contains its children's).
func finalizeHierarchical(in finalizeInput, fullText string, candidates []Candidate, opts ChunkingOptions) ([]*schema.DocumentChunk, string, []string, error) {
	headerText, bodyStart := "", 0
	if opts.SeparateDocumentHeader {
		headerText, bodyStart = separateHeader(fullText, opts)
	}
	if bodyStart > 0 {
		candidates = dropHeaderCandidates(candidates, bodyStart)
	}

	chunks := make([]*schema.DocumentChunk, len(candidates))
	for i, c := range candidates {
		chunk := schema.NewDocumentChunk(in.RawID, in.ParsedID, c.Content, schema.SourceLocation{
			StartChar:   c.StartChar,
			EndChar:     c.EndChar,
			HeadingPath: headingPathAt(in.Sections, c.StartChar),
		})
		startPage, endPage := pagesForRange(in.PageOffsets, c.StartChar, c.EndChar)
		chunk.Location.StartPage = startPage
		chunk.Location.EndPage = endPage
		if len(chunk.Location.HeadingPath) > 0 {
			chunk.Location.Section = chunk.Location.HeadingPath[len(chunk.Location.HeadingPath)-1]
		}
		chunk.Index = i
		chunk.Strategy = string(in.Strategy)
		chunk.Tokens = tokenizer.CountTokens(tokenizer.NewSimpleTokenizer(), c.Content)
		chunk.Props["token_counter"] = "simple"
		chunk.CreatedAt = time.Now()
		chunk.Level = c.Level
		if len(c.Content) < opts.MinChunkSize {
			chunk.SetAtomic()
		}
		chunks[i] = chunk
	}

	// Second pass: ParentIndex -> ParentID/ChildIDs now that every chunk
	// has its ID, plus the Root/Branch/Leaf type invariant.
	hasChildren := make([]bool, len(candidates))
	for i, c := range candidates {
		if c.ParentIndex >= 0 {
			parentID := chunks[c.ParentIndex].ID
			chunks[i].ParentID = &parentID
			chunks[c.ParentIndex].ChildIDs = append(chunks[c.ParentIndex].ChildIDs, chunks[i].ID)
			hasChildren[c.ParentIndex] = true
		}
	}
	for i, c := range candidates {
		switch {
		case c.ParentIndex < 0:
			chunks[i].Type = schema.ChunkTypeRoot
		case hasChildren[i]:
			chunks[i].Type = schema.ChunkTypeBranch
		default:
			chunks[i].Type = schema.ChunkTypeLeaf
		}
	}

	return chunks, headerText, nil, nil
}

// separateHeader detaches a document header: the leading paragraphs of
// text are detached into document metadata instead of being prepended to
// every chunk, provided there are at most max_header_paragraphs of them
// and each is shorter than max_header_paragraph_length.
func separateHeader(text string, opts ChunkingOptions) (string, int) {
	spans := splitParagraphs(text)
	var taken []paragraphSpan
	for i, p := range spans {
		if i >= opts.MaxHeaderParagraphs {
			break
		}
		trimmed := strings.TrimSpace(p.Text)
		if len(trimmed) >= opts.MaxHeaderParagraphLength {
			break
		}
		// The document body starts at the first heading or section
		// marker; a header paragraph is front matter, never a section.
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		if _, _, ok := koreanMarkerLine(trimmed); ok {
			break
		}
		taken = append(taken, p)
	}
	if len(taken) == 0 {
		return "", 0
	}
	end := taken[len(taken)-1].End
	return strings.TrimSpace(text[:end]), end
}

// dropHeaderCandidates removes candidates fully inside [0, bodyStart) and
// trims the one straddling the boundary, so the detached header text is
// never duplicated into the first real chunk.
func dropHeaderCandidates(candidates []Candidate, bodyStart int) []Candidate {
	out := candidates[:0:0]
	for _, c := range candidates {
		if c.EndChar <= bodyStart {
			continue
		}
		if c.StartChar < bodyStart {
			skip := bodyStart - c.StartChar
			if skip < len(c.Content) {
				c.Content = c.Content[skip:]
			} else {
				c.Content = ""
			}
			c.StartChar = bodyStart
		}
		out = append(out, c)
	}
	return out
}

// applyOverlap makes successive chunks share the
// last overlap_size characters of the previous chunk as leading context,
// snapped to the nearest sentence or word boundary. Atomic and
// NoOverlap-flagged candidates (fenced code blocks) are left untouched.
func applyOverlap(fullText string, candidates []Candidate, overlapSize int) []Candidate {
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Atomic || candidates[i].NoOverlap || candidates[i-1].NoOverlap {
			continue
		}
		prev := candidates[i-1]
		window := overlapSize
		if window > len(prev.Content) {
			window = len(prev.Content)
		}
		cut := len(prev.Content) - window
		cut = nearestWordBoundary(prev.Content, cut)
		snapped := nearestSentenceEnd(prev.Content, cut, true)
		if snapped > cut && snapped < len(prev.Content) && strings.TrimSpace(prev.Content[snapped:]) != "" {
			cut = snapped
		}
		overlap := prev.Content[cut:]
		if strings.TrimSpace(overlap) == "" {
			continue
		}
		candidates[i].Content = overlap + candidates[i].Content
	}
	return candidates
}

// mergeUndersized merges undersized candidates: any candidate after the
// first that is below min_chunk_size is merged with whichever neighbor
// produces the smaller combined size, unless that merge would exceed 1.5x
// max_chunk_size, in which case the candidate stands alone and is flagged
// atomic. An undersized first candidate is not merged into its successor;
// it only grows when the candidate after it merges left.
func mergeUndersized(candidates []Candidate, opts ChunkingOptions) []Candidate {
	if opts.MinChunkSize <= 0 || len(candidates) < 2 {
		return candidates
	}
	limit := int(float64(opts.MaxChunkSize) * 1.5)

	merged := make([]Candidate, 0, len(candidates))
	merged = append(merged, candidates[0])
	for i := 1; i < len(candidates); i++ {
		cur := candidates[i]
		if len(cur.Content) >= opts.MinChunkSize || cur.Atomic {
			merged = append(merged, cur)
			continue
		}

		left := &merged[len(merged)-1]
		leftSize := len(left.Content) + len(cur.Content)
		rightSize := -1
		if i+1 < len(candidates) {
			rightSize = len(cur.Content) + len(candidates[i+1].Content)
		}

		mergeLeft := leftSize <= limit && (rightSize < 0 || leftSize <= rightSize)
		if mergeLeft {
			left.Content += cur.Content
			left.EndChar = cur.EndChar
			left.TokensEst += cur.TokensEst
			continue
		}
		if rightSize >= 0 && rightSize <= limit {
			candidates[i+1].Content = cur.Content + candidates[i+1].Content
			candidates[i+1].StartChar = cur.StartChar
			candidates[i+1].TokensEst += cur.TokensEst
			continue
		}
		// Neither merge fits within 1.5x max: stands alone, atomic.
		cur.Atomic = true
		merged = append(merged, cur)
	}
	return merged
}

// deduplicate collapses near-duplicates: consecutive candidates with
// at least 50% normalized character overlap are collapsed, keeping the
// longer of the pair and extending its range to cover both.
func deduplicate(candidates []Candidate, warnings []string) ([]Candidate, []string) {
	if len(candidates) < 2 {
		return candidates, warnings
	}
	out := make([]Candidate, 0, len(candidates))
	out = append(out, candidates[0])
	collapsed := 0
	for i := 1; i < len(candidates); i++ {
		prev := &out[len(out)-1]
		if overlapRatio(prev.Content, candidates[i].Content) >= 0.5 {
			if len(candidates[i].Content) > len(prev.Content) {
				prev.Content = candidates[i].Content
			}
			if candidates[i].EndChar > prev.EndChar {
				prev.EndChar = candidates[i].EndChar
			}
			collapsed++
			continue
		}
		out = append(out, candidates[i])
	}
	if collapsed > 0 {
		warnings = append(warnings, "deduplicated overlapping chunks")
	}
	return out, warnings
}

// overlapRatio estimates overlap between two chunk contents as the number
// of a's normalized words that also occur in b, divided by the smaller of
// the two word counts, used to decide whether
// two adjacent candidates are near-duplicates.
func overlapRatio(a, b string) float64 {
	wa := normalizedWords(a)
	wb := normalizedWords(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	setB := make(map[string]bool, len(wb))
	for _, w := range wb {
		setB[w] = true
	}
	hits := 0
	for _, w := range wa {
		if setB[w] {
			hits++
		}
	}
	small := len(wa)
	if len(wb) < small {
		small = len(wb)
	}
	return float64(hits) / float64(small)
}

func normalizedWords(s string) []string {
	return strings.Fields(strings.ToLower(s))
}

// headingPathAt returns the ordered ancestor titles at position pos in
// sections, per the SourceLocation invariant.
func headingPathAt(sections []*schema.Section, pos int) []string {
	var path []string
	var walk func(secs []*schema.Section) bool
	walk = func(secs []*schema.Section) bool {
		for _, s := range secs {
			if pos < s.Start || pos >= s.End {
				continue
			}
			path = append(path, s.Title)
			walk(s.Children)
			return true
		}
		return false
	}
	walk(sections)
	return path
}

// pagesForRange resolves the first and last page a character range falls
// within, given a page->offset map (HintPageOffsets). Returns nil, nil
// when no page offsets are available.
func pagesForRange(offsets map[int]int, start, end int) (*int, *int) {
	if len(offsets) == 0 {
		return nil, nil
	}
	pages := make([]int, 0, len(offsets))
	for p := range offsets {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	pageAt := func(pos int) int {
		page := pages[0]
		for _, p := range pages {
			if offsets[p] <= pos {
				page = p
			} else {
				break
			}
		}
		return page
	}

	sp := pageAt(start)
	ep := pageAt(end)
	return &sp, &ep
}
