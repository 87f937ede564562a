package enricher

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/schema"
)

// FilterOptions configures the three-stage LLM-based chunk filter.
type FilterOptions struct {
	Query             string
	MinRelevanceScore float64
	MaxChunks         int
	PreserveOrder     bool
	BatchSize         int
}

// DefaultFilterOptions returns the filter defaults: a 0.7 relevance
// floor and a batch size of 5.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{MinRelevanceScore: 0.7, BatchSize: 5, PreserveOrder: true}
}

// scoredChunk pairs a chunk with its combined filter score, preserving
// its original position for the PreserveOrder restore pass.
type scoredChunk struct {
	chunk    *schema.DocumentChunk
	score    float64
	original int
}

// FilterChunks implements the three-stage quality filter:
// initial assessment, self-reflection, and critic validation, combined
// into a weighted final score (Initial 0.4, Reflection 0.3, Critic 0.3).
// It never errors: an absent or failing llm degrades the initial stage to
// keyword-overlap scoring and a warning is returned
// ("the filter never throws").
func FilterChunks(ctx context.Context, llm capability.TextCompletion, chunks []*schema.DocumentChunk, opts FilterOptions) ([]*schema.DocumentChunk, []string, error) {
	if opts.MinRelevanceScore < 0 {
		opts.MinRelevanceScore = 0.7
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}

	var warnings []string
	if llm == nil {
		warnings = append(warnings, "llm filter unavailable; used heuristic")
	}

	scored := make([]scoredChunk, len(chunks))
	for batchStart := 0; batchStart < len(chunks); batchStart += opts.BatchSize {
		batchEnd := batchStart + opts.BatchSize
		if batchEnd > len(chunks) {
			batchEnd = len(chunks)
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				scored[i] = scoredChunk{
					chunk:    chunks[i],
					score:    scoreChunk(ctx, llm, chunks[i], opts.Query),
					original: i,
				}
			}(i)
		}
		wg.Wait()
	}

	var kept []scoredChunk
	for _, s := range scored {
		if s.score >= opts.MinRelevanceScore {
			kept = append(kept, s)
		}
	}

	if opts.MaxChunks > 0 && len(kept) > opts.MaxChunks {
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
		kept = kept[:opts.MaxChunks]
		if opts.PreserveOrder {
			sort.SliceStable(kept, func(i, j int) bool { return kept[i].original < kept[j].original })
		}
	}

	out := make([]*schema.DocumentChunk, len(kept))
	for i, s := range kept {
		out[i] = s.chunk
	}
	return out, warnings, nil
}

// scoreChunk runs the three stages for one chunk and combines them.
func scoreChunk(ctx context.Context, llm capability.TextCompletion, chunk *schema.DocumentChunk, query string) float64 {
	initial, factors := initialAssessment(ctx, llm, chunk, query)
	reflected := selfReflection(initial, factors, chunk.Content)
	critic := criticValidation(initial, reflected, chunk.Content)

	return clamp01(0.4*initial + 0.3*reflected + 0.3*critic)
}

type factor struct {
	weight float64
	value  float64
}

func initialAssessment(ctx context.Context, llm capability.TextCompletion, chunk *schema.DocumentChunk, query string) (float64, []factor) {
	factors := []factor{
		{weight: 1.0, value: contentRelevance(chunk.Content, query)},
		{weight: 0.5, value: clamp01(InformationDensity(chunk.Content) / 50)},
		{weight: 0.3, value: structuralImportance(chunk.StructuralRole)},
	}

	if llm != nil {
		header := chunk.ContextualHeader
		assessment, err := llm.AssessQuality(ctx, chunk.Content, header)
		if err == nil {
			factors = append(factors, factor{weight: 0.8, value: clamp01(assessment.Score)})
		}
	}

	totalWeight := 0.0
	weightedSum := 0.0
	for _, f := range factors {
		weightedSum += f.weight * f.value
		totalWeight += f.weight
	}
	if totalWeight == 0 {
		return 0.5, factors
	}
	return clamp01(weightedSum / totalWeight), factors
}

func selfReflection(initial float64, factors []factor, content string) float64 {
	score := initial

	totalAbsWeight := 0.0
	for _, f := range factors {
		totalAbsWeight += f.weight
	}
	if totalAbsWeight > 0 {
		for _, f := range factors {
			concentration := f.weight / totalAbsWeight
			if concentration > 0.7 {
				score -= (concentration - 0.7)
			}
		}
	}

	// Unfloored well-formed sentence fraction: CompletenessScore never
	// returns less than 0.7, so it cannot drive this penalty.
	completeness := 0.7
	if sentences := splitRoughSentences(content); len(sentences) > 0 {
		wellFormed := 0
		for _, s := range sentences {
			s = strings.TrimSpace(s)
			if len(s) > 10 && !strings.HasSuffix(s, "…") && !strings.HasSuffix(s, "...") {
				wellFormed++
			}
		}
		completeness = float64(wellFormed) / float64(len(sentences))
	}
	if completeness < 0.7 {
		score -= (0.7 - completeness)
	}

	alt := alternativePerspective(factors)
	if math.Abs(alt-initial) > 0.2 {
		score += (alt - initial) * 0.3
	}

	return clamp01(score)
}

// alternativePerspective recomputes the initial score with the factor
// weights reversed, giving "self-reflection" a second vantage point to
// compare against.
func alternativePerspective(factors []factor) float64 {
	if len(factors) == 0 {
		return 0.5
	}
	totalWeight := 0.0
	weightedSum := 0.0
	for i, f := range factors {
		reversedWeight := factors[len(factors)-1-i].weight
		weightedSum += reversedWeight * f.value
		totalWeight += reversedWeight
	}
	if totalWeight == 0 {
		return 0.5
	}
	return clamp01(weightedSum / totalWeight)
}

func criticValidation(initial, reflected float64, content string) float64 {
	score := (initial + reflected) / 2

	variance := math.Abs(initial - reflected)
	if variance > 0.3 {
		score -= (variance - 0.3)
	}

	n := len(strings.TrimSpace(content))
	switch {
	case n >= 100 && n <= 2000:
		score += 0.05
	case n < 50:
		score -= 0.2
	}
	if excessiveLineBreaks(content) {
		score -= 0.1
	}
	if isNumericOnly(content) || isHeavilyRepeated(content) {
		score -= 0.2
	}

	return clamp01(score)
}

func contentRelevance(content, query string) float64 {
	if strings.TrimSpace(query) == "" {
		return RelevanceScore(content)
	}
	contentWords := significantWordSet(content)
	queryWords := significantWordSet(query)
	if len(queryWords) == 0 {
		return RelevanceScore(content)
	}
	hits := 0
	for w := range queryWords {
		if contentWords[w] {
			hits++
		}
	}
	return clamp01(float64(hits) / float64(len(queryWords)))
}

func significantWordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range tokenizeLower(text) {
		if len(w) > 3 {
			set[w] = true
		}
	}
	return set
}

func structuralImportance(role string) float64 {
	switch StructuralRole(role) {
	case RoleTitle:
		return 1.0
	case RoleCodeBlock:
		return 0.8
	case RoleTableContent:
		return 0.7
	case RoleListContent:
		return 0.6
	default:
		return 0.5
	}
}

func excessiveLineBreaks(content string) bool {
	lines := strings.Split(content, "\n")
	blank := 0
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			blank++
		}
	}
	return len(lines) > 0 && float64(blank)/float64(len(lines)) > 0.5
}

func isNumericOnly(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if (r < '0' || r > '9') && r != '.' && r != ',' && r != ' ' && r != '\n' && r != '-' {
			return false
		}
	}
	return true
}

func isHeavilyRepeated(content string) bool {
	words := strings.Fields(content)
	if len(words) < 10 {
		return false
	}
	counts := make(map[string]int)
	for _, w := range words {
		counts[strings.ToLower(w)]++
	}
	for _, c := range counts {
		if float64(c)/float64(len(words)) > 0.4 {
			return true
		}
	}
	return false
}
