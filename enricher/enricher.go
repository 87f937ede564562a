package enricher

import (
	"context"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/schema"
)

// Options controls which enrichment steps run. The zero value is not
// useful; use DefaultOptions.
type Options struct {
	ClassifyDomain    bool
	ExtractKeywords   bool
	ComputeScores     bool
	SynthesizeHeaders bool
	RunQualityFilter  bool
	Filter            FilterOptions
}

// DefaultOptions returns the enrichment defaults.
func DefaultOptions() Options {
	return Options{
		ClassifyDomain:    true,
		ExtractKeywords:   true,
		ComputeScores:     true,
		SynthesizeHeaders: true,
		RunQualityFilter:  true,
		Filter:            DefaultFilterOptions(),
	}
}

// Enricher attaches retrieval metadata to chunks and, optionally, filters
// low-value ones. The zero value works with a nil LLM, which degrades the
// quality filter to keyword-overlap scoring.
type Enricher struct {
	LLM capability.TextCompletion
}

// NewEnricher creates an Enricher. llm may be nil.
func NewEnricher(llm capability.TextCompletion) *Enricher {
	return &Enricher{LLM: llm}
}

// Enrich annotates every chunk in place with content type, structural role,
// domain, technical keywords, quality/importance/density scores and a
// contextual header, then optionally runs the three-stage quality filter,
// re-indexing the chunks it keeps 0..n-1. It returns the (possibly
// narrowed) chunk slice and any non-fatal warnings; it never errors.
func (e *Enricher) Enrich(ctx context.Context, refined schema.RefinedContent, chunks []*schema.DocumentChunk, opts Options) ([]*schema.DocumentChunk, []string, error) {
	domain := refined.Metadata.Domain
	domainInferred := refined.Metadata.DomainInferred
	if opts.ClassifyDomain {
		domain = ClassifyDomain(refined.Text)
		domainInferred = true
	}

	for _, chunk := range chunks {
		ct := ClassifyContentType(chunk.Content)
		role := StructuralRoleFor(ct)
		chunk.ContentType = string(ct)
		chunk.StructuralRole = string(role)

		chunk.Metadata.Domain = domain
		chunk.Metadata.DomainInferred = domainInferred

		var keywords []string
		if opts.ExtractKeywords {
			keywords = ExtractTechnicalKeywords(chunk.Content)
			topics := TopicScores(domain, chunk.Content)
			if len(topics) > 0 {
				chunk.Props["topic_scores"] = topics
			}
			if len(keywords) > 0 {
				chunk.Props["technical_keywords"] = keywords
			}
		}

		if opts.ComputeScores {
			chunk.Importance = RelevanceScore(chunk.Content)
			chunk.Density = InformationDensity(chunk.Content)
			chunk.Quality = CompletenessScore(chunk.Content)
		}

		if opts.SynthesizeHeaders {
			chunk.ContextualHeader = SynthesizeContextualHeader(ContextualHeaderInput{
				DocumentTitle: refined.Metadata.Title,
				Section:       lastSection(chunk.Location.HeadingPath),
				ContentType:   ct,
				Role:          role,
				Domain:        domain,
				Keywords:      keywords,
			})
		}
	}

	if !opts.RunQualityFilter {
		return chunks, nil, nil
	}

	filtered, warnings, err := FilterChunks(ctx, e.LLM, chunks, opts.Filter)
	if err != nil {
		return chunks, warnings, err
	}
	for i, c := range filtered {
		c.Index = i
	}
	return filtered, warnings, nil
}

func lastSection(headingPath []string) string {
	if len(headingPath) == 0 {
		return ""
	}
	return headingPath[len(headingPath)-1]
}
