package chunker

import (
	"fmt"
	"sync"

	"github.com/arborline/chunkforge/schema"
)

// autoCache is the process-wide, init-on-first-use cache for Auto's
// strategy selection, keyed by a cheap fingerprint of the inputs that
// influence the decision. The cache is process-wide with
// init-on-first-use; access is synchronized.
var (
	autoCacheMu sync.Mutex
	autoCache   = make(map[string]Strategy)
)

// resolveStrategy implements Auto's analysis-and-selection
// rule. force_strategy always wins; otherwise the refined document's
// structural hints pick a strategy, broken by prefer_speed/prefer_quality
// when more than one is plausible. effectiveSections may differ from
// refined.Sections when Korean section markers stand in for markdown
// headings (see korean.go).
func resolveStrategy(refined schema.RefinedContent, effectiveSections []*schema.Section, opts ChunkingOptions) Strategy {
	if opts.StrategyOptions.ForceStrategy != "" {
		return opts.StrategyOptions.ForceStrategy
	}

	var key string
	if opts.StrategyOptions.EnableCache {
		key = autoCacheKey(refined, effectiveSections, opts)
		autoCacheMu.Lock()
		cached, ok := autoCache[key]
		autoCacheMu.Unlock()
		if ok {
			return cached
		}
	}

	strategy := analyzeStrategy(refined, effectiveSections, opts)

	if opts.StrategyOptions.EnableCache {
		autoCacheMu.Lock()
		autoCache[key] = strategy
		autoCacheMu.Unlock()
	}
	return strategy
}

func analyzeStrategy(refined schema.RefinedContent, sections []*schema.Section, opts ChunkingOptions) Strategy {
	hasHeadings := len(sections) > 0
	hasTables, hasCode := elementPresence(refined.Structures)

	switch {
	case hasTables || hasCode:
		return StrategyIntelligent
	case hasHeadings && opts.StrategyOptions.PreferQuality:
		return StrategyHierarchical
	case hasHeadings && opts.StrategyOptions.PreferSpeed:
		return StrategyParagraph
	case hasHeadings:
		return StrategyIntelligent
	case opts.StrategyOptions.PreferQuality:
		return StrategySemantic
	default:
		return StrategyParagraph
	}
}

func elementPresence(structs []schema.StructuredElement) (tables, code bool) {
	for _, el := range structs {
		switch el.Kind {
		case schema.ElementTable:
			tables = true
		case schema.ElementCode:
			code = true
		}
	}
	return
}

func autoCacheKey(refined schema.RefinedContent, sections []*schema.Section, opts ChunkingOptions) string {
	return fmt.Sprintf("%s|%s|%s",
		documentSizeBucket(len(refined.Text)),
		structureFingerprint(sections, refined.Structures),
		optionsFingerprint(opts))
}

func documentSizeBucket(n int) string {
	switch {
	case n < 2000:
		return "xs"
	case n < 20000:
		return "sm"
	case n < 100000:
		return "md"
	default:
		return "lg"
	}
}

func structureFingerprint(sections []*schema.Section, structs []schema.StructuredElement) string {
	return fmt.Sprintf("h%d-s%d", countAllHeadings(sections), len(structs))
}

func countAllHeadings(sections []*schema.Section) int {
	n := len(sections)
	for _, s := range sections {
		n += countAllHeadings(s.Children)
	}
	return n
}

func optionsFingerprint(opts ChunkingOptions) string {
	return fmt.Sprintf("%d-%d-%d-%t-%t-%t-%t", opts.MaxChunkSize, opts.OverlapSize, opts.MinChunkSize,
		opts.PreserveSentences, opts.PreserveParagraphs,
		opts.StrategyOptions.PreferSpeed, opts.StrategyOptions.PreferQuality)
}
