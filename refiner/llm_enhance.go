package refiner

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/arborline/chunkforge/schema"
)

const llmEnhanceTruncateLimit = 8000

// LLMRefine produces the pipeline's distinct llm_refine stage output: a
// copy of refined with the LLM's structural reordering applied to its
// text. When the Refiner has no LLM it returns a pass-through copy of
// refined with no warning; when the call fails it returns a pass-through
// copy with the failure warning appended to Info.Warnings, rather than an
// error. The coordinator treats llm_refine failures as non-fatal.
func (r *Refiner) LLMRefine(ctx context.Context, refined schema.RefinedContent) (schema.RefinedContent, bool) {
	out := refined
	out.ID = uuid.NewString()
	out.RawID = refined.RawID

	if r.LLM == nil {
		return out, false
	}

	enhanced, fellBack, warn := r.enhanceWithLLM(ctx, refined.Text)
	out.Info.UsedLLM = true
	if fellBack {
		out.Info.LLMFellBack = true
		if warn != "" {
			out.Info.Warnings = append(append([]string(nil), refined.Info.Warnings...), warn)
		}
		return out, false
	}
	out.Text = enhanced
	return out, true
}

// enhanceWithLLM asks the configured
// TextCompletion service to reorder the heuristic markdown's structure
// without adding content. Returns the enhanced text, whether the call
// fell back to the heuristic output, and (on fallback) a warning to
// record.
func (r *Refiner) enhanceWithLLM(ctx context.Context, heuristic string) (string, bool, string) {
	prompt := heuristic
	if len(prompt) > llmEnhanceTruncateLimit {
		prompt = prompt[:llmEnhanceTruncateLimit] + "\n… (truncated)"
	}

	request := "Reorder the structure of the following markdown document for clarity. " +
		"Do not add, remove, or summarize any content; return the full document wrapped in " +
		"a single ```markdown code fence.\n\n" + prompt

	response, err := r.LLM.Complete(ctx, request)
	if err != nil {
		return heuristic, true, "llm structural enhancement failed: " + err.Error()
	}

	enhanced, ok := extractFencedMarkdown(response)
	if !ok {
		return heuristic, true, "llm structural enhancement response had no extractable code fence; heuristic output retained"
	}
	return enhanced, false, ""
}

// extractFencedMarkdown pulls the content out of the first ``` ... ```
// code fence in response, tolerating an optional language tag on the
// opening fence line.
func extractFencedMarkdown(response string) (string, bool) {
	start := strings.Index(response, "```")
	if start == -1 {
		return "", false
	}
	rest := response[start+3:]
	if nl := strings.IndexByte(rest, '\n'); nl != -1 {
		rest = rest[nl+1:]
	}
	end := strings.Index(rest, "```")
	if end == -1 {
		return "", false
	}
	content := strings.TrimSpace(rest[:end])
	if content == "" {
		return "", false
	}
	return content, true
}
