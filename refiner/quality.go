package refiner

import "github.com/arborline/chunkforge/schema"

// computeQuality implements the heuristic quality scores. cleanupScore
// stands in for the consistency term in the overall average; the
// heuristic pipeline has no separate signal for it.
func computeQuality(rawText, refinedText string, anyStructures bool) schema.RefinementQuality {
	structureScore := 0.5
	if anyStructures {
		structureScore = 0.8
	}

	const cleanupScore = 0.7
	const confidenceScore = 0.75

	retention := 1.0
	if len(rawText) > 0 {
		retention = float64(len(refinedText)) / float64(len(rawText))
		if retention > 1 {
			retention = 1
		}
	}

	overall := (structureScore + cleanupScore + retention) / 3

	return schema.RefinementQuality{
		StructureScore:  structureScore,
		CleanupScore:    cleanupScore,
		RetentionScore:  retention,
		ConfidenceScore: confidenceScore,
		Overall:         overall,
	}
}
