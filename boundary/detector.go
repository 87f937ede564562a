package boundary

import (
	"context"
	"math"

	"github.com/arborline/chunkforge/capability"
)

// DefaultThreshold is the similarity threshold below which two segments
// are considered a boundary. Empirical; kept configurable rather than a
// constant.
const DefaultThreshold = 0.7

// Detector computes boundary verdicts between consecutive text segments.
// The zero value is usable: it runs the text-only Jaccard fallback.
type Detector struct {
	Embedding capability.Embedding
	Threshold float64
}

// NewDetector creates a Detector. embedding may be nil.
func NewDetector(embedding capability.Embedding, threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Embedding: embedding, Threshold: threshold}
}

// Detect classifies the potential cut between segmentA and segmentB.
// Embedding failures are never fatal: they fall back to the text-based
// method.
func (d *Detector) Detect(ctx context.Context, segmentA, segmentB string) (Boundary, error) {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	similarity, usedEmbedding, effectiveThreshold := d.similarity(ctx, segmentA, segmentB, threshold)

	multiplier := 1.5
	if usedEmbedding {
		multiplier = 2.0
	}

	isBoundary := similarity < effectiveThreshold
	confidence := math.Min(1, math.Abs(similarity-effectiveThreshold)/effectiveThreshold*multiplier)

	return Boundary{
		IsBoundary:    isBoundary,
		Similarity:    similarity,
		Confidence:    confidence,
		Type:          classify(segmentA, segmentB, similarity),
		UsedEmbedding: usedEmbedding,
	}, nil
}

// similarity computes segment similarity, preferring the embedding
// service when available and falling back to Jaccard text similarity on
// any error. It returns the similarity, whether the embedding path was
// used, and the threshold to compare it against (the text path compares
// against threshold*0.8).
func (d *Detector) similarity(ctx context.Context, a, b string, threshold float64) (float64, bool, float64) {
	if d.Embedding != nil {
		vectors, err := d.Embedding.EmbedBatch(ctx, []string{a, b})
		if err == nil && len(vectors) == 2 {
			return cosineSimilarity(vectors[0], vectors[1]), true, threshold
		}
	}
	return jaccardSimilarity(a, b), false, threshold * 0.8
}

// DetectAll computes boundaries for every consecutive pair in segments,
// then merges near-duplicate boundaries and boosts confidence across
// very differently sized segments.
// An empty or single-segment input yields an empty result.
func (d *Detector) DetectAll(ctx context.Context, segments []string) ([]Point, error) {
	if len(segments) < 2 {
		return nil, nil
	}

	points := make([]Point, 0, len(segments)-1)
	for i := 0; i < len(segments)-1; i++ {
		b, err := d.Detect(ctx, segments[i], segments[i+1])
		if err != nil {
			return nil, err
		}
		confidence := b.Confidence
		if sizeRatio(segments[i], segments[i+1]) < 0.3 {
			confidence = math.Min(1, confidence*1.2)
		}
		points = append(points, Point{
			SegmentIndex: i,
			Similarity:   b.Similarity,
			Confidence:   confidence,
			Type:         b.Type,
			IsBoundary:   b.IsBoundary,
		})
	}

	return mergeNearbyBoundaries(points), nil
}

// sizeRatio returns the smaller-to-larger length ratio of two segments.
func sizeRatio(a, b string) float64 {
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}

// mergeNearbyBoundaries collapses boundaries within 2 segments of each
// other, keeping the higher-confidence one.
func mergeNearbyBoundaries(points []Point) []Point {
	var merged []Point
	for _, p := range points {
		if !p.IsBoundary {
			merged = append(merged, p)
			continue
		}
		replaced := false
		for i := len(merged) - 1; i >= 0; i-- {
			if !merged[i].IsBoundary {
				continue
			}
			if p.SegmentIndex-merged[i].SegmentIndex <= 2 {
				if p.Confidence > merged[i].Confidence {
					merged = append(merged[:i], merged[i+1:]...)
					merged = append(merged, p)
				}
				replaced = true
			}
			break
		}
		if !replaced {
			merged = append(merged, p)
		}
	}
	return merged
}
