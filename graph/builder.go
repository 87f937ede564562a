// Package graph assembles the document-level graph of sequential and
// hierarchical relationships between chunks: one node
// per chunk plus Sequential, ParentChild, SiblingContext and optional
// SemanticLink edges.
package graph

import (
	"context"
	"math"
	"sort"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/schema"
)

// semanticSimilarityThreshold is the cosine-similarity cutoff above which
// two chunks get a SemanticLink edge.
const semanticSimilarityThreshold = 0.85

// maxSemanticOutEdges caps the number of SemanticLink out-edges per node
// so a dense, near-duplicate document doesn't produce a near-complete
// graph.
const maxSemanticOutEdges = 3

// Options controls which edge kinds Build computes.
type Options struct {
	// Embedding is consulted for SemanticLink edges; nil skips them
	// entirely.
	Embedding capability.Embedding
}

// Build assembles a DocumentGraph from chunks in document order. Chunks
// without any hierarchical linkage (ParentID/ChildIDs unset) still get a
// fully-connected Sequential chain, satisfying the "a source
// with no headings still produces a valid graph where every edge is
// Sequential".
func Build(ctx context.Context, documentID string, chunks []*schema.DocumentChunk, opts Options) (*schema.DocumentGraph, []string, error) {
	g := &schema.DocumentGraph{DocumentID: documentID}
	if len(chunks) == 0 {
		return g, nil, nil
	}

	var warnings []string

	nodes := make([]schema.ChunkNode, len(chunks))
	idToIndex := make(map[string]int, len(chunks))
	for i, c := range chunks {
		idToIndex[c.ID] = i
	}

	for i, c := range chunks {
		pos := schema.ChunkPosition{
			Sequence: i,
			Depth:    len(c.Location.HeadingPath),
		}
		if i > 0 {
			prev := chunks[i-1].ID
			pos.PreviousID = &prev
		}
		if i < len(chunks)-1 {
			next := chunks[i+1].ID
			pos.NextID = &next
		}

		summary, _ := c.Props["summary"].(string)
		var keywords []string
		if kw, ok := c.Props["technical_keywords"].([]string); ok {
			keywords = kw
		}

		nodes[i] = schema.ChunkNode{
			ChunkID:     c.ID,
			Index:       c.Index,
			Summary:     summary,
			Keywords:    keywords,
			SectionPath: append([]string(nil), c.Location.HeadingPath...),
			Position:    pos,
		}
	}
	g.Nodes = nodes

	var edges []schema.ChunkEdge
	for i := 0; i < len(chunks)-1; i++ {
		edges = append(edges, schema.ChunkEdge{
			SourceID: chunks[i].ID,
			TargetID: chunks[i+1].ID,
			Type:     schema.EdgeSequential,
			Weight:   1.0,
			Label:    "next",
		})
	}

	siblingsByParent := make(map[string][]string)
	for _, c := range chunks {
		if c.ParentID == nil {
			continue
		}
		edges = append(edges, schema.ChunkEdge{
			SourceID: *c.ParentID,
			TargetID: c.ID,
			Type:     schema.EdgeParentChild,
			Weight:   1.0,
			Label:    "parent_of",
		})
		if _, ok := idToIndex[*c.ParentID]; !ok {
			// Parent referenced but not present among this call's chunks
			// (e.g. a header-separated root retained only in metadata);
			// the edge is still recorded by id, it just has no matching node.
			warnings = append(warnings, "parent_child edge references parent "+*c.ParentID+" not present in this chunk set")
		}
		siblingsByParent[*c.ParentID] = append(siblingsByParent[*c.ParentID], c.ID)
	}

	for _, siblingIDs := range siblingsByParent {
		if len(siblingIDs) < 2 {
			continue
		}
		for i := 0; i < len(siblingIDs); i++ {
			for j := i + 1; j < len(siblingIDs); j++ {
				edges = append(edges, schema.ChunkEdge{
					SourceID: siblingIDs[i],
					TargetID: siblingIDs[j],
					Type:     schema.EdgeSiblingContext,
					Weight:   0.5,
					Label:    "sibling",
				})
			}
		}
	}

	if opts.Embedding != nil {
		semanticEdges, semWarnings := semanticLinks(ctx, opts.Embedding, chunks)
		edges = append(edges, semanticEdges...)
		warnings = append(warnings, semWarnings...)
	}

	g.Edges = edges
	return g, warnings, nil
}

// semanticLinks embeds every chunk's content and links pairs whose cosine
// similarity exceeds semanticSimilarityThreshold, capped at
// maxSemanticOutEdges out-edges per node. Embedding failures are never
// fatal: they produce a warning and skip the semantic pass entirely.
func semanticLinks(ctx context.Context, embedding capability.Embedding, chunks []*schema.DocumentChunk) ([]schema.ChunkEdge, []string) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := embedding.EmbedBatch(ctx, texts)
	if err != nil || len(vectors) != len(chunks) {
		return nil, []string{"semantic link embedding failed; graph built without SemanticLink edges"}
	}

	type scored struct {
		targetIdx int
		sim       float64
	}

	var edges []schema.ChunkEdge
	for i := range chunks {
		var candidates []scored
		for j := range chunks {
			if i == j {
				continue
			}
			sim := cosine(vectors[i], vectors[j])
			if sim > semanticSimilarityThreshold {
				candidates = append(candidates, scored{targetIdx: j, sim: sim})
			}
		}
		sort.Slice(candidates, func(a, b int) bool { return candidates[a].sim > candidates[b].sim })
		if len(candidates) > maxSemanticOutEdges {
			candidates = candidates[:maxSemanticOutEdges]
		}
		for _, cand := range candidates {
			edges = append(edges, schema.ChunkEdge{
				SourceID: chunks[i].ID,
				TargetID: chunks[cand.targetIdx].ID,
				Type:     schema.EdgeSemanticLink,
				Weight:   cand.sim,
				Label:    "semantic",
			})
		}
	}
	return edges, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
