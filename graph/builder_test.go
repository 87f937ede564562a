package graph_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/graph"
	"github.com/arborline/chunkforge/schema"
)

func chunkWithID(id string, index int, headingPath []string) *schema.DocumentChunk {
	return &schema.DocumentChunk{
		ID:      id,
		Content: "content for " + id,
		Index:   index,
		Location: schema.SourceLocation{
			HeadingPath: headingPath,
		},
		Props: map[string]any{},
	}
}

func TestBuild_EmptyChunks(t *testing.T) {
	g, warnings, err := graph.Build(context.Background(), "doc-1", nil, graph.Options{})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Empty(t, g.Nodes)
	require.Empty(t, g.Edges)
}

func TestBuild_FlatChunksAreAllSequential(t *testing.T) {
	chunks := []*schema.DocumentChunk{
		chunkWithID("a", 0, nil),
		chunkWithID("b", 1, nil),
		chunkWithID("c", 2, nil),
	}

	g, _, err := graph.Build(context.Background(), "doc-1", chunks, graph.Options{})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 2)
	for _, e := range g.Edges {
		require.Equal(t, schema.EdgeSequential, e.Type)
		require.Equal(t, 1.0, e.Weight)
	}

	require.Nil(t, g.Nodes[0].Position.PreviousID)
	require.Equal(t, "b", *g.Nodes[0].Position.NextID)
	require.Equal(t, "a", *g.Nodes[1].Position.PreviousID)
	require.Nil(t, g.Nodes[2].Position.NextID)
}

func TestBuild_ParentChildAndSiblingEdges(t *testing.T) {
	parent := chunkWithID("root", 0, []string{"A"})
	child1 := chunkWithID("c1", 1, []string{"A", "A.1"})
	child2 := chunkWithID("c2", 2, []string{"A", "A.2"})
	parentID := parent.ID
	child1.ParentID = &parentID
	child2.ParentID = &parentID
	parent.ChildIDs = []string{child1.ID, child2.ID}

	chunks := []*schema.DocumentChunk{parent, child1, child2}

	g, warnings, err := graph.Build(context.Background(), "doc-1", chunks, graph.Options{})
	require.NoError(t, err)
	require.Empty(t, warnings)

	var parentChild, sibling, sequential int
	for _, e := range g.Edges {
		switch e.Type {
		case schema.EdgeParentChild:
			parentChild++
			require.Equal(t, "root", e.SourceID)
		case schema.EdgeSiblingContext:
			sibling++
		case schema.EdgeSequential:
			sequential++
		}
	}
	require.Equal(t, 2, parentChild)
	require.Equal(t, 1, sibling)
	require.Equal(t, 2, sequential)
}

func TestBuild_SemanticLinksRequireEmbedding(t *testing.T) {
	chunks := []*schema.DocumentChunk{
		chunkWithID("a", 0, nil),
		chunkWithID("b", 1, nil),
		chunkWithID("c", 2, nil),
		chunkWithID("d", 3, nil),
	}

	g, _, err := graph.Build(context.Background(), "doc-1", chunks, graph.Options{})
	require.NoError(t, err)
	for _, e := range g.Edges {
		require.NotEqual(t, schema.EdgeSemanticLink, e.Type)
	}

	embedding := capability.NewMockEmbedding([]float32{1, 0, 0})
	g, warnings, err := graph.Build(context.Background(), "doc-1", chunks, graph.Options{Embedding: embedding})
	require.NoError(t, err)
	require.Empty(t, warnings)

	semanticOutEdges := make(map[string]int)
	for _, e := range g.Edges {
		if e.Type == schema.EdgeSemanticLink {
			semanticOutEdges[e.SourceID]++
		}
	}
	for _, n := range g.Nodes {
		require.LessOrEqual(t, semanticOutEdges[n.ChunkID], 3)
	}
}

func TestBuild_SemanticLinkEmbeddingFailureIsNonFatal(t *testing.T) {
	chunks := []*schema.DocumentChunk{chunkWithID("a", 0, nil), chunkWithID("b", 1, nil)}
	embedding := capability.NewMockEmbeddingWithError(context.DeadlineExceeded)

	g, warnings, err := graph.Build(context.Background(), "doc-1", chunks, graph.Options{Embedding: embedding})
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	for _, e := range g.Edges {
		require.NotEqual(t, schema.EdgeSemanticLink, e.Type)
	}
}
