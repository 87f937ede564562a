package pipeline

import (
	"context"
	"runtime"

	"github.com/arborline/chunkforge/chunker"
	"github.com/arborline/chunkforge/errkit"
	"github.com/arborline/chunkforge/schema"
)

// ChunkStream runs the chunking stage (auto-running Extract and Refine
// first) and yields finalized chunks one at a time, in strictly ascending
// index order. The stream is finite and not restartable: a second call on
// the same coordinator reports InvalidState. When the chunk channel
// closes without an error on the error channel, the coordinator's result
// holds the same chunks the stream delivered.
//
// The chunk channel is bounded at twice the worker count, so a slow
// consumer suspends production instead of accumulating chunks beyond
// those retained in the result.
func (c *Coordinator) ChunkStream(ctx context.Context, opts chunker.ChunkingOptions) (<-chan schema.DocumentChunk, <-chan error) {
	chunkChan := make(chan schema.DocumentChunk, 2*runtime.GOMAXPROCS(0))
	errChan := make(chan error, 1)

	c.mu.Lock()
	if c.streamStarted {
		c.mu.Unlock()
		errChan <- errkit.New(schema.StageChunk, errkit.KindInvalidState, nil, "chunk stream already consumed")
		close(chunkChan)
		close(errChan)
		return chunkChan, errChan
	}
	c.streamStarted = true

	if err := c.chunkLocked(ctx, opts); err != nil {
		c.mu.Unlock()
		errChan <- err
		close(chunkChan)
		close(errChan)
		return chunkChan, errChan
	}
	chunks := c.result.Chunks
	c.mu.Unlock()

	go func() {
		defer close(chunkChan)
		defer close(errChan)

		for _, ch := range chunks {
			select {
			case chunkChan <- *ch:
			case <-ctx.Done():
				errChan <- errkit.New(schema.StageChunk, errkit.KindCancelled, ctx.Err(), "cancelled while streaming chunks")
				return
			}
		}
	}()

	return chunkChan, errChan
}
