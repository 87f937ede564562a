package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/arborline/chunkforge/reader"
	"github.com/arborline/chunkforge/schema"
)

// BatchDocument pairs a document id with its source for batch processing.
type BatchDocument struct {
	DocumentID string
	Source     Source
}

// BatchFailure records one failed document in a batch. The partial result
// carries every stage output that completed before the failure.
type BatchFailure struct {
	DocumentID string
	Err        error
	Partial    *schema.ProcessingResult
}

// BatchResult aggregates a batch run. Succeeded preserves input order;
// Failed lists documents whose pipeline errored, isolated from the rest.
type BatchResult struct {
	Succeeded []*schema.ProcessingResult
	Failed    []BatchFailure
}

// BatchProcessor runs the full pipeline over many documents with a
// bounded worker pool. Failures are isolated per document: an errored
// document lands in the batch's failed list and the remaining documents
// continue.
type BatchProcessor struct {
	registry *reader.Registry
	services Services
	logger   *zap.Logger
	workers  int
}

// NewBatchProcessor builds a BatchProcessor. workers below 1 is treated
// as 1. registry and logger may be nil, with the same defaults as New.
func NewBatchProcessor(registry *reader.Registry, services Services, logger *zap.Logger, workers int) *BatchProcessor {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		registry: registry,
		services: services,
		logger:   logger,
		workers:  workers,
	}
}

type batchOutcome struct {
	index  int
	result *schema.ProcessingResult
	err    error
}

// Process runs every document through Coordinator.Process. Cancellation
// of ctx does not stop dispatch: every document still gets a Coordinator,
// which observes the cancellation at its next stage boundary, so documents
// not yet started fail at their first stage.
func (b *BatchProcessor) Process(ctx context.Context, docs []BatchDocument, opts Options) BatchResult {
	outcomes := make([]batchOutcome, len(docs))
	jobChan := make(chan int, len(docs))
	var wg sync.WaitGroup

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				doc := docs[idx]
				coord := New(doc.DocumentID, doc.Source, b.registry, b.services, b.logger)
				err := coord.Process(ctx, opts)
				outcomes[idx] = batchOutcome{index: idx, result: coord.Result(), err: err}
			}
		}()
	}

	for i := range docs {
		jobChan <- i
	}
	close(jobChan)
	wg.Wait()

	var out BatchResult
	for _, o := range outcomes {
		if o.err != nil {
			b.logger.Warn("batch document failed",
				zap.String("document_id", docs[o.index].DocumentID),
				zap.Error(o.err))
			out.Failed = append(out.Failed, BatchFailure{
				DocumentID: docs[o.index].DocumentID,
				Err:        o.err,
				Partial:    o.result,
			})
			continue
		}
		out.Succeeded = append(out.Succeeded, o.result)
	}
	return out
}
