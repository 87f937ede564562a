package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/arborline/chunkforge/boundary"
	"github.com/arborline/chunkforge/capability"
	"github.com/arborline/chunkforge/chunker"
	"github.com/arborline/chunkforge/enricher"
	"github.com/arborline/chunkforge/errkit"
	"github.com/arborline/chunkforge/graph"
	"github.com/arborline/chunkforge/reader"
	"github.com/arborline/chunkforge/refiner"
	"github.com/arborline/chunkforge/schema"
	"github.com/arborline/chunkforge/tokenizer"
)

// Services bundles the optional external collaborators a Coordinator may
// call out to. Every field may be nil; the coordinator and
// the stages it calls degrade to heuristics when a collaborator is
// absent.
type Services struct {
	TextCompletion capability.TextCompletion
	Embedding      capability.Embedding
}

// Source identifies the document a Coordinator processes: either a path
// on disk (Data is nil, and the extension picks the reader) or an
// in-memory buffer (Data is set; NameHint optionally carries a filename
// or extension for reader dispatch, falling back to magic-byte sniffing).
type Source struct {
	Path     string
	Data     []byte
	NameHint string
}

// Options bundles the per-stage option sets a Coordinator's operations
// accept. The zero value uses every stage's documented defaults.
type Options struct {
	Refine            refiner.Options
	Chunk             chunker.ChunkingOptions
	Enrich            enricher.Options
	UseLLM            bool
	UseGraphEmbedding bool
}

// DefaultOptions returns every stage's documented defaults.
func DefaultOptions() Options {
	return Options{
		Refine: refiner.DefaultOptions(),
		Chunk:  chunker.DefaultChunkingOptions(),
		Enrich: enricher.DefaultOptions(),
	}
}

// Coordinator is a single stateful processor for one document. It
// enforces stage ordering, auto-runs prerequisite stages, and owns the
// ProcessingResult it builds up. A Coordinator must
// not be used from more than one goroutine concurrently except through
// its own exported methods, which synchronize internally.
type Coordinator struct {
	mu    sync.Mutex
	state State

	source   Source
	registry *reader.Registry
	services Services
	logger   *zap.Logger

	refiner   *refiner.Refiner
	enricher  *enricher.Enricher
	detector  *boundary.Detector

	streamStarted bool

	result *schema.ProcessingResult
}

// New builds a Coordinator for a single document. registry may be nil, in
// which case reader.NewDefaultRegistry() is used. logger may be nil, in
// which case zap.NewNop() is used.
func New(documentID string, source Source, registry *reader.Registry, services Services, logger *zap.Logger) *Coordinator {
	if registry == nil {
		registry = reader.NewDefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		state:    StateCreated,
		source:   source,
		registry: registry,
		services: services,
		logger:   logger,
		refiner:  refiner.NewRefiner(services.TextCompletion),
		enricher: enricher.NewEnricher(services.TextCompletion),
		detector: boundary.NewDetector(services.Embedding, boundary.DefaultThreshold),
		result:   schema.NewProcessingResult(documentID),
	}
}

// State reports the coordinator's current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns a snapshot of the coordinator's ProcessingResult.
// Outputs are those produced by completed stages; in-progress buffers are
// never exposed.
func (c *Coordinator) Result() *schema.ProcessingResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	snapshot := *c.result
	return &snapshot
}

// Dispose transitions to Disposed. Further stage calls return
// InvalidState. It releases nothing else: the result built so far,
// including the raw and refined intermediates, stays readable via Result.
func (c *Coordinator) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateDisposed
}

func (c *Coordinator) checkDisposed() error {
	if c.state == StateDisposed {
		return errkit.New("", errkit.KindInvalidState, nil, "coordinator is disposed")
	}
	return nil
}

func checkCancelled(ctx context.Context, stage schema.ProcessingStage) error {
	select {
	case <-ctx.Done():
		return errkit.New(stage, errkit.KindCancelled, ctx.Err(), "cancelled before %s", stage)
	default:
		return nil
	}
}

// Extract runs the extraction stage. A call after
// extraction has already completed is a no-op.
func (c *Coordinator) Extract(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extractLocked(ctx)
}

func (c *Coordinator) extractLocked(ctx context.Context) error {
	if err := c.checkDisposed(); err != nil {
		return err
	}
	if c.state.atLeast(StateExtracted) {
		return nil
	}
	if err := checkCancelled(ctx, schema.StageExtract); err != nil {
		return c.failLocked(err)
	}

	start := time.Now()
	raw, err := c.extractRaw(ctx)
	if err != nil {
		return c.failLocked(c.wrapStageErr(schema.StageExtract, errkit.KindSourceUnreadable, err))
	}

	c.result.Raw = raw
	c.result.Metrics.ExtractDuration = time.Since(start)
	c.result.Metrics.SourceFileSize = raw.File.Size
	c.result.Metrics.OriginalCharCount = len(raw.Text)
	c.state = StateExtracted
	c.logger.Info("extract complete", zap.String("document_id", c.result.DocumentID), zap.Duration("duration", c.result.Metrics.ExtractDuration))
	return nil
}

func (c *Coordinator) extractRaw(ctx context.Context) (*schema.RawContent, error) {
	if c.source.Data != nil {
		bs := reader.NewBytesSource(c.registry)
		hint := c.source.NameHint
		if hint == "" {
			hint = c.source.Path
		}
		return bs.Extract(ctx, hint, c.source.Data)
	}

	if c.source.Path == "" {
		return nil, errkit.New(schema.StageExtract, errkit.KindSourceNotFound, nil, "no source path or data provided")
	}

	ext := strings.ToLower(filepath.Ext(c.source.Path))
	r, ok := c.registry.Lookup(ext)
	if !ok {
		return nil, errkit.New(schema.StageExtract, errkit.KindUnsupportedFormat, nil, "no reader registered for extension %q", ext)
	}

	data, err := os.ReadFile(c.source.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errkit.New(schema.StageExtract, errkit.KindSourceNotFound, err, "source %q not found", c.source.Path)
		}
		return nil, errkit.New(schema.StageExtract, errkit.KindSourceUnreadable, err, "source %q unreadable", c.source.Path)
	}

	return r.Extract(ctx, c.source.Path, data)
}

// Refine runs the refinement stage, auto-running Extract first if needed.
func (c *Coordinator) Refine(ctx context.Context, opts refiner.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refineLocked(ctx, opts)
}

func (c *Coordinator) refineLocked(ctx context.Context, opts refiner.Options) error {
	if err := c.checkDisposed(); err != nil {
		return err
	}
	if c.state.atLeast(StateRefined) {
		return nil
	}
	if err := c.extractLocked(ctx); err != nil {
		return err
	}
	if err := checkCancelled(ctx, schema.StageRefine); err != nil {
		return c.failLocked(err)
	}

	start := time.Now()
	refined, err := c.refiner.Refine(ctx, *c.result.Raw, opts)
	if err != nil {
		return c.failLocked(c.wrapStageErr(schema.StageRefine, errkit.KindRefinementError, err))
	}

	c.result.Refined = &refined
	c.result.Metrics.RefineDuration = time.Since(start)
	c.result.Metrics.RefinedCharCount = len(refined.Text)
	c.result.Metrics.StructuresExtracted = len(refined.Structures)
	c.result.Warnings = append(c.result.Warnings, refined.Info.Warnings...)
	c.state = StateRefined
	c.logger.Info("refine complete", zap.String("document_id", c.result.DocumentID), zap.Duration("duration", c.result.Metrics.RefineDuration))
	return nil
}

// LLMRefine runs the optional LLM structural pass over the refined
// content, auto-running Refine first. Failures never propagate: the
// coordinator logs a warning, sets LLMRefined to a pass-through copy of
// Refined, and continues.
func (c *Coordinator) LLMRefine(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.llmRefineLocked(ctx)
}

func (c *Coordinator) llmRefineLocked(ctx context.Context) error {
	if err := c.checkDisposed(); err != nil {
		return err
	}
	if c.state.atLeast(StateLLMRefined) {
		return nil
	}
	if err := c.refineLocked(ctx, refiner.DefaultOptions()); err != nil {
		return err
	}
	if err := checkCancelled(ctx, schema.StageLLMRefine); err != nil {
		return c.failLocked(err)
	}

	start := time.Now()
	enhanced, applied := c.refiner.LLMRefine(ctx, *c.result.Refined)
	if !applied {
		c.logger.Warn("llm_refine fell back to heuristic refined content", zap.String("document_id", c.result.DocumentID))
		c.result.Warnings = append(c.result.Warnings, "llm_refine unavailable or failed; using heuristic refined content")
	}
	c.result.LLMRefined = &enhanced
	if applied {
		c.result.Metrics.LLMRefineTokens = tokenizer.CountTokens(tokenizer.NewSimpleTokenizer(), enhanced.Text)
	}
	c.result.Metrics.LLMRefineDuration = time.Since(start)
	c.state = StateLLMRefined
	return nil
}

// effectiveRefined returns LLMRefined when present, otherwise Refined,
// the content every downstream stage chunks and enriches from.
func (c *Coordinator) effectiveRefined() *schema.RefinedContent {
	if c.result.LLMRefined != nil {
		return c.result.LLMRefined
	}
	return c.result.Refined
}

// Chunk runs the chunking stage, auto-running Refine first. It never
// auto-runs LLMRefine: that stage is opt-in (callers set Options.UseLLM
// and invoke Process, or call LLMRefine explicitly before Chunk).
func (c *Coordinator) Chunk(ctx context.Context, opts chunker.ChunkingOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chunkLocked(ctx, opts)
}

func (c *Coordinator) chunkLocked(ctx context.Context, opts chunker.ChunkingOptions) error {
	if err := c.checkDisposed(); err != nil {
		return err
	}
	if c.state.atLeast(StateChunked) {
		return nil
	}
	if err := c.refineLocked(ctx, refiner.DefaultOptions()); err != nil {
		return err
	}
	if err := checkCancelled(ctx, schema.StageChunk); err != nil {
		return c.failLocked(err)
	}

	start := time.Now()
	refined := c.effectiveRefined()
	chunkResult, err := chunker.Chunk(ctx, *c.result.Raw, *refined, opts, c.detector)
	if err != nil {
		return c.failLocked(c.wrapStageErr(schema.StageChunk, errkit.KindChunkingError, err))
	}

	c.result.Chunks = chunkResult.Chunks
	if chunkResult.HeaderText != "" {
		refined.Metadata.HeaderText = chunkResult.HeaderText
	}
	c.result.Warnings = append(c.result.Warnings, chunkResult.Warnings...)
	c.result.Metrics.ChunkDuration = time.Since(start)
	c.result.Metrics.TotalChunks = len(chunkResult.Chunks)
	c.state = StateChunked
	c.logger.Info("chunk complete", zap.String("document_id", c.result.DocumentID), zap.Int("chunks", len(chunkResult.Chunks)), zap.String("strategy", string(chunkResult.UsedStrategy)))
	return nil
}

// Enrich runs the enrichment stage (scoring, keywords, contextual
// headers, optional LLM filter) and assembles the document graph,
// auto-running Chunk first.
func (c *Coordinator) Enrich(ctx context.Context, opts Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enrichLocked(ctx, opts)
}

func (c *Coordinator) enrichLocked(ctx context.Context, opts Options) error {
	if err := c.checkDisposed(); err != nil {
		return err
	}
	if c.state.atLeast(StateEnriched) {
		return nil
	}
	if err := c.chunkLocked(ctx, opts.Chunk); err != nil {
		return err
	}
	if err := checkCancelled(ctx, schema.StageEnrich); err != nil {
		return c.failLocked(err)
	}

	start := time.Now()
	enrichOpts := opts.Enrich
	if enrichOpts == (enricher.Options{}) {
		enrichOpts = enricher.DefaultOptions()
	}

	chunks, warnings, err := c.enricher.Enrich(ctx, *c.effectiveRefined(), c.result.Chunks, enrichOpts)
	if err != nil {
		return c.failLocked(c.wrapStageErr(schema.StageEnrich, errkit.KindExternalService, err))
	}
	c.result.Chunks = chunks
	c.result.Warnings = append(c.result.Warnings, warnings...)

	var graphOpts graph.Options
	if opts.UseGraphEmbedding {
		graphOpts.Embedding = c.services.Embedding
	}
	docGraph, graphWarnings, err := graph.Build(ctx, c.result.DocumentID, chunks, graphOpts)
	if err != nil {
		return c.failLocked(c.wrapStageErr(schema.StageEnrich, errkit.KindChunkingError, err))
	}
	c.result.Graph = docGraph
	c.result.Warnings = append(c.result.Warnings, graphWarnings...)

	c.result.Metrics.EnrichDuration = time.Since(start)
	c.result.Metrics.TotalChunks = len(chunks)
	c.result.Metrics.GraphNodes = len(docGraph.Nodes)
	c.result.Metrics.GraphEdges = len(docGraph.Edges)
	var totalTokens int
	for _, ch := range chunks {
		totalTokens += ch.Tokens
	}
	c.result.Metrics.TotalTokens = totalTokens

	c.state = StateEnriched
	c.logger.Info("enrich complete", zap.String("document_id", c.result.DocumentID), zap.Int("chunks", len(chunks)), zap.Int("graph_edges", len(docGraph.Edges)))
	return nil
}

// Process runs every stage through Enrich in order, optionally including
// LLMRefine when opts.UseLLM is set.
func (c *Coordinator) Process(ctx context.Context, opts Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.extractLocked(ctx); err != nil {
		return err
	}
	if err := c.refineLocked(ctx, opts.Refine); err != nil {
		return err
	}
	if opts.UseLLM {
		if err := c.llmRefineLocked(ctx); err != nil {
			return err
		}
	}
	if err := c.chunkLocked(ctx, opts.Chunk); err != nil {
		return err
	}
	return c.enrichLocked(ctx, opts)
}

// failLocked transitions the coordinator to Failed, records err in the
// result, and returns it. Partial outputs from prior stages remain on
// c.result.
func (c *Coordinator) failLocked(err error) error {
	c.state = StateFailed
	stage, kind, message, cause := errkit.Decompose(err)
	c.result.AddError(stage, message, cause)
	c.logger.Error("pipeline stage failed", zap.String("document_id", c.result.DocumentID), zap.String("stage", string(stage)), zap.String("kind", string(kind)), zap.Error(err))
	return err
}

func (c *Coordinator) wrapStageErr(stage schema.ProcessingStage, kind errkit.Kind, err error) error {
	if e, ok := err.(*errkit.Error); ok {
		return e
	}
	return errkit.New(stage, kind, err, "%s failed: %v", stage, err)
}
