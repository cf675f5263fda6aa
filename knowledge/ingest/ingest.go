//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package ingest runs uploaded files through validation, loading, chunking
// and hand-off to a Sink.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	otelmetric "go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trpc.group/trpc-go/trpc-rag-ingest/config"
	itelemetry "trpc.group/trpc-go/trpc-rag-ingest/internal/telemetry"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/chunking"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/internal/stats"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source/upload"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/validator"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
	"trpc.group/trpc-go/trpc-rag-ingest/telemetry/metric"
	"trpc.group/trpc-go/trpc-rag-ingest/telemetry/trace"
)

// Result is the outcome of a successful run.
type Result struct {
	// Documents are the loaded, enriched documents.
	Documents []*document.Document
	// Chunks are the chunks handed to the sink.
	Chunks []*document.Document
	// Failures lists files skipped when skip-failures is enabled.
	Failures []upload.Failure
}

// Pipeline ingests batches of uploaded files. The chunking strategy is fixed
// when the pipeline is built; later configuration changes do not affect it.
type Pipeline struct {
	strategyName string
	strategy     chunking.Strategy
	sink         Sink
	sourceOpts   []upload.Option
	stats        bool
	parallelism  int
	counters     *metric.Counters
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSink sets where chunks are handed off. Without it chunks are only returned.
func WithSink(s Sink) Option {
	return func(p *Pipeline) {
		p.sink = s
	}
}

// WithSourceOptions passes options to the upload source of every run.
func WithSourceOptions(opts ...upload.Option) Option {
	return func(p *Pipeline) {
		p.sourceOpts = append(p.sourceOpts, opts...)
	}
}

// WithSkipFailures keeps going when a file fails to load.
func WithSkipFailures(skip bool) Option {
	return WithSourceOptions(upload.WithSkipFailures(skip))
}

// WithStrategy overrides the configured chunking strategy.
func WithStrategy(name string, s chunking.Strategy) Option {
	return func(p *Pipeline) {
		p.strategyName = name
		p.strategy = s
	}
}

// WithStats logs chunk size statistics after every run.
func WithStats(enabled bool) Option {
	return func(p *Pipeline) {
		p.stats = enabled
	}
}

// WithParallelism chunks up to n documents at once. Values below 2 keep
// chunking sequential. Chunk order does not depend on n.
func WithParallelism(n int) Option {
	return func(p *Pipeline) {
		p.parallelism = n
	}
}

// New builds a pipeline from cfg. A nil cfg means config.Default().
func New(cfg *config.AppConfig, opts ...Option) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.strategy == nil {
		p.strategyName = cfg.ChunkStrategy
		p.strategy = newStrategy(cfg)
	}
	counters, err := metric.NewCounters(metric.Meter)
	if err != nil {
		log.Warnf("ingest: metrics disabled: %v", err)
	}
	p.counters = counters
	return p
}

func newStrategy(cfg *config.AppConfig) chunking.Strategy {
	opts := []chunking.Option{
		chunking.WithChunkSize(cfg.ChunkSize),
		chunking.WithOverlap(cfg.ChunkOverlap),
	}
	if strings.EqualFold(strings.TrimSpace(cfg.ChunkStrategy), chunking.NameSentence) {
		if tok, err := chunking.NewTokenizer(cfg.ModelName); err == nil {
			opts = append(opts, chunking.WithTokenizer(tok))
		} else {
			log.Debugf("ingest: tokenizer for %s unavailable: %v", cfg.ModelName, err)
		}
	}
	return chunking.New(cfg.ChunkStrategy, opts...)
}

// Run validates files, loads them, chunks the documents and hands the
// chunks to the sink.
func (p *Pipeline) Run(ctx context.Context, files []upload.File) (res *Result, err error) {
	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameRun)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.String(itelemetry.KeyErrorKind, string(Kind(err))))
		}
		span.End()
	}()

	if ok, msg := validator.ValidateFiles(files); !ok {
		return nil, fmt.Errorf("%w: %s", ErrValidation, msg)
	}

	docs, failures, err := p.load(ctx, files)
	if err != nil {
		return nil, err
	}

	chunks, err := p.chunk(ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := p.handoff(ctx, chunks); err != nil {
		return nil, err
	}

	itelemetry.TraceRun(span, p.strategyName, len(files), len(docs), len(chunks), len(failures))
	log.Infof("Ingested %d file(s): %d document(s), %d chunk(s), %d skipped",
		len(files), len(docs), len(chunks), len(failures))
	return &Result{Documents: docs, Chunks: chunks, Failures: failures}, nil
}

func (p *Pipeline) load(ctx context.Context, files []upload.File) ([]*document.Document, []upload.Failure, error) {
	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameLoad)
	defer span.End()

	src := upload.New(files, p.sourceOpts...)
	docs, err := src.ReadDocuments(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.countFiles(ctx, "failed", 1)
		return nil, nil, err
	}
	failures := src.Failures()
	p.countFiles(ctx, "loaded", len(files)-len(failures))
	p.countFiles(ctx, "skipped", len(failures))
	span.SetAttributes(attribute.Int(itelemetry.KeyDocumentCount, len(docs)))
	return docs, failures, nil
}

func (p *Pipeline) chunk(ctx context.Context, docs []*document.Document) ([]*document.Document, error) {
	_, span := trace.Tracer.Start(ctx, itelemetry.SpanNameChunk,
		oteltrace.WithAttributes(attribute.String(itelemetry.KeyStrategy, p.strategyName)))
	defer span.End()

	var (
		chunks []*document.Document
		err    error
	)
	if p.parallelism > 1 && len(docs) > 1 {
		chunks, err = chunkParallel(p.strategy, docs, p.parallelism)
	} else {
		chunks, err = chunking.ChunkDocuments(p.strategy, docs)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("chunking failed: %w", err)
	}
	span.SetAttributes(attribute.Int(itelemetry.KeyChunkCount, len(chunks)))

	if p.stats {
		st := stats.New(nil)
		for _, c := range chunks {
			if n, ok := c.Metadata[source.MetaChunkSize].(int); ok {
				st.Add(n)
			}
		}
		st.Log()
	}
	return chunks, nil
}

func (p *Pipeline) handoff(ctx context.Context, chunks []*document.Document) error {
	if p.sink == nil || len(chunks) == 0 {
		return nil
	}
	ctx, span := trace.Tracer.Start(ctx, itelemetry.SpanNameHandoff,
		oteltrace.WithAttributes(attribute.Int(itelemetry.KeyChunkCount, len(chunks))))
	defer span.End()

	if err := p.sink.Add(ctx, chunks); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %w", ErrHandoff, err)
	}
	if p.counters != nil {
		p.counters.Chunks.Add(ctx, int64(len(chunks)))
	}
	return nil
}

func (p *Pipeline) countFiles(ctx context.Context, outcome string, n int) {
	if p.counters == nil || n <= 0 {
		return
	}
	p.counters.Files.Add(ctx, int64(n),
		otelmetric.WithAttributes(attribute.String(itelemetry.KeyOutcome, outcome)))
}
