//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package langchain hands chunks to a langchaingo vector store.
package langchain

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
)

// MetaChunkID is the metadata key carrying the chunk ID into the store.
const MetaChunkID = "chunk_id"

const defaultBatchSize = 64

var _ ingest.Sink = (*Sink)(nil)

// Sink adds chunks to a vectorstores.VectorStore.
type Sink struct {
	store     vectorstores.VectorStore
	batchSize int
	storeOpts []vectorstores.Option
	ids       []string
}

// Option configures a Sink.
type Option func(*Sink)

// WithBatchSize sets how many chunks are sent per AddDocuments call.
func WithBatchSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithNameSpace targets a namespace or collection in the store.
func WithNameSpace(ns string) Option {
	return func(s *Sink) {
		s.storeOpts = append(s.storeOpts, vectorstores.WithNameSpace(ns))
	}
}

// New returns a sink writing to store.
func New(store vectorstores.VectorStore, opts ...Option) *Sink {
	s := &Sink{store: store, batchSize: defaultBatchSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add converts chunks and adds them in batches.
func (s *Sink) Add(ctx context.Context, chunks []*document.Document) error {
	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		ids, err := s.store.AddDocuments(ctx, ToSchema(chunks[start:end]), s.storeOpts...)
		if err != nil {
			return fmt.Errorf("add documents %d-%d: %w", start, end-1, err)
		}
		s.ids = append(s.ids, ids...)
	}
	return nil
}

// IDs returns the store IDs returned so far.
func (s *Sink) IDs() []string {
	return s.ids
}

// ToSchema converts chunks to langchaingo documents. The chunk ID is kept
// under MetaChunkID unless the chunk already carries that key.
func ToSchema(chunks []*document.Document) []schema.Document {
	out := make([]schema.Document, 0, len(chunks))
	for _, c := range chunks {
		meta := make(map[string]any, len(c.Metadata)+1)
		for k, v := range c.Metadata {
			meta[k] = v
		}
		if _, ok := meta[MetaChunkID]; !ok && c.ID != "" {
			meta[MetaChunkID] = c.ID
		}
		out = append(out, schema.Document{PageContent: c.Content, Metadata: meta})
	}
	return out
}
