//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
)

// Sink receives chunks with their metadata at the end of a run.
type Sink interface {
	Add(ctx context.Context, chunks []*document.Document) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, chunks []*document.Document) error

// Add calls f.
func (f SinkFunc) Add(ctx context.Context, chunks []*document.Document) error {
	return f(ctx, chunks)
}

// Collector keeps every chunk it receives in memory.
type Collector struct {
	Chunks []*document.Document
}

// Add appends chunks.
func (c *Collector) Add(_ context.Context, chunks []*document.Document) error {
	c.Chunks = append(c.Chunks, chunks...)
	return nil
}

// Record is the JSON form of a chunk written by JSONLines.
type Record struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// JSONLines writes one JSON object per chunk.
type JSONLines struct {
	enc *json.Encoder
}

// NewJSONLines returns a sink writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLines{enc: enc}
}

// Add encodes chunks in order. It stops at the first write error or when
// ctx is done.
func (j *JSONLines) Add(ctx context.Context, chunks []*document.Document) error {
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := Record{ID: c.ID, Content: c.Content, Metadata: c.Metadata}
		if err := j.enc.Encode(rec); err != nil {
			return fmt.Errorf("encode chunk %s: %w", c.ID, err)
		}
	}
	return nil
}
