//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/internal/encoding"
)

// CharacterChunking splits on line breaks only and packs lines into windows.
// A line longer than the chunk size is cut at character boundaries.
type CharacterChunking struct {
	chunkSize int
	overlap   int
}

// NewCharacterChunking creates a new line-based chunking strategy.
func NewCharacterChunking(opts ...Option) *CharacterChunking {
	o := newOptions(opts)
	return &CharacterChunking{chunkSize: o.chunkSize, overlap: o.overlap}
}

// Chunk splits the document into line-aligned chunks.
func (c *CharacterChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	if encoding.RuneCount(doc.Content) <= c.chunkSize {
		return createChunks(doc, []string{doc.Content}), nil
	}
	m := merger{size: c.chunkSize, overlap: c.overlap, length: encoding.RuneCount}
	texts := splitRecursive(normalizeNewlines(doc.Content), []string{"\n"}, c.chunkSize, m)
	return createChunks(doc, texts), nil
}
