//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package chunking provides document chunking strategies and utilities.
package chunking

import (
	"strconv"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/internal/encoding"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

// Strategy defines the interface for document chunking strategies.
type Strategy interface {
	// Chunk splits a document into smaller chunks based on the strategy's algorithm.
	Chunk(doc *document.Document) ([]*document.Document, error)
}

const (
	defaultChunkSize = 1000
	defaultOverlap   = 200
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// options holds the settings shared by all strategies.
type options struct {
	chunkSize  int
	overlap    int
	separators []string
	tokenizer  Tokenizer
}

// Option configures a chunking strategy.
type Option func(*options)

// WithChunkSize sets the maximum size of each chunk in characters.
func WithChunkSize(size int) Option {
	return func(o *options) {
		o.chunkSize = size
	}
}

// WithOverlap sets the number of characters shared by consecutive chunks.
func WithOverlap(overlap int) Option {
	return func(o *options) {
		o.overlap = overlap
	}
}

// WithSeparators sets the separators to use in priority order.
// Only the recursive strategy honours it.
func WithSeparators(separators []string) Option {
	return func(o *options) {
		o.separators = separators
	}
}

// WithTokenizer sets the tokenizer used by the sentence strategy.
func WithTokenizer(t Tokenizer) Option {
	return func(o *options) {
		o.tokenizer = t
	}
}

func newOptions(opts []Option) options {
	o := options{
		chunkSize:  defaultChunkSize,
		overlap:    defaultOverlap,
		separators: defaultSeparators,
	}
	for _, opt := range opts {
		opt(&o)
	}
	o.chunkSize, o.overlap = clampWindow(o.chunkSize, o.overlap)
	if len(o.separators) == 0 {
		o.separators = defaultSeparators
	}
	return o
}

// clampWindow brings size and overlap into range: size defaults when not
// positive, overlap is never negative and always smaller than size.
func clampWindow(size, overlap int) (int, int) {
	if size <= 0 {
		log.Warnf("chunking: chunk size %d is not positive, using %d", size, defaultChunkSize)
		size = defaultChunkSize
	}
	if overlap < 0 {
		log.Warnf("chunking: overlap %d is negative, using 0", overlap)
		overlap = 0
	}
	if overlap >= size {
		clamped := min(defaultOverlap, size-1)
		log.Warnf("chunking: overlap %d is not smaller than chunk size %d, using %d", overlap, size, clamped)
		overlap = clamped
	}
	return size, overlap
}

// ChunkDocuments chunks every non-empty document and returns the chunks in order.
func ChunkDocuments(s Strategy, docs []*document.Document) ([]*document.Document, error) {
	var chunks []*document.Document
	for _, doc := range docs {
		if doc.IsEmpty() {
			continue
		}
		parts, err := s.Chunk(doc)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, parts...)
	}
	return chunks, nil
}

// checkDocument rejects nil and empty documents.
func checkDocument(doc *document.Document) error {
	if doc == nil {
		return ErrNilDocument
	}
	if doc.IsEmpty() {
		return ErrEmptyDocument
	}
	return nil
}

// normalizeNewlines converts CRLF and CR line endings to LF.
func normalizeNewlines(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// createChunks turns chunk texts into documents numbered from 1.
func createChunks(originalDoc *document.Document, texts []string) []*document.Document {
	chunks := make([]*document.Document, 0, len(texts))
	for _, text := range texts {
		chunks = append(chunks, createChunk(originalDoc, text, len(chunks)+1))
	}
	return chunks
}

// createChunk creates a new document chunk with appropriate metadata.
func createChunk(originalDoc *document.Document, content string, chunkNumber int) *document.Document {
	metadata := make(map[string]any, len(originalDoc.Metadata)+2)
	for k, v := range originalDoc.Metadata {
		metadata[k] = v
	}
	metadata[source.MetaChunkIndex] = chunkNumber
	metadata[source.MetaChunkSize] = encoding.RuneCount(content)

	var chunkID string
	if originalDoc.ID != "" {
		chunkID = originalDoc.ID + "_" + strconv.Itoa(chunkNumber)
	} else if originalDoc.Name != "" {
		chunkID = originalDoc.Name + "_" + strconv.Itoa(chunkNumber)
	} else {
		chunkID = "chunk_" + strconv.Itoa(chunkNumber)
	}

	now := time.Now().UTC()
	return &document.Document{
		ID:        chunkID,
		Name:      originalDoc.Name,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
