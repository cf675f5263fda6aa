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
	"strings"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/internal/encoding"
)

// FixedSizeChunking implements a chunking strategy that splits text into fixed-size chunks.
type FixedSizeChunking struct {
	chunkSize int
	overlap   int
}

// NewFixedSizeChunking creates a new fixed-size chunking strategy with options.
func NewFixedSizeChunking(opts ...Option) *FixedSizeChunking {
	o := newOptions(opts)
	return &FixedSizeChunking{chunkSize: o.chunkSize, overlap: o.overlap}
}

// Chunk splits the document into fixed-size chunks with optional overlap.
func (f *FixedSizeChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	if encoding.RuneCount(doc.Content) <= f.chunkSize {
		return createChunks(doc, []string{doc.Content}), nil
	}

	content := []rune(normalizeNewlines(doc.Content))
	contentLength := len(content)
	var texts []string
	start := 0
	for start+f.overlap < contentLength {
		end := min(start+f.chunkSize, contentLength)

		// Prefer to end on whitespace, but only if the cursor still moves
		// past the overlap window.
		if end < contentLength {
			if bp := findBreakPoint(content, start, end); bp != -1 && bp-start > f.overlap {
				end = bp
			}
		}

		if text := strings.TrimSpace(string(content[start:end])); text != "" {
			texts = append(texts, text)
		}
		if end == contentLength {
			break
		}
		start = end - f.overlap
	}
	return createChunks(doc, texts), nil
}

// findBreakPoint returns the position just after the last whitespace in
// content[start:targetEnd], or -1 when there is none.
func findBreakPoint(content []rune, start, targetEnd int) int {
	for i := targetEnd - 1; i > start; i-- {
		if isWhitespace(content[i]) {
			return i + 1
		}
	}
	return -1
}

// isWhitespace checks if a character is considered whitespace.
func isWhitespace(char rune) bool {
	return char == ' ' || char == '\n' || char == '\r' || char == '\t'
}
