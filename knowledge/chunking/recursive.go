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

// RecursiveChunking implements a recursive chunking strategy that uses a hierarchy of separators.
type RecursiveChunking struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewRecursiveChunking creates a new recursive chunking strategy with options.
// The default separators are paragraph, line, word and character.
func NewRecursiveChunking(opts ...Option) *RecursiveChunking {
	o := newOptions(opts)
	return &RecursiveChunking{
		chunkSize:  o.chunkSize,
		overlap:    o.overlap,
		separators: o.separators,
	}
}

// Chunk splits the document using the separator hierarchy.
func (r *RecursiveChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	if encoding.RuneCount(doc.Content) <= r.chunkSize {
		return createChunks(doc, []string{doc.Content}), nil
	}
	m := merger{size: r.chunkSize, overlap: r.overlap, length: encoding.RuneCount}
	texts := splitRecursive(normalizeNewlines(doc.Content), r.separators, r.chunkSize, m)
	return createChunks(doc, texts), nil
}

// splitRecursive splits text on the coarsest separator it contains, recurses
// into pieces that are still too long and merges the rest into windows.
func splitRecursive(text string, separators []string, size int, m merger) []string {
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var splits []string
	if separator == "" {
		splits = encoding.SplitRunes(text)
	} else {
		splits = strings.Split(text, separator)
	}

	var (
		out  []string
		good []string
	)
	for _, split := range splits {
		if split == "" {
			continue
		}
		if encoding.RuneCount(split) <= size {
			good = append(good, split)
			continue
		}
		if len(good) > 0 {
			out = append(out, m.merge(good, separator)...)
			good = nil
		}
		if len(finer) == 0 {
			out = append(out, hardSplit(split, size)...)
			continue
		}
		out = append(out, splitRecursive(split, finer, size, m)...)
	}
	if len(good) > 0 {
		out = append(out, m.merge(good, separator)...)
	}
	return out
}

// hardSplit cuts text at character boundaries into pieces of at most size.
func hardSplit(text string, size int) []string {
	var out []string
	for _, piece := range encoding.SplitBySize(text, size) {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}
