//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package source defines where documents come from and the provenance
// metadata attached to them.
package source

import (
	"context"
	"time"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
)

// Source types
const (
	TypeUpload = "upload"
)

// Metadata keys
const (
	MetaSource     = "source"
	MetaFileType   = "file_type"
	MetaUploadTime = "upload_time"

	MetaChunkIndex = "chunk_index"
	MetaChunkSize  = "chunk_size"
)

// Source represents a knowledge source that can provide documents.
type Source interface {
	// ReadDocuments reads and returns documents representing the source.
	ReadDocuments(ctx context.Context) ([]*document.Document, error)

	// Name returns a human-readable name for this source.
	Name() string

	// Type returns the type of this source.
	Type() string

	// GetMetadata returns the metadata that user set.
	GetMetadata() map[string]any
}

// Provenance describes where a batch of documents came from.
type Provenance struct {
	// Source is the original file name as supplied by the caller.
	Source string
	// FileType is the extension including the leading dot, case preserved.
	FileType string
	// UploadTime is when the file was loaded.
	UploadTime time.Time
}

// Metadata returns the provenance as metadata entries.
func (p Provenance) Metadata() map[string]any {
	return map[string]any{
		MetaSource:     p.Source,
		MetaFileType:   p.FileType,
		MetaUploadTime: p.UploadTime.UTC().Format(time.RFC3339Nano),
	}
}

// Enrich adds provenance to every document. Keys a document already carries
// are left untouched.
func Enrich(docs []*document.Document, p Provenance) {
	meta := p.Metadata()
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		doc.MergeMetadata(meta)
	}
}

// EnrichWith adds arbitrary source-level metadata with the same rule as Enrich.
func EnrichWith(docs []*document.Document, extra map[string]any) {
	if len(extra) == 0 {
		return
	}
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		doc.MergeMetadata(extra)
	}
}
