//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package document defines the unit of ingested content.
package document

import (
	"time"

	"github.com/google/uuid"
)

// Document is a unit of ingested content. Chunks produced by a chunking
// strategy are Documents too.
type Document struct {
	// ID is the unique identifier of the document.
	ID string `json:"id"`
	// Name is a human readable name, usually the file name without extension.
	Name string `json:"name"`
	// Content is the textual content.
	Content string `json:"content"`
	// Metadata holds scalar values keyed by string.
	Metadata map[string]any `json:"metadata"`
	// CreatedAt is when the document was produced.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the document was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a document with a random ID and empty metadata.
func New(content, name string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        uuid.NewString(),
		Name:      name,
		Content:   content,
		Metadata:  make(map[string]any),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsEmpty reports whether the document is nil or has no content.
func (d *Document) IsEmpty() bool {
	return d == nil || d.Content == ""
}

// Clone returns a copy of the document with its own metadata map.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	clone.Metadata = make(map[string]any, len(d.Metadata))
	for k, v := range d.Metadata {
		clone.Metadata[k] = v
	}
	return &clone
}

// MergeMetadata adds every entry of extra whose key is not already present.
// Existing keys are never overwritten. It returns the keys that were added.
func (d *Document) MergeMetadata(extra map[string]any) []string {
	if d.Metadata == nil {
		d.Metadata = make(map[string]any, len(extra))
	}
	var added []string
	for k, v := range extra {
		if _, exists := d.Metadata[k]; exists {
			continue
		}
		d.Metadata[k] = v
		added = append(added, k)
	}
	return added
}
