//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package reader

import (
	"sort"
	"strings"
)

// Registry maps file extensions to readers.
// It is fixed at construction and safe for concurrent lookups.
type Registry struct {
	readers map[string]Reader // extension -> reader
}

// NewRegistry creates a registry from an extension to reader table.
// Extensions should include the dot prefix (e.g., ".pdf", ".txt") and are
// normalized to lowercase. Nil readers are ignored.
func NewRegistry(table map[string]Reader) *Registry {
	r := &Registry{readers: make(map[string]Reader, len(table))}
	for ext, rd := range table {
		if rd == nil {
			continue
		}
		r.readers[normalizeExtension(ext)] = rd
	}
	return r
}

// Get returns the reader for the given file extension, ignoring case.
// It returns nil and false when the extension is not mapped; deciding
// whether that is an error is left to the caller.
func (r *Registry) Get(extension string) (Reader, bool) {
	if r == nil {
		return nil, false
	}
	rd, ok := r.readers[normalizeExtension(extension)]
	return rd, ok
}

// Extensions returns all registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	if r == nil {
		return nil
	}
	exts := make([]string, 0, len(r.readers))
	for ext := range r.readers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// TypeName converts a file extension to a simplified type name.
func TypeName(ext string) string {
	ext = strings.TrimPrefix(normalizeExtension(ext), ".")
	switch ext {
	case "txt", "text":
		return "text"
	case "md", "markdown":
		return "markdown"
	case "docx", "doc":
		return "docx"
	default:
		return ext
	}
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
