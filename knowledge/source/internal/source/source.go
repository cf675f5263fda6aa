//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package source provides internal source utils.
package source

import (
	"path/filepath"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader/docx"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader/markdown"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader/pdf"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader/text"
)

// DefaultRegistry returns the built-in extension to reader table:
// .pdf, .txt, .docx and .md.
func DefaultRegistry() *reader.Registry {
	return reader.NewRegistry(map[string]reader.Reader{
		".pdf":  pdf.New(),
		".txt":  text.New(),
		".docx": docx.New(),
		".md":   markdown.New(),
	})
}

// GetFileType determines the file type based on the file extension.
func GetFileType(filePath string) string {
	return reader.TypeName(filepath.Ext(filePath))
}
