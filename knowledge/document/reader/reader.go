//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package reader turns uploaded files into documents, one implementation
// per file format.
package reader

import (
	"io"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
)

// Reader loads one file format. Readers stamp only format metadata such as
// page numbers; provenance is added by the caller. Readers never chunk.
type Reader interface {
	// ReadFromReader parses r. name labels the resulting documents and
	// appears in errors.
	ReadFromReader(name string, r io.Reader) ([]*document.Document, error)

	// ReadFromFile parses the file at filePath. A file that cannot be
	// parsed yields an error wrapping ErrParse.
	ReadFromFile(filePath string) ([]*document.Document, error)

	// Name identifies the reader in logs.
	Name() string
}
