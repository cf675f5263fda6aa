//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package text provides the plain text document reader.
package text

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/internal/encoding"
)

// MetaEncoding is the metadata key holding the encoding the text was decoded from.
const MetaEncoding = "encoding"

var _ reader.Reader = (*Reader)(nil)

// Reader reads plain text documents.
type Reader struct {
	encoding string
}

// Option represents a functional option for configuring the text reader.
type Option func(*Reader)

// WithEncoding sets the expected source encoding by WHATWG label
// (e.g. "windows-1252", "gbk"). The default is strict UTF-8.
func WithEncoding(label string) Option {
	return func(r *Reader) {
		r.encoding = label
	}
}

// New creates a new text reader with the given options.
func New(opts ...Option) *Reader {
	r := &Reader{encoding: encoding.UTF8}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFromReader reads text content from an io.Reader and returns a single document.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, reader.NewParseError("text file", name, err)
	}
	return r.decode(name, name, data)
}

// ReadFromFile reads a text file and returns a single document.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, reader.NewParseError("text file", filePath, err)
	}
	fileName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return r.decode(filePath, fileName, data)
}

func (r *Reader) decode(path, name string, data []byte) ([]*document.Document, error) {
	content, used, err := encoding.Decode(data, r.encoding)
	if err != nil {
		return nil, reader.NewParseError("text file", path, fmt.Errorf("decode as %s: %w", r.encoding, err))
	}
	doc := document.New(content, name)
	doc.Metadata[MetaEncoding] = used
	return []*document.Document{doc}, nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "TextReader"
}
