//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package docx provides DOCX document reader implementation.
package docx

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gonfva/docxlib"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
)

// MetaParagraphs is the metadata key holding the number of non-empty paragraphs.
const MetaParagraphs = "paragraphs"

var _ reader.Reader = (*Reader)(nil)

// Reader reads DOCX documents into a single document.
type Reader struct{}

// New creates a new DOCX reader.
func New() *Reader {
	return &Reader{}
}

// ReadFromReader reads DOCX content from an io.Reader and returns a list of documents.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, reader.NewParseError("DOCX", name, err)
	}
	doc, err := r.parse(bytes.NewReader(data), int64(len(data)), name)
	if err != nil {
		return nil, reader.NewParseError("DOCX", name, err)
	}
	return []*document.Document{doc}, nil
}

// ReadFromFile reads DOCX content from a file path and returns a list of documents.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, reader.NewParseError("DOCX", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, reader.NewParseError("DOCX", filePath, err)
	}
	fileName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	doc, err := r.parse(file, stat.Size(), fileName)
	if err != nil {
		return nil, reader.NewParseError("DOCX", filePath, err)
	}
	return []*document.Document{doc}, nil
}

func (r *Reader) parse(ra io.ReaderAt, size int64, name string) (*document.Document, error) {
	parsed, err := docxlib.Parse(ra, size)
	if err != nil {
		return nil, fmt.Errorf("parse DOCX: %w", err)
	}
	text, paragraphs := extractText(parsed)
	doc := document.New(text, name)
	doc.Metadata[MetaParagraphs] = paragraphs
	return doc, nil
}

// extractText joins the text of runs and hyperlinks, one line per paragraph.
func extractText(doc *docxlib.DocxLib) (string, int) {
	var lines []string
	for _, paragraph := range doc.Paragraphs() {
		var parts []string
		for _, child := range paragraph.Children() {
			if child.Run != nil && child.Run.Text != nil {
				if text := strings.TrimSpace(child.Run.Text.Text); text != "" {
					parts = append(parts, text)
				}
			}
			if child.Link != nil && child.Link.Run.Text != nil {
				if text := strings.TrimSpace(child.Link.Run.Text.Text); text != "" {
					parts = append(parts, text)
				}
			}
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " "))
		}
	}
	return strings.Join(lines, "\n"), len(lines)
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "DOCXReader"
}
