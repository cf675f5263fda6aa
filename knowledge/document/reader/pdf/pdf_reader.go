//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package pdf provides PDF document reader implementation.
package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

// Metadata keys set on every page document.
const (
	MetaPage       = "page"
	MetaTotalPages = "total_pages"
)

var _ reader.Reader = (*Reader)(nil)

// Reader reads PDF documents, producing one document per page.
type Reader struct {
	mergePages bool
}

// Option represents a functional option for configuring the PDF reader.
type Option func(*Reader)

// WithMergePages makes the reader return a single document holding the text
// of all pages instead of one document per page.
func WithMergePages(merge bool) Option {
	return func(r *Reader) {
		r.mergePages = merge
	}
}

// New creates a new PDF reader with the given options.
func New(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFromReader reads PDF content from an io.Reader and returns a list of documents.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	readerAt, size, err := toReaderAt(rd)
	if err != nil {
		return nil, reader.NewParseError("PDF", name, err)
	}
	docs, err := r.extract(readerAt, size, name)
	if err != nil {
		return nil, reader.NewParseError("PDF", name, err)
	}
	return docs, nil
}

// ReadFromFile reads PDF content from a file path and returns a list of documents.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, reader.NewParseError("PDF", filePath, err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, reader.NewParseError("PDF", filePath, err)
	}
	fileName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	docs, err := r.extract(file, stat.Size(), fileName)
	if err != nil {
		return nil, reader.NewParseError("PDF", filePath, err)
	}
	return docs, nil
}

// extract parses the PDF and collects page text. The parser panics on some
// malformed inputs, so panics are turned into errors here.
func (r *Reader) extract(ra io.ReaderAt, size int64, name string) (docs []*document.Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			docs = nil
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	pdfReader, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, err
	}

	totalPage := pdfReader.NumPage()
	var merged strings.Builder
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := pdfReader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Debugf("pdf %s: skipping page %d: %v", name, pageIndex, err)
			continue
		}
		if r.mergePages {
			merged.WriteString(text)
			merged.WriteString("\n")
			continue
		}
		doc := document.New(text, name)
		doc.Metadata[MetaPage] = pageIndex - 1
		doc.Metadata[MetaTotalPages] = totalPage
		docs = append(docs, doc)
	}
	if r.mergePages {
		doc := document.New(merged.String(), name)
		doc.Metadata[MetaTotalPages] = totalPage
		docs = []*document.Document{doc}
	}
	return docs, nil
}

func toReaderAt(r io.Reader) (io.ReaderAt, int64, error) {
	// If the reader is already an io.ReaderAt and io.ReadSeeker (like an *os.File),
	// we can get its size and use it directly without buffering.
	if ra, ok := r.(io.ReaderAt); ok {
		if rs, ok := r.(io.ReadSeeker); ok {
			size, err := getReaderSize(rs)
			if err != nil {
				return nil, 0, err
			}
			return ra, size, nil
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "PDFReader"
}

// getReaderSize returns the total size of an io.ReadSeeker without altering
// its current position.
func getReaderSize(rs io.ReadSeeker) (int64, error) {
	current, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := rs.Seek(current, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}
