//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package upload provides a knowledge source over in-memory uploaded files.
package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source"
	isource "trpc.group/trpc-go/trpc-rag-ingest/knowledge/source/internal/source"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

const (
	defaultUploadSourceName = "Upload Source"
	tempPattern             = "upload-*"
)

// File is an uploaded file held in memory.
type File struct {
	// FileName is the name as supplied by the uploader, extension included.
	FileName string
	// Data is the raw file content.
	Data []byte
	// DeclaredSize is the size reported by the uploader. Negative means unknown.
	DeclaredSize int64
}

// NewFile creates a file whose declared size is len(data).
func NewFile(name string, data []byte) File {
	return File{FileName: name, Data: data, DeclaredSize: int64(len(data))}
}

// Name returns the original file name.
func (f File) Name() string {
	return f.FileName
}

// Size returns the declared size. Negative means the size is unknown.
func (f File) Size() int64 {
	return f.DeclaredSize
}

// Failure records a file that could not be loaded.
type Failure struct {
	Name string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("failed to load %s: %v", f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Source represents a knowledge source for uploaded files.
type Source struct {
	files        []File
	name         string
	metadata     map[string]any
	registry     *reader.Registry
	tempDir      string
	now          func() time.Time
	skipFailures bool

	failures []Failure
}

// New creates a new upload knowledge source.
func New(files []File, opts ...Option) *Source {
	s := &Source{
		files:    files,
		name:     defaultUploadSourceName,
		registry: isource.DefaultRegistry(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadDocuments loads every file in input order and returns the enriched
// documents. By default the first failing file aborts the batch and the
// returned error names it.
func (s *Source) ReadDocuments(ctx context.Context) ([]*document.Document, error) {
	s.failures = nil
	var allDocuments []*document.Document
	for _, f := range s.files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs, err := s.processFile(f)
		if err != nil {
			failure := Failure{Name: f.Name(), Err: err}
			if !s.skipFailures {
				return nil, failure
			}
			log.Warnf("skipping %s: %v", f.Name(), err)
			s.failures = append(s.failures, failure)
			continue
		}
		allDocuments = append(allDocuments, docs...)
	}
	return allDocuments, nil
}

// Failures returns the files skipped by the last ReadDocuments call.
func (s *Source) Failures() []Failure {
	return s.failures
}

// Name returns the name of this source.
func (s *Source) Name() string {
	return s.name
}

// Type returns the type of this source.
func (s *Source) Type() string {
	return source.TypeUpload
}

// GetMetadata returns the metadata associated with this source.
func (s *Source) GetMetadata() map[string]any {
	result := make(map[string]any, len(s.metadata))
	for k, v := range s.metadata {
		result[k] = v
	}
	return result
}

// processFile stages one file on disk, loads it and enriches the result.
func (s *Source) processFile(f File) ([]*document.Document, error) {
	base := filepath.Base(f.Name())
	ext := filepath.Ext(base)
	rd, ok := s.registry.Get(ext)
	if !ok {
		return nil, reader.NewUnsupportedFormatError(ext)
	}

	tmp, err := os.CreateTemp(s.tempDir, tempPattern+ext)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			log.Warnf("failed to remove temp file %s: %v", tmpPath, rmErr)
		}
	}()
	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	docs, err := rd.ReadFromFile(tmpPath)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(base, ext)
	for _, doc := range docs {
		doc.Name = stem
	}
	source.Enrich(docs, source.Provenance{
		Source:     f.Name(),
		FileType:   ext,
		UploadTime: s.now(),
	})
	source.EnrichWith(docs, s.metadata)
	return docs, nil
}

// LoadDocuments loads files with a one-off Source.
func LoadDocuments(ctx context.Context, files []File, opts ...Option) ([]*document.Document, error) {
	return New(files, opts...).ReadDocuments(ctx)
}
