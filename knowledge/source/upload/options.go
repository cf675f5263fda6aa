//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package upload

import (
	"time"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
)

// Option represents a functional option for configuring Source.
type Option func(*Source)

// WithName sets a custom name for the upload source.
func WithName(name string) Option {
	return func(s *Source) {
		s.name = name
	}
}

// WithRegistry replaces the built-in extension to reader table.
func WithRegistry(reg *reader.Registry) Option {
	return func(s *Source) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithTempDir sets the directory temporary files are staged in.
// Empty means os.TempDir().
func WithTempDir(dir string) Option {
	return func(s *Source) {
		s.tempDir = dir
	}
}

// WithClock sets the time source used for upload_time.
func WithClock(now func() time.Time) Option {
	return func(s *Source) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetadataValue adds a single metadata key-value pair to every document.
// Keys set by loaders or provenance take precedence.
func WithMetadataValue(key string, value any) Option {
	return func(s *Source) {
		if s.metadata == nil {
			s.metadata = make(map[string]any)
		}
		s.metadata[key] = value
	}
}

// WithSkipFailures makes a failing file be recorded and skipped instead of
// aborting the whole batch.
func WithSkipFailures(skip bool) Option {
	return func(s *Source) {
		s.skipFailures = skip
	}
}
