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
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat indicates that no reader is registered for an extension.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrParse indicates that a reader could not turn a file into documents.
	ErrParse = errors.New("parse failure")
)

// NewParseError wraps cause into a single descriptive error naming the failing path.
// The result matches both ErrParse and cause with errors.Is.
func NewParseError(kind, path string, cause error) error {
	return fmt.Errorf("%w: error loading %s %s: %w", ErrParse, kind, path, cause)
}

// NewUnsupportedFormatError reports that ext has no registered reader.
func NewUnsupportedFormatError(ext string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
}
