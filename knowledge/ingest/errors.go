//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package ingest

import (
	"errors"

	"trpc.group/trpc-go/trpc-rag-ingest/config"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
)

var (
	// ErrValidation indicates that the uploaded files were rejected before loading.
	ErrValidation = errors.New("validation failed")

	// ErrHandoff indicates that the sink rejected the chunks.
	ErrHandoff = errors.New("hand-off failed")
)

// ErrorKind classifies pipeline errors.
type ErrorKind string

// Error kinds returned by Kind.
const (
	KindValidation        ErrorKind = "validation"
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	KindParse             ErrorKind = "parse"
	KindConfigLoad        ErrorKind = "config_load"
	KindUnknown           ErrorKind = "unknown"
)

// Kind reports which kind of failure err is. Errors that match none of the
// known sentinels, and nil, are KindUnknown.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, reader.ErrUnsupportedFormat):
		return KindUnsupportedFormat
	case errors.Is(err, reader.ErrParse):
		return KindParse
	case errors.Is(err, config.ErrLoad):
		return KindConfigLoad
	default:
		return KindUnknown
	}
}
