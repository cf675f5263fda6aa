//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package chunking

import "errors"

var (
	// ErrEmptyDocument is returned by Chunk for a document without text.
	ErrEmptyDocument = errors.New("chunking: empty document")

	// ErrNilDocument is returned by Chunk for a nil document.
	ErrNilDocument = errors.New("chunking: nil document")

	// ErrTokenize wraps tokenizer failures in the sentence strategy.
	ErrTokenize = errors.New("chunking: tokenization failed")
)
