//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package chunking

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// Tokenizer converts text to token ids and back. tokenizer.Codec satisfies it.
type Tokenizer interface {
	Encode(text string) ([]uint, []string, error)
	Decode(ids []uint) (string, error)
}

// NewTokenizer returns the tiktoken codec for modelName, falling back to
// cl100k_base when the model is unknown.
func NewTokenizer(modelName string) (Tokenizer, error) {
	enc, err := tokenizer.ForModel(tokenizer.Model(modelName))
	if err != nil {
		enc, err = tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			return nil, fmt.Errorf("failed to get fallback tokenizer: %w", err)
		}
	}
	return enc, nil
}

// tokenCounter counts tokens and remembers the first encoding failure.
type tokenCounter struct {
	tok Tokenizer
	err error
}

func (c *tokenCounter) count(text string) int {
	if text == "" {
		return 0
	}
	ids, _, err := c.tok.Encode(text)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return 0
	}
	return len(ids)
}
