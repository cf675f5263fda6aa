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
	"strings"
	"unicode"

	"github.com/tiktoken-go/tokenizer"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

// tokensPerChar is the characters to tokens ratio applied to the chunk size.
const tokensPerChar = 4

// SentenceChunking packs whole sentences into token-bounded windows.
// The window is chunkSize/4 tokens and the overlap is counted in tokens.
type SentenceChunking struct {
	window    int
	overlap   int
	tokenizer Tokenizer
}

// NewSentenceChunking creates a new sentence chunking strategy. Without
// WithTokenizer it uses the cl100k_base encoding.
func NewSentenceChunking(opts ...Option) *SentenceChunking {
	o := newOptions(opts)
	window, overlap := clampWindow(max(1, o.chunkSize/tokensPerChar), o.overlap)
	s := &SentenceChunking{window: window, overlap: overlap, tokenizer: o.tokenizer}
	if s.tokenizer == nil {
		enc, err := tokenizer.Get(tokenizer.Cl100kBase)
		if err != nil {
			log.Warnf("chunking: cl100k_base tokenizer unavailable: %v", err)
		} else {
			s.tokenizer = enc
		}
	}
	return s
}

// Chunk splits the document into sentence-aligned chunks.
func (s *SentenceChunking) Chunk(doc *document.Document) ([]*document.Document, error) {
	if err := checkDocument(doc); err != nil {
		return nil, err
	}
	if s.tokenizer == nil {
		return nil, fmt.Errorf("%w: no tokenizer configured", ErrTokenize)
	}
	counter := &tokenCounter{tok: s.tokenizer}
	if counter.count(doc.Content) <= s.window {
		if counter.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTokenize, counter.err)
		}
		return createChunks(doc, []string{doc.Content}), nil
	}

	var pieces []string
	for _, sentence := range splitSentences(normalizeNewlines(doc.Content)) {
		if counter.count(sentence) <= s.window {
			pieces = append(pieces, sentence)
			continue
		}
		cut, err := s.cutTokens(sentence)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTokenize, err)
		}
		pieces = append(pieces, cut...)
	}
	m := merger{size: s.window, overlap: s.overlap, length: counter.count}
	texts := m.merge(pieces, " ")
	if counter.err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenize, counter.err)
	}
	return createChunks(doc, texts), nil
}

// cutTokens splits an oversized sentence on token boundaries.
func (s *SentenceChunking) cutTokens(sentence string) ([]string, error) {
	ids, _, err := s.tokenizer.Encode(sentence)
	if err != nil {
		return nil, err
	}
	var out []string
	for start := 0; start < len(ids); start += s.window {
		end := min(start+s.window, len(ids))
		text, err := s.tokenizer.Decode(ids[start:end])
		if err != nil {
			return nil, err
		}
		if text = strings.TrimSpace(strings.ToValidUTF8(text, "")); text != "" {
			out = append(out, text)
		}
	}
	return out, nil
}

// splitSentences cuts text after sentence terminators and at line breaks.
// ASCII terminators only end a sentence when followed by whitespace or the end
// of the text.
func splitSentences(text string) []string {
	runes := []rune(text)
	var (
		out   []string
		start int
	)
	emit := func(end int) {
		if sentence := strings.TrimSpace(string(runes[start:end])); sentence != "" {
			out = append(out, sentence)
		}
		start = end
	}
	for i, r := range runes {
		switch {
		case r == '\n':
			emit(i + 1)
		case r == '。' || r == '！' || r == '？':
			emit(i + 1)
		case r == '.' || r == '!' || r == '?':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				emit(i + 1)
			}
		}
	}
	emit(len(runes))
	return out
}
