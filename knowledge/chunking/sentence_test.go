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
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
)

type failingTokenizer struct{}

func (failingTokenizer) Encode(string) ([]uint, []string, error) {
	return nil, nil, errors.New("boom")
}

func (failingTokenizer) Decode([]uint) (string, error) {
	return "", errors.New("boom")
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("First one. Second one!\nThird? 3.14 is pi\n\n你好。世界！")
	require.Equal(t, []string{"First one.", "Second one!", "Third?", "3.14 is pi", "你好。", "世界！"}, got)
	require.Empty(t, splitSentences("  \n "))
}

func TestSentenceChunking(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		content string
		want    []string
	}{
		{
			name:    "sentences packed into token window",
			opts:    []Option{WithChunkSize(40), WithOverlap(0)},
			content: "One. Two. Three. Four.",
			want:    []string{"One. Two.", "Three.", "Four."},
		},
		{
			name:    "token overlap",
			opts:    []Option{WithChunkSize(40), WithOverlap(5)},
			content: "A. B. C. D.",
			want:    []string{"A. B. C.", "B. C. D."},
		},
		{
			name:    "oversized sentence cut on tokens",
			opts:    []Option{WithChunkSize(40), WithOverlap(0)},
			content: "abcdefghijklmnopqrstuvwxy",
			want:    []string{"abcdefghij", "klmnopqrst", "uvwxy"},
		},
		{
			name:    "cjk terminators",
			opts:    []Option{WithChunkSize(16), WithOverlap(0)},
			content: "你好。世界！再见？",
			want:    []string{"你好。", "世界！", "再见？"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := append(tt.opts, WithTokenizer(runeTokenizer{}))
			require.Equal(t, tt.want, chunkTexts(t, NewSentenceChunking(opts...), tt.content))
		})
	}
}

func TestSentenceChunking_Window(t *testing.T) {
	s := NewSentenceChunking(WithTokenizer(runeTokenizer{}))
	require.Equal(t, 250, s.window)
	require.Equal(t, 200, s.overlap)

	s = NewSentenceChunking(WithChunkSize(40), WithOverlap(20), WithTokenizer(runeTokenizer{}))
	require.Equal(t, 10, s.window)
	require.Equal(t, 9, s.overlap)

	s = NewSentenceChunking(WithChunkSize(2), WithTokenizer(runeTokenizer{}))
	require.Equal(t, 1, s.window)
	require.Equal(t, 0, s.overlap)
}

func TestSentenceChunking_TokenizerError(t *testing.T) {
	s := NewSentenceChunking(WithTokenizer(failingTokenizer{}))
	_, err := s.Chunk(&document.Document{ID: "d", Content: "Some text."})
	require.ErrorIs(t, err, ErrTokenize)
}

func TestSentenceChunking_Cl100k(t *testing.T) {
	s := NewSentenceChunking(WithChunkSize(40), WithOverlap(0))
	if s.tokenizer == nil {
		t.Skip("cl100k_base tokenizer not available")
	}

	short := "Hello world."
	require.Equal(t, []string{short}, chunkTexts(t, s, short))

	long := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 10)
	chunks := chunkTexts(t, s, long)
	require.GreaterOrEqual(t, len(chunks), 2)
	require.Contains(t, chunks[0], "fox")
	for _, c := range chunks {
		require.NotEmpty(t, c)
	}
}

func TestNewTokenizer(t *testing.T) {
	tok, err := NewTokenizer("gpt-3.5-turbo")
	if err != nil {
		t.Skip("tiktoken-go not available: ", err)
	}
	ids, _, err := tok.Encode("alpha beta gamma")
	require.NoError(t, err)
	require.NotEmpty(t, ids)
	text, err := tok.Decode(ids)
	require.NoError(t, err)
	require.Equal(t, "alpha beta gamma", text)

	_, err = NewTokenizer("unknown-model-name-xyz")
	require.NoError(t, err)
}
