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
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source"
)

// runeTokenizer treats every character as one token.
type runeTokenizer struct{}

func (runeTokenizer) Encode(text string) ([]uint, []string, error) {
	var ids []uint
	var toks []string
	for _, r := range text {
		ids = append(ids, uint(r))
		toks = append(toks, string(r))
	}
	return ids, toks, nil
}

func (runeTokenizer) Decode(ids []uint) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteRune(rune(id))
	}
	return sb.String(), nil
}

// wordText returns n space separated words of nine characters each,
// including the trailing space.
func wordText(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "word%04d ", i)
	}
	return strings.TrimSpace(sb.String())
}

// sharedOverlap returns the length of the longest suffix of a that is also a prefix of b.
func sharedOverlap(a, b string) int {
	for n := min(len(a), len(b)); n > 0; n-- {
		if strings.HasSuffix(a, b[:n]) {
			return utf8.RuneCountInString(b[:n])
		}
	}
	return 0
}

func allStrategies(opts ...Option) map[string]Strategy {
	opts = append(opts, WithTokenizer(runeTokenizer{}))
	out := make(map[string]Strategy)
	for _, name := range Names() {
		out[name] = New(name, opts...)
	}
	return out
}

func TestChunk_ShortTextUnchanged(t *testing.T) {
	content := "  Short text.\r\nSecond line.  "
	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			doc := &document.Document{ID: "doc1", Name: "short", Content: content,
				Metadata: map[string]any{"page": 3}}
			chunks, err := s.Chunk(doc)
			require.NoError(t, err)
			require.Len(t, chunks, 1)
			assert.Equal(t, content, chunks[0].Content)
			assert.Equal(t, "doc1_1", chunks[0].ID)
			assert.Equal(t, 3, chunks[0].Metadata["page"])
			assert.Equal(t, 1, chunks[0].Metadata[source.MetaChunkIndex])
		})
	}
}

func TestChunk_Errors(t *testing.T) {
	for name, s := range allStrategies() {
		t.Run(name, func(t *testing.T) {
			_, err := s.Chunk(nil)
			require.ErrorIs(t, err, ErrNilDocument)
			_, err = s.Chunk(&document.Document{ID: "empty"})
			require.ErrorIs(t, err, ErrEmptyDocument)
		})
	}
}

func TestChunk_SizeAndOverlapBounds(t *testing.T) {
	content := wordText(278) // 2501 characters
	require.Equal(t, 2501, utf8.RuneCountInString(content))

	for _, name := range []string{NameRecursive, NameFixed} {
		t.Run(name, func(t *testing.T) {
			s := New(name, WithChunkSize(1000), WithOverlap(200))
			doc := document.New(content, "words")
			chunks, err := s.Chunk(doc)
			require.NoError(t, err)
			require.GreaterOrEqual(t, len(chunks), 3)

			for i, c := range chunks {
				size := utf8.RuneCountInString(c.Content)
				assert.LessOrEqual(t, size, 1000)
				assert.Equal(t, size, c.Metadata[source.MetaChunkSize])
				assert.Equal(t, i+1, c.Metadata[source.MetaChunkIndex])
				assert.Equal(t, fmt.Sprintf("%s_%d", doc.ID, i+1), c.ID)
				if i > 0 {
					assert.LessOrEqual(t, sharedOverlap(chunks[i-1].Content, c.Content), 200)
				}
			}
			assert.True(t, strings.HasPrefix(chunks[0].Content, "word0000"))
			assert.True(t, strings.HasSuffix(chunks[len(chunks)-1].Content, "word0277"))
		})
	}
}

func TestClampWindow(t *testing.T) {
	tests := []struct {
		name        string
		size        int
		overlap     int
		wantSize    int
		wantOverlap int
	}{
		{"valid", 500, 50, 500, 50},
		{"zero size", 0, 100, 1000, 100},
		{"negative size", -5, 0, 1000, 0},
		{"negative overlap", 100, -1, 100, 0},
		{"overlap equal size", 100, 100, 100, 99},
		{"overlap above size", 1000, 1500, 1000, 200},
		{"tiny size", 1, 10, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, overlap := clampWindow(tt.size, tt.overlap)
			assert.Equal(t, tt.wantSize, size)
			assert.Equal(t, tt.wantOverlap, overlap)
		})
	}
}

func TestChunkDocuments(t *testing.T) {
	docs := []*document.Document{
		{ID: "a", Content: "alpha"},
		{ID: "empty", Content: ""},
		nil,
		{ID: "b", Content: "beta"},
	}
	chunks, err := ChunkDocuments(NewRecursiveChunking(), docs)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a_1", chunks[0].ID)
	assert.Equal(t, "b_1", chunks[1].ID)

	chunks, err = ChunkDocuments(NewRecursiveChunking(), nil)
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestCreateChunk(t *testing.T) {
	tests := []struct {
		name   string
		doc    *document.Document
		wantID string
	}{
		{"with id", &document.Document{ID: "doc123", Name: "n"}, "doc123_2"},
		{"name only", &document.Document{Name: "report"}, "report_2"},
		{"anonymous", &document.Document{}, "chunk_2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := createChunk(tt.doc, "héllo", 2)
			assert.Equal(t, tt.wantID, c.ID)
			assert.Equal(t, 5, c.Metadata[source.MetaChunkSize])
			assert.Equal(t, 2, c.Metadata[source.MetaChunkIndex])
			assert.Equal(t, tt.doc.Name, c.Name)
		})
	}
}

func TestCreateChunk_CopiesMetadata(t *testing.T) {
	parent := &document.Document{ID: "p", Metadata: map[string]any{"source": "a.txt"}}
	c := createChunk(parent, "x", 1)
	c.Metadata["source"] = "changed"
	assert.Equal(t, "a.txt", parent.Metadata["source"])
	_, hasIndex := parent.Metadata[source.MetaChunkIndex]
	assert.False(t, hasIndex)
}

func TestMerger(t *testing.T) {
	m := merger{size: 10, overlap: 4, length: func(s string) int { return len(s) }}
	out := m.merge([]string{"aaa", "bbb", "ccc", "ddd"}, " ")
	assert.Equal(t, []string{"aaa bbb", "bbb ccc", "ccc ddd"}, out)

	m.overlap = 0
	out = m.merge([]string{"aaa", "bbb", "ccc", "ddd"}, " ")
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, out)
}
