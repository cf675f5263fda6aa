//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package langchain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"

	"trpc.group/trpc-go/trpc-rag-ingest/config"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source/upload"
)

// fakeStore records every AddDocuments call.
type fakeStore struct {
	batches    [][]schema.Document
	namespaces []string
	err        error
}

func (f *fakeStore) AddDocuments(_ context.Context, docs []schema.Document, opts ...vectorstores.Option) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	var o vectorstores.Options
	for _, opt := range opts {
		opt(&o)
	}
	f.namespaces = append(f.namespaces, o.NameSpace)
	f.batches = append(f.batches, docs)
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = fmt.Sprintf("id-%d-%d", len(f.batches), i)
	}
	return ids, nil
}

func (f *fakeStore) SimilaritySearch(context.Context, string, int, ...vectorstores.Option) ([]schema.Document, error) {
	return nil, nil
}

func TestToSchema(t *testing.T) {
	chunks := []*document.Document{
		{ID: "doc_1", Content: "hello", Metadata: map[string]any{"source": "a.txt", "chunk_index": 1}},
		{ID: "doc_2", Content: "world", Metadata: map[string]any{MetaChunkID: "custom"}},
	}
	docs := ToSchema(chunks)
	require.Len(t, docs, 2)
	require.Equal(t, "hello", docs[0].PageContent)
	require.Equal(t, "a.txt", docs[0].Metadata["source"])
	require.Equal(t, "doc_1", docs[0].Metadata[MetaChunkID])
	require.Equal(t, "custom", docs[1].Metadata[MetaChunkID])

	docs[0].Metadata["source"] = "changed"
	require.Equal(t, "a.txt", chunks[0].Metadata["source"])
}

func TestSink_Batches(t *testing.T) {
	store := &fakeStore{}
	sink := New(store, WithBatchSize(2), WithNameSpace("advanced_knowledge_base"))

	var chunks []*document.Document
	for i := 0; i < 5; i++ {
		chunks = append(chunks, &document.Document{ID: fmt.Sprintf("c_%d", i), Content: "x"})
	}
	require.NoError(t, sink.Add(context.Background(), chunks))
	require.Len(t, store.batches, 3)
	require.Len(t, store.batches[2], 1)
	require.Equal(t, []string{"advanced_knowledge_base", "advanced_knowledge_base", "advanced_knowledge_base"}, store.namespaces)
	require.Len(t, sink.IDs(), 5)
}

func TestSink_Error(t *testing.T) {
	store := &fakeStore{err: errors.New("down")}
	err := New(store).Add(context.Background(), []*document.Document{{ID: "a", Content: "x"}})
	require.ErrorIs(t, err, store.err)
}

func TestSink_WithPipeline(t *testing.T) {
	store := &fakeStore{}
	p := ingest.New(config.Default(),
		ingest.WithSink(New(store)),
		ingest.WithSourceOptions(upload.WithTempDir(t.TempDir())),
	)
	_, err := p.Run(context.Background(), []upload.File{upload.NewFile("notes.txt", []byte("some notes"))})
	require.NoError(t, err)
	require.Len(t, store.batches, 1)
	require.Equal(t, "some notes", store.batches[0][0].PageContent)
	require.Equal(t, "notes.txt", store.batches[0][0].Metadata["source"])
}
