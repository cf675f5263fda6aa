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
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/chunking"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
)

// chunkParallel chunks docs on a worker pool of size n. The result has the
// same order as ChunkDocuments and, when several documents fail, the error
// of the earliest one is returned.
func chunkParallel(s chunking.Strategy, docs []*document.Document, n int) ([]*document.Document, error) {
	pool, err := ants.NewPool(n)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunking worker pool: %w", err)
	}
	defer pool.Release()

	parts := make([][]*document.Document, len(docs))
	errs := make([]error, len(docs))
	var wg sync.WaitGroup
	for i, doc := range docs {
		if doc.IsEmpty() {
			continue
		}
		wg.Add(1)
		idx, d := i, doc
		if err := pool.Submit(func() {
			defer wg.Done()
			parts[idx], errs[idx] = s.Chunk(d)
		}); err != nil {
			wg.Done()
			errs[idx] = fmt.Errorf("submit document %d: %w", idx, err)
		}
	}
	wg.Wait()

	var chunks []*document.Document
	for i := range docs {
		if errs[i] != nil {
			return nil, errs[i]
		}
		chunks = append(chunks, parts[i]...)
	}
	return chunks, nil
}
