//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
)

func TestEnrich(t *testing.T) {
	uploaded := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	p := Provenance{Source: "Report.PDF", FileType: ".PDF", UploadTime: uploaded}

	tests := []struct {
		name     string
		metadata map[string]any
		expected map[string]any
	}{
		{
			name:     "empty metadata",
			metadata: map[string]any{},
			expected: map[string]any{
				MetaSource:     "Report.PDF",
				MetaFileType:   ".PDF",
				MetaUploadTime: "2024-03-01T10:30:00Z",
			},
		},
		{
			name:     "nil metadata",
			metadata: nil,
			expected: map[string]any{
				MetaSource:     "Report.PDF",
				MetaFileType:   ".PDF",
				MetaUploadTime: "2024-03-01T10:30:00Z",
			},
		},
		{
			name:     "loader keys kept",
			metadata: map[string]any{"page": 0, "total_pages": 2},
			expected: map[string]any{
				"page":         0,
				"total_pages":  2,
				MetaSource:     "Report.PDF",
				MetaFileType:   ".PDF",
				MetaUploadTime: "2024-03-01T10:30:00Z",
			},
		},
		{
			name:     "existing key not overwritten",
			metadata: map[string]any{MetaSource: "original.pdf"},
			expected: map[string]any{
				MetaSource:     "original.pdf",
				MetaFileType:   ".PDF",
				MetaUploadTime: "2024-03-01T10:30:00Z",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{Content: "x", Metadata: tt.metadata}
			Enrich([]*document.Document{doc, nil}, p)
			require.Equal(t, tt.expected, doc.Metadata)
		})
	}
}

func TestEnrichWith(t *testing.T) {
	doc := document.New("x", "x")
	doc.Metadata["team"] = "search"
	EnrichWith([]*document.Document{doc}, map[string]any{"team": "ops", "tenant": "acme"})
	require.Equal(t, "search", doc.Metadata["team"])
	require.Equal(t, "acme", doc.Metadata["tenant"])

	EnrichWith([]*document.Document{doc}, nil)
	require.Len(t, doc.Metadata, 2)
}

func TestProvenance_UploadTimeIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	p := Provenance{UploadTime: time.Date(2024, 3, 1, 18, 0, 0, 0, loc)}
	require.Equal(t, "2024-03-01T10:00:00Z", p.Metadata()[MetaUploadTime])
}
