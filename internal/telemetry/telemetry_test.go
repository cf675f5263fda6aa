//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// stubSpan records the attributes set on it.
type stubSpan struct {
	trace.Span
	attrs []attribute.KeyValue
}

func (s *stubSpan) SetAttributes(kv ...attribute.KeyValue) {
	s.attrs = append(s.attrs, kv...)
	s.Span.SetAttributes(kv...)
}

func TestTraceRun(t *testing.T) {
	_, base := noop.NewTracerProvider().Tracer("").Start(t.Context(), "test")
	span := &stubSpan{Span: base}

	TraceRun(span, "recursive", 3, 5, 12, 1)

	got := make(map[string]attribute.Value)
	for _, kv := range span.attrs {
		got[string(kv.Key)] = kv.Value
	}
	require.Equal(t, "recursive", got[KeyStrategy].AsString())
	require.Equal(t, int64(3), got[KeyFileCount].AsInt64())
	require.Equal(t, int64(5), got[KeyDocumentCount].AsInt64())
	require.Equal(t, int64(12), got[KeyChunkCount].AsInt64())
	require.Equal(t, int64(1), got[KeyFailureCount].AsInt64())
}

func TestNewGRPCConn(t *testing.T) {
	conn, err := NewGRPCConn("localhost:4317")
	require.NoError(t, err)
	require.NotNil(t, conn)
	require.NoError(t, conn.Close())
}
