//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the span names, attribute keys and helpers shared by
// the tracing and metrics packages.
package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// telemetry service constants.
const (
	ServiceName      = "ragingest"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-rag-ingest"
	InstrumentName   = "trpc.rag.ingest"

	SpanNameRun     = "ingest.run"
	SpanNameLoad    = "ingest.load"
	SpanNameChunk   = "ingest.chunk"
	SpanNameHandoff = "ingest.handoff"

	MetricFiles  = "rag.ingest.files"
	MetricChunks = "rag.ingest.chunks"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// telemetry attributes constants.
var (
	KeyFileCount     = "rag.ingest.file_count"
	KeyDocumentCount = "rag.ingest.document_count"
	KeyChunkCount    = "rag.ingest.chunk_count"
	KeyFailureCount  = "rag.ingest.failure_count"
	KeyStrategy      = "rag.ingest.strategy"
	KeyOutcome       = "rag.ingest.outcome"
	KeyErrorKind     = "rag.ingest.error_kind"
)

// TraceRun records the size of an ingestion run on span.
func TraceRun(span trace.Span, strategy string, files, documents, chunks, failures int) {
	span.SetAttributes(
		attribute.String(KeyStrategy, strategy),
		attribute.Int(KeyFileCount, files),
		attribute.Int(KeyDocumentCount, documents),
		attribute.Int(KeyChunkCount, chunks),
		attribute.Int(KeyFailureCount, failures),
	)
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// Note the use of insecure transport here. TLS is recommended in production.
	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
