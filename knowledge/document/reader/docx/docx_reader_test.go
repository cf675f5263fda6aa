//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package docx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	godocx "github.com/gomutex/godocx"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
)

// createDocx creates a DOCX file with one paragraph per text and returns its bytes.
func createDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	doc, err := godocx.NewDocument()
	require.NoError(t, err)
	for _, text := range paragraphs {
		doc.AddParagraph(text)
	}

	var buf bytes.Buffer
	_, err = doc.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReader_ReadFromReader(t *testing.T) {
	data := createDocx(t, "Hello Docx")

	docs, err := New().ReadFromReader("example", bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Contains(t, docs[0].Content, "Hello Docx")
	require.Equal(t, "example", docs[0].Name)
}

func TestReader_ReadFromFile_MultipleParagraphs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.docx")
	require.NoError(t, os.WriteFile(path, createDocx(t,
		"First paragraph",
		"Second paragraph",
		"Third paragraph",
	), 0o600))

	docs, err := New().ReadFromFile(path)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "First paragraph\nSecond paragraph\nThird paragraph", docs[0].Content)
	require.Equal(t, 3, docs[0].Metadata[MetaParagraphs])
	require.Equal(t, "multi", docs[0].Name)
}

func TestReader_EmptyDocument(t *testing.T) {
	docs, err := New().ReadFromReader("blank", bytes.NewReader(createDocx(t, "   ")))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.True(t, docs[0].IsEmpty())
}

func TestReader_Errors(t *testing.T) {
	_, err := New().ReadFromReader("bad", bytes.NewReader([]byte("not a valid docx file")))
	require.ErrorIs(t, err, reader.ErrParse)
	require.Contains(t, err.Error(), "bad")

	_, err = New().ReadFromFile("/nonexistent/path/file.docx")
	require.ErrorIs(t, err, reader.ErrParse)
}

func TestReader_Name(t *testing.T) {
	require.Equal(t, "DOCXReader", New().Name())
}
