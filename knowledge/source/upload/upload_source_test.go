//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package upload

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	godocx "github.com/gomutex/godocx"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader/text"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

func clock() time.Time { return fixedNow }

func pdfBytes(t *testing.T, pages ...string) []byte {
	t.Helper()
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for _, p := range pages {
		doc.AddPage()
		doc.Cell(40, 10, p)
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func docxBytes(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	doc, err := godocx.NewDocument()
	require.NoError(t, err)
	for _, p := range paragraphs {
		doc.AddParagraph(p)
	}
	var buf bytes.Buffer
	_, err = doc.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temp files left behind")
}

func TestReadDocuments_TextAndPDF(t *testing.T) {
	tmp := t.TempDir()
	files := []File{
		NewFile("notes.txt", []byte("hello world")),
		NewFile("Report.PDF", pdfBytes(t, "PageOne", "PageTwo")),
	}
	src := New(files, WithTempDir(tmp), WithClock(clock))

	docs, err := src.ReadDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 3)

	require.Equal(t, "hello world", docs[0].Content)
	require.Equal(t, "notes", docs[0].Name)
	require.Equal(t, "notes.txt", docs[0].Metadata[source.MetaSource])
	require.Equal(t, ".txt", docs[0].Metadata[source.MetaFileType])
	require.Equal(t, "2024-05-06T07:08:09Z", docs[0].Metadata[source.MetaUploadTime])

	for i, doc := range docs[1:] {
		require.Equal(t, "Report", doc.Name)
		require.Equal(t, "Report.PDF", doc.Metadata[source.MetaSource])
		require.Equal(t, ".PDF", doc.Metadata[source.MetaFileType])
		require.Equal(t, i, doc.Metadata["page"])
	}
	require.Contains(t, docs[1].Content, "PageOne")
	require.Contains(t, docs[2].Content, "PageTwo")

	require.Empty(t, src.Failures())
	requireEmptyDir(t, tmp)
}

func TestReadDocuments_AbortNamesFailingFile(t *testing.T) {
	tmp := t.TempDir()
	files := []File{
		NewFile("ok.txt", []byte("fine")),
		NewFile("broken.pdf", []byte("this is not a pdf")),
		NewFile("after.txt", []byte("never read")),
	}
	docs, err := LoadDocuments(context.Background(), files, WithTempDir(tmp))
	require.Error(t, err)
	require.Nil(t, docs)
	require.Contains(t, err.Error(), "broken.pdf")
	require.ErrorIs(t, err, reader.ErrParse)

	var failure Failure
	require.True(t, errors.As(err, &failure))
	require.Equal(t, "broken.pdf", failure.Name)
	requireEmptyDir(t, tmp)
}

func TestReadDocuments_SkipFailures(t *testing.T) {
	tmp := t.TempDir()
	files := []File{
		NewFile("broken.pdf", []byte("%PDF-1.4 truncated")),
		NewFile("data.csv", []byte("a,b")),
		NewFile("ok.txt", []byte("fine")),
	}
	src := New(files, WithTempDir(tmp), WithSkipFailures(true))
	docs, err := src.ReadDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "fine", docs[0].Content)

	failures := src.Failures()
	require.Len(t, failures, 2)
	require.Equal(t, "broken.pdf", failures[0].Name)
	require.ErrorIs(t, failures[0], reader.ErrParse)
	require.Equal(t, "data.csv", failures[1].Name)
	require.ErrorIs(t, failures[1], reader.ErrUnsupportedFormat)
	requireEmptyDir(t, tmp)
}

func TestReadDocuments_UnsupportedExtension(t *testing.T) {
	tmp := t.TempDir()
	_, err := LoadDocuments(context.Background(), []File{NewFile("image.png", []byte{0x89})}, WithTempDir(tmp))
	require.ErrorIs(t, err, reader.ErrUnsupportedFormat)
	require.Contains(t, err.Error(), "image.png")
	requireEmptyDir(t, tmp)
}

func TestReadDocuments_AllValidatorExtensionsLoad(t *testing.T) {
	tmp := t.TempDir()
	files := []File{
		NewFile("memo.docx", docxBytes(t, "Alpha", "Beta")),
		NewFile("README.md", []byte("# Title\n\nSome *text*.")),
	}
	docs, err := LoadDocuments(context.Background(), files, WithTempDir(tmp))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	require.Equal(t, "Alpha\nBeta", docs[0].Content)
	require.Equal(t, ".docx", docs[0].Metadata[source.MetaFileType])
	require.Equal(t, "Title\n\nSome text.", docs[1].Content)
	require.Equal(t, "Title", docs[1].Metadata["title"])
	require.Equal(t, ".md", docs[1].Metadata[source.MetaFileType])
	requireEmptyDir(t, tmp)
}

func TestReadDocuments_Options(t *testing.T) {
	tmp := t.TempDir()
	reg := reader.NewRegistry(map[string]reader.Reader{
		".log": text.New(),
	})
	src := New([]File{NewFile("app.log", []byte("line"))},
		WithName("logs"),
		WithRegistry(reg),
		WithTempDir(tmp),
		WithMetadataValue("tenant", "acme"),
		WithMetadataValue(source.MetaSource, "ignored"),
	)
	require.Equal(t, "logs", src.Name())
	require.Equal(t, source.TypeUpload, src.Type())
	require.Equal(t, "acme", src.GetMetadata()["tenant"])

	docs, err := src.ReadDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "acme", docs[0].Metadata["tenant"])
	require.Equal(t, "app.log", docs[0].Metadata[source.MetaSource])
	requireEmptyDir(t, tmp)
}

func TestReadDocuments_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadDocuments(ctx, []File{NewFile("a.txt", []byte("a"))}, WithTempDir(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadDocuments_Empty(t *testing.T) {
	docs, err := LoadDocuments(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestFile(t *testing.T) {
	f := NewFile("a.txt", []byte("abc"))
	require.Equal(t, "a.txt", f.Name())
	require.Equal(t, int64(3), f.Size())

	unknown := File{FileName: "b.txt", DeclaredSize: -1}
	require.Equal(t, int64(-1), unknown.Size())
}

var _ source.Source = (*Source)(nil)

func TestFailureError(t *testing.T) {
	f := Failure{Name: "x.pdf", Err: errors.New("boom")}
	require.True(t, strings.HasPrefix(f.Error(), "failed to load x.pdf"))
}
