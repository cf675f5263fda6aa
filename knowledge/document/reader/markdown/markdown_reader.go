//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package markdown provides markdown document reader implementation.
package markdown

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/document/reader"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/internal/encoding"
)

// MetaTitle is the metadata key holding the first level-one heading.
const MetaTitle = "title"

var _ reader.Reader = (*Reader)(nil)

// Reader reads markdown documents and flattens them to plain text.
type Reader struct {
	md  goldmark.Markdown
	raw bool
}

// Option represents a functional option for configuring the markdown reader.
type Option func(*Reader)

// WithRaw keeps the markdown source as the document content instead of
// flattening it to plain text.
func WithRaw(raw bool) Option {
	return func(r *Reader) {
		r.raw = raw
	}
}

// New creates a new markdown reader with the given options.
func New(opts ...Option) *Reader {
	r := &Reader{md: goldmark.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ReadFromReader reads markdown content from an io.Reader and returns a list of documents.
func (r *Reader) ReadFromReader(name string, rd io.Reader) ([]*document.Document, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, reader.NewParseError("markdown file", name, err)
	}
	return r.convert(name, name, data)
}

// ReadFromFile reads markdown content from a file path and returns a list of documents.
func (r *Reader) ReadFromFile(filePath string) ([]*document.Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, reader.NewParseError("markdown file", filePath, err)
	}
	fileName := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	return r.convert(filePath, fileName, data)
}

func (r *Reader) convert(path, name string, data []byte) ([]*document.Document, error) {
	source, _, err := encoding.Decode(data, encoding.UTF8)
	if err != nil {
		return nil, reader.NewParseError("markdown file", path, err)
	}
	src := []byte(source)
	root := r.md.Parser().Parse(text.NewReader(src))

	content := source
	if !r.raw {
		content = flatten(root, src)
	}
	doc := document.New(content, name)
	if title := firstTitle(root, src); title != "" {
		doc.Metadata[MetaTitle] = title
	}
	return []*document.Document{doc}, nil
}

// flatten renders the AST as plain text with a blank line between blocks.
func flatten(root ast.Node, src []byte) string {
	var blocks []string
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if block := strings.TrimSpace(blockText(n, src)); block != "" {
			blocks = append(blocks, block)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func blockText(n ast.Node, src []byte) string {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock:
		return linesText(n, src)
	case ast.KindList, ast.KindBlockquote, ast.KindListItem:
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if part := strings.TrimSpace(blockText(c, src)); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, "\n")
	case ast.KindThematicBreak:
		return ""
	}
	return inlineText(n, src)
}

func linesText(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}

// inlineText collects the text leaves below n.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte('\n')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.CodeSpan:
			for cc := node.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if t, ok := cc.(*ast.Text); ok {
					sb.Write(t.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		case *ast.AutoLink:
			sb.Write(node.Label(src))
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func firstTitle(root ast.Node, src []byte) string {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return strings.TrimSpace(inlineText(h, src))
		}
	}
	return ""
}

// Name returns the name of this reader.
func (r *Reader) Name() string {
	return "MarkdownReader"
}
