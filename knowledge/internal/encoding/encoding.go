//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package encoding decodes raw file bytes into UTF-8 text and provides
// rune-safe string helpers for the chunking strategies.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Canonical encoding names reported by Decode.
const (
	UTF8    = "utf-8"
	UTF16LE = "utf-16le"
	UTF16BE = "utf-16be"
)

var (
	// ErrInvalidUTF8 indicates that strict UTF-8 decoding failed.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
	// ErrUnknownEncoding indicates that the requested label is not a known encoding.
	ErrUnknownEncoding = errors.New("unknown encoding")
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts data to a UTF-8 string.
//
// A byte order mark always wins and is stripped. Without one, an empty label
// or "utf-8" means strict UTF-8: invalid sequences are an error rather than
// being replaced. Any other WHATWG label (e.g. "gbk", "windows-1252",
// "shift_jis") selects that decoder. The returned name is the encoding used.
func Decode(data []byte, label string) (string, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return decodeStrictUTF8(data[len(bomUTF8):])
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes, data, UTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes, data, UTF16BE)
	}

	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" || label == UTF8 || label == "utf8" {
		return decodeStrictUTF8(data)
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownEncoding, label)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = label
	}
	return decodeWith(enc.NewDecoder().Bytes, data, name)
}

func decodeStrictUTF8(data []byte) (string, string, error) {
	if !utf8.Valid(data) {
		return "", UTF8, fmt.Errorf("%w at byte %d", ErrInvalidUTF8, firstInvalid(data))
	}
	return string(data), UTF8, nil
}

func decodeWith(decode func([]byte) ([]byte, error), data []byte, name string) (string, string, error) {
	out, err := decode(data)
	if err != nil {
		return "", name, fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), name, nil
}

func firstInvalid(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
