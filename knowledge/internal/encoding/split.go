//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//

package encoding

import "unicode/utf8"

// RuneCount returns the number of characters in text.
func RuneCount(text string) int {
	return utf8.RuneCountInString(text)
}

// SplitBySize cuts text into pieces of at most size characters without
// breaking a UTF-8 sequence. A non-positive size returns text unchanged.
func SplitBySize(text string, size int) []string {
	if size <= 0 || text == "" {
		return []string{text}
	}
	var pieces []string
	for text != "" {
		cut := bytePos(text, size)
		pieces = append(pieces, text[:cut])
		text = text[cut:]
	}
	return pieces
}

// SplitRunes splits text into single-character strings.
func SplitRunes(text string) []string {
	out := make([]string, 0, len(text))
	for len(text) > 0 {
		_, size := utf8.DecodeRuneInString(text)
		out = append(out, text[:size])
		text = text[size:]
	}
	return out
}

// Tail returns the last n characters of text.
func Tail(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := RuneCount(text)
	if n >= count {
		return text
	}
	return text[bytePos(text, count-n):]
}

// bytePos converts a character offset into a byte offset, clamped to len(text).
func bytePos(text string, chars int) int {
	i := 0
	for pos := range text {
		if i == chars {
			return pos
		}
		i++
	}
	return len(text)
}
