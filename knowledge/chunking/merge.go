//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package chunking

import "strings"

// merger greedily packs pieces into windows. Pieces must each fit the
// window on their own; the caller splits oversized pieces first.
type merger struct {
	size    int
	overlap int
	length  func(string) int
}

// merge joins pieces with sep into windows of at most m.size, carrying at
// most m.overlap of trailing context from one window into the next.
func (m merger) merge(pieces []string, sep string) []string {
	sepLen := m.length(sep)
	var (
		out     []string
		current []string
		lengths []int
		total   int
	)
	for _, piece := range pieces {
		n := m.length(piece)
		if len(current) > 0 && total+n+sepLen > m.size {
			if text := strings.TrimSpace(strings.Join(current, sep)); text != "" {
				out = append(out, text)
			}
			for len(current) > 0 && (total > m.overlap || total+n+sepLen > m.size) {
				total -= lengths[0]
				if len(current) > 1 {
					total -= sepLen
				}
				current = current[1:]
				lengths = lengths[1:]
			}
		}
		if len(current) > 0 {
			total += sepLen
		}
		current = append(current, piece)
		lengths = append(lengths, n)
		total += n
	}
	if text := strings.TrimSpace(strings.Join(current, sep)); text != "" {
		out = append(out, text)
	}
	return out
}
