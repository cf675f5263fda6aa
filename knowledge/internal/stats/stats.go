//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Package stats collects chunk size statistics for an ingestion run.
package stats

import (
	"math"

	"trpc.group/trpc-go/trpc-rag-ingest/log"
)

// DefaultBuckets are the chunk size histogram upper bounds in characters.
var DefaultBuckets = []int{100, 250, 500, 1000, 2000}

// Stats tracks chunk sizes for one run. It is not safe for concurrent use.
type Stats struct {
	Count   int
	Total   int
	Min     int
	Max     int
	buckets []int
	counts  []int
}

// New returns a Stats for the given histogram upper bounds, which must be
// ascending. Nil means DefaultBuckets.
func New(buckets []int) *Stats {
	if buckets == nil {
		buckets = DefaultBuckets
	}
	return &Stats{
		Min:     math.MaxInt,
		buckets: buckets,
		counts:  make([]int, len(buckets)+1),
	}
}

// Add records one chunk size.
func (s *Stats) Add(size int) {
	s.Count++
	s.Total += size
	s.Min = min(s.Min, size)
	s.Max = max(s.Max, size)
	for i, upper := range s.buckets {
		if size < upper {
			s.counts[i]++
			return
		}
	}
	s.counts[len(s.counts)-1]++
}

// Avg returns the average chunk size.
func (s *Stats) Avg() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Total) / float64(s.Count)
}

// Bucket is one histogram bin, [Lower, Upper). Upper is -1 for the open bin.
type Bucket struct {
	Lower int
	Upper int
	Count int
}

// Histogram returns the non-empty bins in ascending order.
func (s *Stats) Histogram() []Bucket {
	var out []Bucket
	lower := 0
	for i, upper := range s.buckets {
		if s.counts[i] > 0 {
			out = append(out, Bucket{Lower: lower, Upper: upper, Count: s.counts[i]})
		}
		lower = upper
	}
	if last := s.counts[len(s.counts)-1]; last > 0 {
		out = append(out, Bucket{Lower: lower, Upper: -1, Count: last})
	}
	return out
}

// Log outputs the collected statistics.
func (s *Stats) Log() {
	if s.Count == 0 {
		log.Infof("Chunk statistics - no chunks")
		return
	}
	log.Infof("Chunk statistics - total: %d, avg: %.1f chars, min: %d, max: %d",
		s.Count, s.Avg(), s.Min, s.Max)
	for _, b := range s.Histogram() {
		if b.Upper < 0 {
			log.Infof("  [>= %d]: %d chunk(s)", b.Lower, b.Count)
			continue
		}
		log.Infof("  [%d, %d): %d chunk(s)", b.Lower, b.Upper, b.Count)
	}
}
