//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/source/upload"
)

type ingestOptions struct {
	strategy     string
	chunkSize    int
	chunkOverlap int
	skipFailures bool
	stats        bool
	parallelism  int
	metadata     map[string]string
}

func newIngestCmd(root *rootOptions) *cobra.Command {
	opts := &ingestOptions{}
	cmd := &cobra.Command{
		Use:   "ingest [files or globs...]",
		Short: "Load and chunk files, printing one JSON object per chunk",
		Long: `Reads each file, validates the batch, loads the documents, splits them with
the configured strategy and writes the chunks to stdout as JSON lines.
Arguments may be doublestar globs such as 'docs/**/*.md'.
Flags override the matching config file values.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.strategy, "strategy", "", "chunking strategy (see 'ragingest strategies')")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "chunk size bound")
	cmd.Flags().IntVar(&opts.chunkOverlap, "chunk-overlap", 0, "overlap between consecutive chunks")
	cmd.Flags().BoolVar(&opts.skipFailures, "skip-failures", false, "skip files that fail to load instead of aborting")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "log chunk size statistics")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 1, "documents chunked at once")
	cmd.Flags().StringToStringVar(&opts.metadata, "metadata", nil, "extra metadata added to every document, key=value")
	return cmd
}

func runIngest(cmd *cobra.Command, root *rootOptions, opts *ingestOptions, paths []string) error {
	overrides := map[string]any{}
	if cmd.Flags().Changed("strategy") {
		overrides["chunk_strategy"] = opts.strategy
	}
	if cmd.Flags().Changed("chunk-size") {
		overrides["chunk_size"] = opts.chunkSize
	}
	if cmd.Flags().Changed("chunk-overlap") {
		overrides["chunk_overlap"] = opts.chunkOverlap
	}
	root.store.Update(overrides)

	paths, err := expandGlobs(paths)
	if err != nil {
		return err
	}
	files, err := readFiles(paths)
	if err != nil {
		return err
	}

	shutdown, err := root.startTelemetry(cmd.Context())
	if err != nil {
		return err
	}
	defer shutdown()

	sourceOpts := make([]upload.Option, 0, len(opts.metadata))
	for k, v := range opts.metadata {
		sourceOpts = append(sourceOpts, upload.WithMetadataValue(k, v))
	}
	p := ingest.New(root.store.Get(),
		ingest.WithSink(ingest.NewJSONLines(cmd.OutOrStdout())),
		ingest.WithSourceOptions(sourceOpts...),
		ingest.WithSkipFailures(opts.skipFailures),
		ingest.WithStats(opts.stats),
		ingest.WithParallelism(opts.parallelism),
	)
	res, err := p.Run(cmd.Context(), files)
	if err != nil {
		return err
	}
	for _, f := range res.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", f)
	}
	return nil
}

// expandGlobs replaces each pattern with its sorted matches. An argument
// without glob metacharacters is kept as is so a missing file is reported
// by readFiles. A pattern that matches nothing is an error.
func expandGlobs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !hasMeta(arg) {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expand %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %s", arg)
		}
		sort.Strings(matches)
		paths = append(paths, matches...)
	}
	return paths, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// readFiles reads each path into an upload named after its base name.
func readFiles(paths []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		files = append(files, upload.NewFile(filepath.Base(p), data))
	}
	return files, nil
}
