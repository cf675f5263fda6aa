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
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
	"trpc.group/trpc-go/trpc-rag-ingest/server/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		addr        string
		parallelism int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ingestion pipeline over HTTP",
		Long: `Starts an HTTP server. POST /ingest accepts multipart uploads in the
"files" field and answers with the chunks as JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			shutdown, err := root.startTelemetry(cmd.Context())
			if err != nil {
				return err
			}
			defer shutdown()

			s := api.New(root.store, api.WithPipelineOptions(ingest.WithParallelism(parallelism)))
			return serve(cmd.Context(), addr, s.Handler())
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "documents chunked at once per request")
	return cmd
}

// serve runs the HTTP server until ctx is done, then drains it.
func serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Infof("Server stopped")
	return nil
}
