//
// Tencent is pleased to support the open source community by making trpc-rag-ingest available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rag-ingest is licensed under the Apache License Version 2.0.
//
//

// Command ragingest loads uploaded documents, splits them into chunks and
// writes the chunks as JSON lines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-rag-ingest/config"
	itelemetry "trpc.group/trpc-go/trpc-rag-ingest/internal/telemetry"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
	"trpc.group/trpc-go/trpc-rag-ingest/log"
	"trpc.group/trpc-go/trpc-rag-ingest/telemetry/metric"
	"trpc.group/trpc-go/trpc-rag-ingest/telemetry/trace"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath   string
	logLevel     string
	otelEndpoint string
	otelProtocol string

	store *config.Store
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error (%s): %v\n", ingest.Kind(err), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "ragingest",
		Short: "Document ingestion for retrieval augmented generation",
		Long: `ragingest validates uploaded files, loads them with a reader chosen by
extension, enriches them with provenance metadata and splits them into
chunks ready for an embedding store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file path")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&opts.otelEndpoint, "otel-endpoint", "",
		"OTLP collector host:port; telemetry is off when empty")
	cmd.PersistentFlags().StringVar(&opts.otelProtocol, "otel-protocol", itelemetry.ProtocolGRPC,
		"OTLP protocol: grpc or http")

	cmd.AddCommand(newIngestCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newStrategiesCmd())
	return cmd
}

// init loads the config store and applies the log level. The flag wins
// over the file.
func (o *rootOptions) init(cmd *cobra.Command) error {
	o.store = config.New(config.WithPath(o.configPath))
	level := o.store.Get().LogLevel
	if cmd.Flags().Changed("log-level") {
		level = o.logLevel
		o.store.Update(map[string]any{"log_level": level})
	}
	log.SetLevel(level)
	return nil
}

// startTelemetry installs the trace and metric exporters when an endpoint
// was given. The returned function flushes both.
func (o *rootOptions) startTelemetry(ctx context.Context) (func(), error) {
	if o.otelEndpoint == "" {
		return func() {}, nil
	}
	cleanTrace, err := trace.Start(ctx,
		trace.WithEndpoint(o.otelEndpoint),
		trace.WithProtocol(o.otelProtocol),
	)
	if err != nil {
		return nil, fmt.Errorf("start tracing: %w", err)
	}
	cleanMetric, err := metric.Start(ctx,
		metric.WithEndpoint(o.otelEndpoint),
		metric.WithProtocol(o.otelProtocol),
	)
	if err != nil {
		_ = cleanTrace()
		return nil, fmt.Errorf("start metrics: %w", err)
	}
	return func() {
		if err := errors.Join(cleanMetric(), cleanTrace()); err != nil {
			log.Warnf("telemetry shutdown: %v", err)
		}
	}, nil
}
