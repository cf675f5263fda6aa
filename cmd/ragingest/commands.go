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
	"strings"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-rag-ingest/config"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/chunking"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/ingest"
	"trpc.group/trpc-go/trpc-rag-ingest/knowledge/validator"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an API key or a query",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "key [key]",
		Short: "Check the shape of an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validator.ValidateAPIKey(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "API key is invalid")
				return fmt.Errorf("%w: api key", ingest.ErrValidation)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key is valid")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "query [text...]",
		Short: "Check a user query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, msg := validator.ValidateQuery(strings.Join(args, " "))
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			if !ok {
				return fmt.Errorf("%w: %s", ingest.ErrValidation, msg)
			}
			return nil
		},
	})
	return cmd
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := root.store.Marshal()
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "keys",
		Short: "List the recognised configuration keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range config.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	})
	return cmd
}

func newStrategiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the chunking strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range chunking.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
