// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/mediasentry/pkg/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ingestor",
	Short: "Feeds post records through the analyze and reason stages",
	Long: `The ingestor reads the configured source feed files in order and
pushes each item through the analyzer and reasoner services, one item at a
time. A failed stage call aborts the entire run.`,
	Run: runIngest,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c",
		"config.yaml", "path to the ingestor config file")
}

func main() {
	slog.SetDefault(logging.New(logging.Config{Service: "ingestor", JSON: false}))
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}

func runIngest(cmd *cobra.Command, args []string) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	pipeline := NewPipeline(NewStageClient(cfg), cfg, slog.Default())
	result := pipeline.Run(context.Background())

	slog.Info("run finished",
		"state", result.State,
		"processed", result.Processed,
		"skipped_sources", result.SkippedSources)
	if result.State == StateAborted {
		log.Fatalf("run aborted at item %s, remaining items were not sent", result.AbortedItem)
	}
}
