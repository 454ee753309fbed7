// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// The dashboard is a read-only live view over the reasoner's report query
// endpoint. It polls on a fixed interval and redraws a table of the most
// recent claim-like reports. It never writes to the pipeline.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/mediasentry/pkg/logging"
)

var (
	reasonerURL  string
	reportCount  int
	pollInterval time.Duration

	rootCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Live terminal view of the most recent claim reports",
		Run:   runDashboard,
	}
)

func init() {
	defaultURL := os.Getenv("REASONER_SERVICE_URL")
	if defaultURL == "" {
		defaultURL = "http://127.0.0.1:5002"
	}
	rootCmd.PersistentFlags().StringVar(&reasonerURL, "reasoner-url", defaultURL,
		"base URL of the reasoner service")
	rootCmd.PersistentFlags().IntVar(&reportCount, "count", 25,
		"number of recent reports to show")
	rootCmd.PersistentFlags().DurationVar(&pollInterval, "interval", 10*time.Second,
		"polling interval")
}

func main() {
	slog.SetDefault(logging.New(logging.Config{Service: "dashboard", JSON: false}))
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}

func runDashboard(cmd *cobra.Command, args []string) {
	client := NewReportClient(reasonerURL)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	draw := func() {
		reports, err := client.Recent(cmd.Context(), reportCount)
		if err != nil {
			slog.Error("failed to fetch reports", "error", err)
			return
		}
		// Clear the screen and home the cursor before redrawing.
		fmt.Print("\033[2J\033[H")
		fmt.Printf("MediaSentry Live View  (%s, every %s)\n\n",
			reasonerURL, pollInterval)
		fmt.Println(renderReports(reports))
		fmt.Printf("\nLast updated: %s  (count=%d)  Ctrl-C to quit\n",
			time.Now().Format(time.RFC822), len(reports))
	}

	draw()
	for {
		select {
		case <-ticker.C:
			draw()
		case <-sig:
			fmt.Println("\nshutting down")
			return
		}
	}
}
