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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config drives one ingestion run. Sources are processed in the order they
// appear in the file. Durations are given in seconds.
type Config struct {
	AnalyzerURL string   `yaml:"analyzer_url"`
	ReasonerURL string   `yaml:"reasoner_url"`
	Sources     []string `yaml:"sources"`

	// PacingDelaySecs is the wait after each successfully processed item,
	// simulating real-time arrival for a demo run.
	PacingDelaySecs float64 `yaml:"pacing_delay_secs"`

	// AnalyzeTimeoutSecs is longer than ReasonTimeoutSecs because model
	// inference dominates the analyze stage.
	AnalyzeTimeoutSecs float64 `yaml:"analyze_timeout_secs"`
	ReasonTimeoutSecs  float64 `yaml:"reason_timeout_secs"`
}

// PacingDelay returns the configured pacing as a duration.
func (c *Config) PacingDelay() time.Duration {
	return time.Duration(c.PacingDelaySecs * float64(time.Second))
}

func (c *Config) AnalyzeTimeout() time.Duration {
	return time.Duration(c.AnalyzeTimeoutSecs * float64(time.Second))
}

func (c *Config) ReasonTimeout() time.Duration {
	return time.Duration(c.ReasonTimeoutSecs * float64(time.Second))
}

// LoadConfig reads and validates the YAML config, applying defaults for
// unset durations.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.AnalyzerURL == "" {
		cfg.AnalyzerURL = "http://127.0.0.1:5001"
	}
	if cfg.ReasonerURL == "" {
		cfg.ReasonerURL = "http://127.0.0.1:5002"
	}
	if cfg.PacingDelaySecs <= 0 {
		cfg.PacingDelaySecs = 5
	}
	if cfg.AnalyzeTimeoutSecs <= 0 {
		cfg.AnalyzeTimeoutSecs = 60
	}
	if cfg.ReasonTimeoutSecs <= 0 {
		cfg.ReasonTimeoutSecs = 30
	}
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("config %s lists no sources", path)
	}
	return &cfg, nil
}
