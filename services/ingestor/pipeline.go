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
	"log/slog"
	"time"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// RunState is the pipeline's per-run state. Exactly one item is in flight
// at a time; the state names which stage that item is in.
type RunState string

const (
	StateReady     RunState = "READY"
	StateInferring RunState = "INFERRING"
	StateDeciding  RunState = "DECIDING"
	StateDone      RunState = "DONE"
	StateAborted   RunState = "ABORTED"
)

// RunResult reports the terminal state of a run and what was processed
// before it ended.
type RunResult struct {
	State          RunState
	Processed      int
	SkippedSources int
	// AbortedItem is the id of the item whose stage call failed, empty
	// when the run completed.
	AbortedItem string
}

// stageCaller is what the pipeline needs from the stage clients.
type stageCaller interface {
	Analyze(ctx context.Context, item records.PostRecord) (records.EnrichedPayload, error)
	Reason(ctx context.Context, enriched records.EnrichedPayload) (records.ReasonResponse, error)
}

// Pipeline walks the configured sources in order, pushing each item through
// the analyze and reason stages sequentially.
//
// Error policy is deliberately asymmetric: a missing or malformed source
// file is logged and skipped, but any transport failure on a stage call
// aborts the entire run including remaining sources. This is a fail-fast
// batch policy suited to a demo run, not per-item error isolation.
type Pipeline struct {
	stages  stageCaller
	sources []string
	pacing  time.Duration
	logger  *slog.Logger
	state   RunState
}

func NewPipeline(stages stageCaller, cfg *Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		stages:  stages,
		sources: cfg.Sources,
		pacing:  cfg.PacingDelay(),
		logger:  logger,
		state:   StateReady,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() RunState {
	return p.state
}

// Run processes every source in order and returns the terminal result.
func (p *Pipeline) Run(ctx context.Context) RunResult {
	result := RunResult{}

	for _, path := range p.sources {
		items, err := LoadSource(path)
		if err != nil {
			p.logger.Warn("skipping source", "path", path, "error", err)
			result.SkippedSources++
			continue
		}
		p.logger.Info("processing source", "path", path, "items", len(items))

		for _, item := range items {
			if err := p.processItem(ctx, item); err != nil {
				p.logger.Error("aborting run, stage call failed",
					"id", item.ID, "error", err)
				p.state = StateAborted
				result.State = StateAborted
				result.AbortedItem = item.ID
				return result
			}
			result.Processed++

			// Pace successful items only; an abort returns immediately.
			select {
			case <-time.After(p.pacing):
			case <-ctx.Done():
				p.state = StateAborted
				result.State = StateAborted
				return result
			}
		}
	}

	p.state = StateDone
	result.State = StateDone
	return result
}

func (p *Pipeline) processItem(ctx context.Context, item records.PostRecord) error {
	p.logger.Info("sending item", "id", item.ID)

	p.state = StateInferring
	enriched, err := p.stages.Analyze(ctx, item)
	if err != nil {
		return err
	}

	p.state = StateDeciding
	resp, err := p.stages.Reason(ctx, enriched)
	if err != nil {
		return err
	}

	p.logger.Info("item stored", "id", resp.ID, "verdict", resp.Verdict)
	return nil
}
