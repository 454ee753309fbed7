// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package store

import (
	"context"
	"log/slog"

	"github.com/AleutianAI/mediasentry/pkg/records"
)

// Upserter is one store's write capability.
type Upserter interface {
	Upsert(ctx context.Context, report records.StoredReport) error
}

// PersistOutcome records which of the two independent writes succeeded.
// Callers and tests can see that a default was substituted instead of
// guessing from logs. No reconciliation happens on partial failure; the
// item counts as processed either way.
type PersistOutcome struct {
	VectorErr error
	GraphErr  error
}

// OK reports whether both writes landed.
func (o PersistOutcome) OK() bool {
	return o.VectorErr == nil && o.GraphErr == nil
}

// Partial reports whether exactly one write landed.
func (o PersistOutcome) Partial() bool {
	return (o.VectorErr == nil) != (o.GraphErr == nil)
}

// DualStore fans one report out to the vector index and the graph store.
//
// The two upserts are attempted independently: a failure in one never
// rolls back or blocks the other. This is at-least-once, non-atomic
// dual-write; partial writes are logged and surfaced in the outcome.
type DualStore struct {
	vector Upserter
	graph  Upserter
	logger *slog.Logger
}

// NewDualStore wires the dual-write persister.
func NewDualStore(vector, graph Upserter, logger *slog.Logger) *DualStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &DualStore{vector: vector, graph: graph, logger: logger}
}

// Persist upserts the report into both stores and reports per-store
// results. Never returns an error; store failures are non-fatal to the
// pipeline run.
func (d *DualStore) Persist(ctx context.Context, report records.StoredReport) PersistOutcome {
	var outcome PersistOutcome

	d.logger.Info("storing verdict", "id", report.ID, "verdict", report.Verdict)

	if err := d.vector.Upsert(ctx, report); err != nil {
		d.logger.Error("vector index write failed", "id", report.ID, "error", err)
		outcome.VectorErr = err
	}

	if err := d.graph.Upsert(ctx, report); err != nil {
		d.logger.Error("graph store write failed", "id", report.ID, "error", err)
		outcome.GraphErr = err
	}

	if outcome.OK() {
		d.logger.Info("successfully stored report", "id", report.ID)
	}
	return outcome
}
