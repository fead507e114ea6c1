// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenedoc_snapshot_commits_total",
		Help: "Total number of committed document snapshots",
	})

	undoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenedoc_snapshot_undo_total",
		Help: "Total number of undo index movements",
	})

	redoTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenedoc_snapshot_redo_total",
		Help: "Total number of redo index movements",
	})

	truncatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scenedoc_redo_truncated_total",
		Help: "Total number of redo snapshots discarded by new commits",
	})

	historySize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "scenedoc_history_size",
		Help: "Number of snapshots in the history of each source",
	}, []string{"source"})
)
