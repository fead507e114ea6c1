// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/editor"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/journal"
	"cogentcore.org/scenedoc/watch"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history [FILE]",
		Short: "List the journaled edits of a document, or of all documents",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Journal == "" {
				return fmt.Errorf("history: no journal is configured")
			}
			j, err := journal.Open(cmd.Context(), a.cfg.Journal)
			if err != nil {
				return err
			}
			defer func() { errors.Log(j.Close()) }()
			source := ""
			if len(args) == 1 {
				if source, err = filepath.Abs(args[0]); err != nil {
					return err
				}
			}
			return printHistory(cmd.Context(), a, j, source)
		},
	}
}

func printHistory(ctx context.Context, a *app, j *journal.Journal, source string) error {
	es, err := j.Entries(ctx, source)
	if err != nil {
		return err
	}
	for _, e := range es {
		fmt.Fprintln(a.stdout, e)
	}
	return nil
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE",
		Short: "Commit every change of a document by another program as an undoable snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.withFile(ctx, args[0], false, func() error {
				return a.watch(ctx, func(doc *gltf.Document) {
					fmt.Fprintf(a.stdout, "reloaded %s: %d nodes\n", a.path, doc.NumNodes())
				})
			})
		},
	}
}

// watch reloads the open document whenever its file changes,
// until ctx is done.
func (a *app) watch(ctx context.Context, onReload func(doc *gltf.Document)) error {
	var st *history.Store
	err := a.do(ctx, func(ed *editor.Editor) error {
		st = ed.Store
		return nil
	})
	if err != nil {
		return err
	}
	w := watch.New(a.path, a.source, st, watch.Options{
		Debounce: time.Duration(a.cfg.Watch.Debounce),
		Logger:   a.logger,
		Commit: func(s *history.Snapshot) error {
			return a.do(ctx, func(ed *editor.Editor) error { return ed.Store.Commit(s) })
		},
		OnReload: onReload,
	})
	return w.Run(ctx)
}
