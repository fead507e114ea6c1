// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"

	"cogentcore.org/scenedoc/editor"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl FILE",
		Short: "Edit a document interactively, with undo and redo",
		Long: `Edit a document interactively. Every edit command is available
without the FILE argument, along with undo [N], redo [N], save [PATH],
inspect, history and quit. Nothing is saved until save is run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withFile(cmd.Context(), args[0], false, func() error {
				return a.repl(cmd.Context(), cmd.InOrStdin())
			})
		},
	}
}

// newReplRoot returns a fresh command tree for one repl line,
// so that no flag value carries over to the next line.
func newReplRoot(a *app) *cobra.Command {
	root := &cobra.Command{Use: "repl", SilenceUsage: true, SilenceErrors: true}
	root.SetOut(a.stdout)
	root.SetErr(a.stdout)
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newInspectCmd(a, false))
	root.AddCommand(newEditCmds(a, false)...)
	root.AddCommand(&cobra.Command{
		Use:   "undo [N]",
		Short: "Undo the last N edits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.step(cmd.Context(), args, true)
		},
	}, &cobra.Command{
		Use:   "redo [N]",
		Short: "Redo the last N undone edits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.step(cmd.Context(), args, false)
		},
	}, &cobra.Command{
		Use:   "save [PATH]",
		Short: "Save the document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return a.save(cmd.Context(), path)
		},
	}, &cobra.Command{
		Use:   "history",
		Short: "List the journaled edits of the document",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.journal == nil {
				return fmt.Errorf("history: no journal is configured")
			}
			return printHistory(cmd.Context(), a, a.journal, a.source)
		},
	})
	return root
}

// step undoes (undo true) or redoes N edits.
func (a *app) step(ctx context.Context, args []string, undo bool) error {
	n := 1
	if len(args) == 1 {
		var err error
		if n, err = strconv.Atoi(args[0]); err != nil {
			return err
		}
	}
	return a.do(ctx, func(ed *editor.Editor) error {
		var moved bool
		if undo {
			moved = ed.Undo(a.source, n)
		} else {
			moved = ed.Redo(a.source, n)
		}
		if !moved {
			fmt.Fprintln(a.stdout, "nothing to do")
			return nil
		}
		fmt.Fprintf(a.stdout, "at %d of %d: %s\n", ed.Store.Index(a.source)+1, ed.Store.Len(a.source), ed.Store.Current(a.source).Action)
		return nil
	})
}

// repl runs commands read from r until it ends or quit is read.
// Command errors are printed and do not end the repl.
func (a *app) repl(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	for {
		fmt.Fprint(a.stdout, "> ")
		if !sc.Scan() {
			fmt.Fprintln(a.stdout)
			return sc.Err()
		}
		args, err := shellwords.Parse(sc.Text())
		if err != nil {
			fmt.Fprintln(a.stdout, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		root := newReplRoot(a)
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			fmt.Fprintln(a.stdout, "error:", err)
		}
	}
}
