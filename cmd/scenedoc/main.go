// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command scenedoc edits the node graph of GLTF scene documents.
// Every edit is committed as a snapshot, journaled, and saved back
// to the document; the repl command keeps a document open for a
// series of edits with undo and redo.
package main

import (
	"fmt"
	"os"

	"cogentcore.org/scenedoc/base/logx"
	"cogentcore.org/scenedoc/config"
	"github.com/spf13/cobra"
)

// flags are the global command line flags.
type flags struct {
	config  string
	journal string
	out     string
	indent  string
	vv      bool
	v       bool
	q       bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd returns the root command with all of the subcommands.
func newRootCmd() *cobra.Command {
	fl := &flags{}
	a := &app{}
	root := &cobra.Command{
		Use:   "scenedoc",
		Short: "Edit the node graph of GLTF scene documents",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(fl.config)
			if err != nil {
				return err
			}
			over := &config.Config{Journal: fl.journal, Indent: fl.indent}
			if err := config.Overlay(cfg, over); err != nil {
				return err
			}
			if err := cfg.Expand(); err != nil {
				return err
			}
			if fl.vv || fl.v || fl.q {
				logx.UserLevel = logx.LevelFromFlags(fl.vv, fl.v, fl.q)
			} else {
				logx.UserLevel = cfg.Level()
			}
			a.logger = logx.SetDefaultLogger(cmd.ErrOrStderr())
			a.cfg = cfg
			a.outPath = fl.out
			a.stdout = cmd.OutOrStdout()
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&fl.config, "config", "", "config file (.toml or .yaml)")
	pf.StringVar(&fl.journal, "journal", "", "path of the SQLite edit journal (default ~/.scenedoc/journal.db)")
	pf.StringVarP(&fl.out, "out", "o", "", "path to save the edited document to (default: the input document)")
	pf.StringVar(&fl.indent, "indent", "", "indentation of the saved document")
	pf.BoolVar(&fl.vv, "vv", false, "debug output")
	pf.BoolVarP(&fl.v, "verbose", "v", false, "verbose output")
	pf.BoolVarP(&fl.q, "quiet", "q", false, "only print errors")

	root.AddCommand(newInspectCmd(a, true))
	root.AddCommand(newEditCmds(a, true)...)
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newReplCmd(a))
	return root
}
