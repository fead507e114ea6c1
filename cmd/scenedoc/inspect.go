// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/gltf"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newInspectCmd(a *app, withFile bool) *cobra.Command {
	var showMatrix bool
	cmd := editCmd(a, withFile, false, "inspect", "Print the node tree of the document", 0, func(cmd *cobra.Command, args []string) error {
		doc, err := a.current(cmd.Context())
		if err != nil {
			return err
		}
		printTree(a.stdout, doc, showMatrix)
		return nil
	})
	cmd.Flags().BoolVar(&showMatrix, "matrix", false, "print the position of nodes with a transform")
	return cmd
}

// printTree prints the scenes of doc with their node trees,
// styled for the terminal that w is.
func printTree(w io.Writer, doc *gltf.Document, showMatrix bool) {
	out := termenv.NewOutput(w)
	title := out.String().Bold()
	faint := out.String().Faint()
	comp := out.String().Foreground(out.Color("6"))
	hidden := out.String().Foreground(out.Color("1"))

	var node func(i int, depth int)
	node = func(i, depth int) {
		n := doc.Node(i)
		if n == nil {
			return
		}
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(title.Styled(n.Name))
		b.WriteString(" ")
		b.WriteString(faint.Styled(n.UUID()))
		var keys []string
		for _, k := range doc.ExtensionKeys(i) {
			if k != component.UUID && k != component.Visible {
				keys = append(keys, strings.TrimPrefix(k, "XYZ_"))
			}
		}
		slices.Sort(keys)
		if len(keys) > 0 {
			b.WriteString(" ")
			b.WriteString(comp.Styled(strings.Join(keys, " ")))
		}
		if v, ok := doc.Extension(i, component.Visible); ok && isHidden(v) {
			b.WriteString(" ")
			b.WriteString(hidden.Styled("hidden"))
		}
		if showMatrix && n.Matrix != nil {
			p := n.Matrix.Translation()
			fmt.Fprintf(&b, " @ %g,%g,%g", p.X, p.Y, p.Z)
		}
		fmt.Fprintln(w, b.String())
		for _, c := range n.Children {
			node(c, depth+1)
		}
	}
	for si, s := range doc.Scenes {
		if s == nil {
			continue
		}
		label := fmt.Sprintf("scene %d", si)
		if s.Name != "" {
			label += " " + s.Name
		}
		if si == doc.DefaultScene() {
			label += " (default)"
		}
		fmt.Fprintln(w, title.Styled(label))
		for _, r := range s.Nodes {
			node(r, 1)
		}
	}
}

// isHidden returns whether the given visible component payload
// turns the node off.
func isHidden(v any) bool {
	m, ok := v.(map[string]any)
	return ok && m["value"] == false
}
