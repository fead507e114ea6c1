// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"math"

	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/editor"
	"cogentcore.org/scenedoc/graph"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/math64"
	"github.com/spf13/cobra"
)

// editCmd returns a command that runs fun with the given arguments.
// If withFile is true, the command takes the document as its first
// argument, and saves it after fun; otherwise it works on the document
// that is already open, as in the repl.
func editCmd(a *app, withFile, save bool, use, short string, nargs int, fun func(cmd *cobra.Command, args []string) error) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short}
	if !withFile {
		cmd.Args = cobra.MinimumNArgs(nargs)
		cmd.RunE = fun
		return cmd
	}
	cmd.Use = cmd.Name() + " FILE" + use[len(cmd.Name()):]
	cmd.Args = cobra.MinimumNArgs(nargs + 1)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return a.withFile(cmd.Context(), args[0], save, func() error {
			return fun(cmd, args[1:])
		})
	}
	return cmd
}

// printRefs prints the UUIDs of the given references.
func (a *app) printRefs(rs []history.Ref) {
	for _, r := range rs {
		fmt.Fprintln(a.stdout, r.UUID)
	}
}

// newEditCmds returns the commands that edit the document.
func newEditCmds(a *app, withFile bool) []*cobra.Command {
	var cmds []*cobra.Command

	// create
	var parent, before string
	var comps []string
	var mesh int
	create := editCmd(a, withFile, true, "create NAME", "Add a new node", 1, func(cmd *cobra.Command, args []string) error {
		return a.do(cmd.Context(), func(ed *editor.Editor) error {
			c := editor.Create{Source: a.source, Name: args[0], Before: before}
			if parent != "" {
				doc := ed.Store.Current(a.source).Data
				id, err := resolve(doc, parent)
				if err != nil {
					return err
				}
				c.Parent = id
			}
			for _, nm := range comps {
				c.Components = append(c.Components, component.Spec{ID: componentID(ed.Components, nm)})
			}
			if mesh >= 0 {
				c.Mesh = &mesh
			}
			r, err := ed.Create(c)
			if err != nil {
				return err
			}
			a.printRefs([]history.Ref{r})
			return nil
		})
	})
	create.Flags().StringVar(&parent, "parent", "", "name or UUID of the parent node")
	create.Flags().StringVar(&before, "before", "", "UUID of the sibling to insert the node in front of")
	create.Flags().StringSliceVarP(&comps, "component", "c", nil, "components to add, such as light or material")
	create.Flags().IntVar(&mesh, "mesh", -1, "index of the mesh of the node")
	cmds = append(cmds, create)

	cmds = append(cmds, editCmd(a, withFile, true, "remove NODE...", "Remove nodes and their descendants", 1, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args)
		if err != nil {
			return err
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error { return ed.Remove(rs) })
	}))

	cmds = append(cmds, editCmd(a, withFile, true, "duplicate NODE...", "Copy nodes with their descendants", 1, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args)
		if err != nil {
			return err
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error {
			dup, err := ed.Duplicate(rs)
			a.printRefs(dup)
			return err
		})
	}))

	cmds = append(cmds, editCmd(a, withFile, true, "group NAME NODE...", "Put nodes into a new group node", 2, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args[1:])
		if err != nil {
			return err
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error {
			g, err := ed.Group(rs, args[0])
			a.printRefs(g)
			return err
		})
	}))

	var reBefore string
	reparent := editCmd(a, withFile, true, "reparent PARENT NODE...", "Move nodes to a new parent, or to the scene root with /", 2, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args[1:])
		if err != nil {
			return err
		}
		p := history.Ref{Source: a.source}
		if args[0] != "/" {
			prs, err := a.refs(cmd.Context(), args[:1])
			if err != nil {
				return err
			}
			p = prs[0]
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error { return ed.Reparent(rs, p, reBefore) })
	})
	reparent.Flags().StringVar(&reBefore, "before", "", "UUID of the sibling to insert the nodes in front of")
	cmds = append(cmds, reparent)

	cmds = append(cmds, editCmd(a, withFile, true, "rename NAME NODE...", "Rename nodes", 2, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args[1:])
		if err != nil {
			return err
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error { return ed.ModifyName(rs, args[0]) })
	}))

	cmds = append(cmds, editCmd(a, withFile, true, "set NODE COMPONENT PATH VALUE", "Set a component property; PATH . sets the whole component and VALUE null deletes", 4, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args[:1])
		if err != nil {
			return err
		}
		path := args[2]
		if path == "." {
			path = ""
		}
		var value any
		if err := json.Unmarshal([]byte(args[3]), &value); err != nil {
			value = args[3]
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error {
			comp := componentID(ed.Components, args[1])
			if comp == component.Material && path != "" && value != nil {
				return ed.ModifyMaterial(rs, map[string]any{path: value})
			}
			return ed.ModifyProperty(rs, comp, path, value)
		})
	}))

	cmds = append(cmds, editCmd(a, withFile, true, "component add|remove COMPONENT NODE...", "Add or remove a component", 3, func(cmd *cobra.Command, args []string) error {
		var add bool
		switch args[0] {
		case "add":
			add = true
		case "remove":
		default:
			return fmt.Errorf("component: %q is not add or remove", args[0])
		}
		rs, err := a.refs(cmd.Context(), args[2:])
		if err != nil {
			return err
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error {
			return ed.AddOrRemoveComponent(rs, componentID(ed.Components, args[1]), add)
		})
	}))

	cmds = append(cmds, newMoveCmd(a, withFile))
	return cmds
}

// newMoveCmd returns the move command, which sets the transforms of nodes.
func newMoveCmd(a *app, withFile bool) *cobra.Command {
	var pos, rot, scale, around, pivot string
	var angle float64
	var world bool
	cmd := editCmd(a, withFile, true, "move NODE...", "Set the position, rotation or scale of nodes, or rotate them around a pivot", 1, func(cmd *cobra.Command, args []string) error {
		rs, err := a.refs(cmd.Context(), args)
		if err != nil {
			return err
		}
		space := graph.Local
		if world {
			space = graph.World
		}
		var edits []func(ed *editor.Editor) error
		if pos != "" {
			v, err := parseVector3(pos)
			if err != nil {
				return err
			}
			edits = append(edits, func(ed *editor.Editor) error { return ed.SetPosition(rs, v, space) })
		}
		if rot != "" {
			fs, err := parseFloats(rot, 4)
			if err != nil {
				return err
			}
			axis := math64.Vec3(fs[0], fs[1], fs[2])
			q := math64.NewQuatAxisAngle(axis, fs[3]*math.Pi/180)
			edits = append(edits, func(ed *editor.Editor) error { return ed.SetRotation(rs, q, space) })
		}
		if scale != "" {
			v, err := parseVector3(scale)
			if err != nil {
				return err
			}
			edits = append(edits, func(ed *editor.Editor) error { return ed.SetScale(rs, v, space) })
		}
		if around != "" {
			axis, err := parseVector3(around)
			if err != nil {
				return err
			}
			p, err := parseVector3(pivot)
			if err != nil {
				return err
			}
			edits = append(edits, func(ed *editor.Editor) error {
				return ed.RotateAround(rs, axis, angle*math.Pi/180, p)
			})
		}
		if len(edits) == 0 {
			return fmt.Errorf("move: nothing to do; use --position, --rotation, --scale or --around")
		}
		return a.do(cmd.Context(), func(ed *editor.Editor) error {
			for _, e := range edits {
				if err := e(ed); err != nil {
					return err
				}
			}
			return nil
		})
	})
	f := cmd.Flags()
	f.StringVar(&pos, "position", "", "position as x,y,z")
	f.StringVar(&rot, "rotation", "", "rotation as axis and angle in degrees: x,y,z,deg")
	f.StringVar(&scale, "scale", "", "scale as x,y,z")
	f.BoolVar(&world, "world", false, "position, rotation and scale are in world space")
	f.StringVar(&around, "around", "", "rotate around the world space axis x,y,z through --pivot by --angle")
	f.StringVar(&pivot, "pivot", "0,0,0", "pivot point for --around as x,y,z")
	f.Float64Var(&angle, "angle", 0, "angle in degrees for --around")
	return cmd
}
