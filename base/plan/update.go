// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plan provides an efficient mechanism for updating a slice
// to contain a target list of elements, generating minimal edits to
// modify the current slice contents to match the target.
// The mechanism depends on the use of unique name string identifiers
// to determine whether an element is currently configured correctly.
// For scene documents, the names are node UUIDs.
package plan

import (
	"log/slog"
	"slices"

	"cogentcore.org/scenedoc/base/slicesx"
)

// Namer is an interface that types can implement to specify their name in a plan context.
type Namer interface {

	// PlanName returns the name of the object in a plan context.
	PlanName() string
}

// Update ensures that the elements of the slice match the given
// target names, in order. If a new item is needed then new is called
// to create it, for the given name at the given index position.
// If destroy is non-nil, then it is called on any element that is
// being deleted from the slice. Duplicate target names are logged
// and only the first one is kept.
// It returns the updated slice and whether any changes were made.
func Update[T Namer](s []T, names []string, new func(name string, i int) T, destroy func(e T)) (r []T, mods bool) {
	// first make a map for looking up the indexes of the target names
	nmap := make(map[string]int, len(names))
	uniq := make([]string, 0, len(names))
	for _, nm := range names {
		if _, has := nmap[nm]; has {
			slog.Error("plan.Update: duplicate name", "name", nm)
			continue
		}
		nmap[nm] = len(uniq)
		uniq = append(uniq, nm)
	}
	smap := make(map[string]int, len(s))
	// first remove anything we don't want
	r = s
	for i := len(r) - 1; i >= 0; i-- {
		nm := r[i].PlanName()
		if _, ok := nmap[nm]; !ok {
			mods = true
			if destroy != nil {
				destroy(r[i])
			}
			r = slices.Delete(r, i, i+1)
			continue
		}
		smap[nm] = i
	}
	// next add and move items as needed; in order so guaranteed
	for i, tn := range uniq {
		ci := slicesx.Search(r, func(e T) bool { return e.PlanName() == tn }, smap[tn])
		if ci < 0 { // item not currently on the list
			mods = true
			ne := new(tn, i)
			r = slices.Insert(r, i, ne)
		} else { // on the list; is it in the right place?
			if ci != i {
				mods = true
				e := r[ci]
				r = slices.Delete(r, ci, ci+1)
				r = slices.Insert(r, i, e)
			}
		}
	}
	return
}
