// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package selection provides the selection [State]: an ordered set of
// selected node UUIDs. A selection holds identities rather than
// entities or indexes, so it can span several source documents and
// survives both structural edits and history traversal.
package selection

import (
	"slices"
)

// State is an ordered set of selected UUIDs. It never changes any
// document. It is not safe for concurrent use.
type State struct {
	ids       []string
	listeners []func(ids []string)
}

// OnChange adds a function that is called with the new selection
// after every change.
func (s *State) OnChange(fun func(ids []string)) {
	s.listeners = append(s.listeners, fun)
}

func (s *State) changed() {
	for _, fun := range s.listeners {
		fun(s.IDs())
	}
}

// IDs returns a copy of the selected UUIDs, in selection order.
func (s *State) IDs() []string {
	return slices.Clone(s.ids)
}

// Len returns the number of selected UUIDs.
func (s *State) Len() int {
	return len(s.ids)
}

// Contains returns whether the given UUID is selected.
func (s *State) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// Replace sets the selection to the given UUIDs, dropping repeats.
// It returns false, and does nothing, if the selection already has
// the same members in the same order.
func (s *State) Replace(ids ...string) bool {
	var nids []string
	for _, id := range ids {
		if !slices.Contains(nids, id) {
			nids = append(nids, id)
		}
	}
	if slices.Equal(s.ids, nids) {
		return false
	}
	s.ids = nids
	s.changed()
	return true
}

// Toggle removes the given UUID if it is selected, and appends it otherwise.
func (s *State) Toggle(id string) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	} else {
		s.ids = append(s.ids, id)
	}
	s.changed()
}

// Add appends the given UUID if it is not already selected.
// It returns whether the selection changed.
func (s *State) Add(id string) bool {
	if slices.Contains(s.ids, id) {
		return false
	}
	s.ids = append(s.ids, id)
	s.changed()
	return true
}

// Remove removes the given UUIDs, returning whether any was selected.
func (s *State) Remove(ids ...string) bool {
	n := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return slices.Contains(ids, id) })
	if len(s.ids) == n {
		return false
	}
	s.changed()
	return true
}

// Clear deselects everything.
func (s *State) Clear() bool {
	return s.Replace()
}

// Restrict keeps only the UUIDs for which keep returns true, for example
// to limit the selection to the nodes of the active document after an
// edit or a change of the active document. It returns whether the
// selection changed.
func (s *State) Restrict(keep func(id string) bool) bool {
	n := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return !keep(id) })
	if len(s.ids) == n {
		return false
	}
	s.changed()
	return true
}
