// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package entity defines the runtime entity system that scene documents
// are reflected into, and provides [World], an in-memory implementation.
// Entities are ephemeral: they are never persisted, and are recreated
// from the documents whenever needed.
package entity

import (
	"slices"

	"cogentcore.org/scenedoc/base/slicesx"
	"cogentcore.org/scenedoc/math64"
)

// Handle identifies a live entity. The zero Handle is no entity.
type Handle uint64

// Info is the state of one entity.
type Info struct {

	// UUID is the identity of the document node the entity is bound to.
	UUID string

	// Source is the document source the node belongs to.
	Source string

	// Name is the name of the node.
	Name string

	// Parent is the parent entity, or 0 for a root entity.
	Parent Handle

	// Children are the child entities in order.
	Children []Handle

	// Components are the component payloads of the node.
	Components map[string]any

	// Local is the transform relative to the parent.
	Local math64.Matrix4
}

// System is the runtime entity system. It is driven by the binder
// package, which is the only code that changes entities to reflect
// document changes.
type System interface {

	// Create makes a new root entity bound to the given UUID and source.
	Create(uuid, source string) Handle

	// Destroy removes the entity. Its children become root entities.
	Destroy(h Handle)

	// Resolve returns the entity bound to the given UUID.
	Resolve(uuid string) (Handle, bool)

	// Info returns the state of the entity.
	Info(h Handle) (Info, bool)

	// Roots returns the root entities in order.
	Roots() []Handle

	// SetParent makes h a child of parent (0 for a root entity), after
	// any existing children, and marks the subtree of h dirty.
	SetParent(h, parent Handle)

	// SetComponents sets the name and component payloads of the entity.
	SetComponents(h Handle, name string, components map[string]any)

	// SetLocalTransform sets the transform of the entity relative to its
	// parent. Callers must follow it with [System.MarkSubtreeDirty].
	SetLocalTransform(h Handle, m math64.Matrix4)

	// MarkSubtreeDirty marks the entity and all of its descendants
	// as needing their world matrix recomputed.
	MarkSubtreeDirty(h Handle)

	// WorldTransform returns the world matrix of the entity.
	WorldTransform(h Handle) math64.Matrix4
}

type entity struct {
	Info
	world math64.Matrix4
	dirty bool
}

// World is an in-memory [System] that computes world matrices lazily.
// It is not safe for concurrent use.
type World struct {
	entities map[Handle]*entity
	byUUID   map[string]Handle
	roots    []Handle
	last     Handle
}

// NewWorld returns a new empty world.
func NewWorld() *World {
	return &World{entities: map[Handle]*entity{}, byUUID: map[string]Handle{}}
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return len(w.entities)
}

// Roots returns the root entities in order.
func (w *World) Roots() []Handle {
	return slices.Clone(w.roots)
}

func (w *World) Create(uuid, source string) Handle {
	w.last++
	h := w.last
	w.entities[h] = &entity{Info: Info{UUID: uuid, Source: source, Local: math64.Identity4()}, world: math64.Identity4()}
	w.byUUID[uuid] = h
	w.roots = append(w.roots, h)
	return h
}

func (w *World) Destroy(h Handle) {
	e, ok := w.entities[h]
	if !ok {
		return
	}
	w.detach(h, e)
	for _, c := range e.Children {
		if ce, ok := w.entities[c]; ok {
			ce.Parent = 0
			w.roots = append(w.roots, c)
			w.MarkSubtreeDirty(c)
		}
	}
	if w.byUUID[e.UUID] == h {
		delete(w.byUUID, e.UUID)
	}
	delete(w.entities, h)
}

func (w *World) Resolve(uuid string) (Handle, bool) {
	h, ok := w.byUUID[uuid]
	return h, ok
}

func (w *World) Info(h Handle) (Info, bool) {
	e, ok := w.entities[h]
	if !ok {
		return Info{}, false
	}
	in := e.Info
	in.Children = slices.Clone(e.Children)
	return in, true
}

// detach removes h from the children of its parent, or from the roots.
func (w *World) detach(h Handle, e *entity) {
	if p, ok := w.entities[e.Parent]; ok {
		p.Children = slicesx.RemoveValue(p.Children, h)
		return
	}
	w.roots = slicesx.RemoveValue(w.roots, h)
}

func (w *World) SetParent(h, parent Handle) {
	e, ok := w.entities[h]
	if !ok {
		return
	}
	w.detach(h, e)
	if p, ok := w.entities[parent]; ok && parent != h {
		e.Parent = parent
		p.Children = append(p.Children, h)
	} else {
		e.Parent = 0
		w.roots = append(w.roots, h)
	}
	w.MarkSubtreeDirty(h)
}

func (w *World) SetComponents(h Handle, name string, components map[string]any) {
	if e, ok := w.entities[h]; ok {
		e.Name = name
		e.Components = components
	}
}

func (w *World) SetLocalTransform(h Handle, m math64.Matrix4) {
	if e, ok := w.entities[h]; ok {
		e.Local = m
		e.dirty = true
	}
}

func (w *World) MarkSubtreeDirty(h Handle) {
	e, ok := w.entities[h]
	if !ok {
		return
	}
	e.dirty = true
	for _, c := range e.Children {
		w.MarkSubtreeDirty(c)
	}
}

// IsDirty returns whether the world matrix of h needs recomputing.
func (w *World) IsDirty(h Handle) bool {
	e, ok := w.entities[h]
	return ok && e.dirty
}

func (w *World) WorldTransform(h Handle) math64.Matrix4 {
	e, ok := w.entities[h]
	if !ok {
		return math64.Identity4()
	}
	if !e.dirty {
		return e.world
	}
	if e.Parent != 0 {
		pw := w.WorldTransform(e.Parent)
		e.world = pw.Mul(&e.Local)
	} else {
		e.world = e.Local
	}
	e.dirty = false
	return e.world
}
