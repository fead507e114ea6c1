// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gltf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"cogentcore.org/core/base/errors"
)

var (
	// ErrInvalid is returned by [Document.Validate] and the decoders
	// for a document whose indexes do not form a valid forest.
	ErrInvalid = errors.New("gltf: invalid document")
)

// known top-level members handled explicitly by the codec.
var knownMembers = []string{"asset", "scene", "scenes", "nodes"}

// MarshalJSON encodes the document, re-emitting any unmodeled
// top-level members stored in [Document.Other].
func (d *Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Other)+4)
	for k, v := range d.Other {
		m[k] = v
	}
	m["asset"] = d.Asset
	if d.Scene != nil {
		m["scene"] = *d.Scene
	}
	if len(d.Scenes) > 0 {
		m["scenes"] = d.Scenes
	}
	if len(d.Nodes) > 0 {
		m["nodes"] = d.Nodes
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the document, keeping unknown
// top-level members verbatim in [Document.Other].
func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Document{}
	if v, ok := raw["asset"]; ok {
		if err := json.Unmarshal(v, &d.Asset); err != nil {
			return fmt.Errorf("gltf: asset: %w", err)
		}
	}
	if v, ok := raw["scene"]; ok {
		var sc int
		if err := json.Unmarshal(v, &sc); err != nil {
			return fmt.Errorf("gltf: scene: %w", err)
		}
		d.Scene = &sc
	}
	if v, ok := raw["scenes"]; ok {
		if err := json.Unmarshal(v, &d.Scenes); err != nil {
			return fmt.Errorf("gltf: scenes: %w", err)
		}
	}
	if v, ok := raw["nodes"]; ok {
		if err := json.Unmarshal(v, &d.Nodes); err != nil {
			return fmt.Errorf("gltf: nodes: %w", err)
		}
	}
	for k, v := range raw {
		if slices.Contains(knownMembers, k) {
			continue
		}
		if d.Other == nil {
			d.Other = map[string]json.RawMessage{}
		}
		var cb bytes.Buffer
		if err := json.Compact(&cb, v); err != nil {
			return fmt.Errorf("gltf: %s: %w", k, err)
		}
		d.Other[k] = cb.Bytes()
	}
	return nil
}

// Read decodes and validates a document from the given reader.
func Read(r io.Reader) (*Document, error) {
	d := &Document{}
	if err := json.NewDecoder(r).Decode(d); err != nil {
		return nil, fmt.Errorf("gltf: decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadBytes decodes and validates a document from the given bytes.
func ReadBytes(b []byte) (*Document, error) {
	return Read(bytes.NewReader(b))
}

// Write encodes the document to the given writer. If indent is
// non-empty the output is indented with it.
func (d *Document) Write(w io.Writer, indent string) error {
	enc := json.NewEncoder(w)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(d)
}

// Bytes returns the compact encoding of the document.
func (d *Document) Bytes() ([]byte, error) {
	return json.Marshal(d)
}

// Open reads a document from the given file.
func Open(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return d, nil
}

// Save writes the document to the given file, replacing it.
func (d *Document) Save(filename, indent string) error {
	var b bytes.Buffer
	if err := d.Write(&b, indent); err != nil {
		return err
	}
	return os.WriteFile(filename, b.Bytes(), 0666)
}

// Validate checks that every index in the document is in range,
// that no slot is a tombstone, and that every node appears in at
// most one container, so that the hierarchy is a forest.
func (d *Document) Validate() error {
	n := len(d.Nodes)
	seen := make([]bool, n)
	claim := func(where string, i int) error {
		if i < 0 || i >= n {
			return fmt.Errorf("%w: %s references node %d out of range [0, %d)", ErrInvalid, where, i, n)
		}
		if seen[i] {
			return fmt.Errorf("%w: node %d appears in more than one container", ErrInvalid, i)
		}
		seen[i] = true
		return nil
	}
	for si, s := range d.Scenes {
		if s == nil {
			return fmt.Errorf("%w: scene %d is null", ErrInvalid, si)
		}
		for _, i := range s.Nodes {
			if err := claim(fmt.Sprintf("scene %d", si), i); err != nil {
				return err
			}
		}
	}
	for ni, nd := range d.Nodes {
		if nd == nil {
			return fmt.Errorf("%w: node %d is null", ErrInvalid, ni)
		}
		for _, c := range nd.Children {
			if err := claim(fmt.Sprintf("node %d", ni), c); err != nil {
				return err
			}
		}
	}
	if d.Scene != nil && (*d.Scene < 0 || *d.Scene >= len(d.Scenes)) {
		return fmt.Errorf("%w: default scene %d out of range", ErrInvalid, *d.Scene)
	}
	// every node has at most one parent; a cycle would leave a node
	// unreachable from its own ancestors, so walk up from each node.
	pm := d.ParentMap()
	for i := range d.Nodes {
		steps := 0
		for cur := pm[i]; cur >= 0; cur = pm[cur] {
			if cur == i || steps > n {
				return fmt.Errorf("%w: node %d is its own ancestor", ErrInvalid, i)
			}
			steps++
		}
	}
	return nil
}
