// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/binder"
	"cogentcore.org/scenedoc/component"
	"cogentcore.org/scenedoc/config"
	"cogentcore.org/scenedoc/editor"
	"cogentcore.org/scenedoc/entity"
	"cogentcore.org/scenedoc/gltf"
	"cogentcore.org/scenedoc/history"
	"cogentcore.org/scenedoc/journal"
	"cogentcore.org/scenedoc/math64"
	"cogentcore.org/scenedoc/session"
	"github.com/prometheus/client_golang/prometheus"
)

// app is the state of one run of the tool: a single open document,
// edited through a session.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	stdout  io.Writer
	outPath string

	// path is the path of the open document, and source its source name.
	path   string
	source string

	world   *entity.World
	session *session.Session
	journal *journal.Journal
}

// open opens the document at path as the only source,
// starting the session and the journal.
func (a *app) open(ctx context.Context, path string) error {
	doc, err := gltf.Open(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	a.path = path
	a.source = abs
	if a.cfg.Scene > 0 && doc.Scene == nil && a.cfg.Scene < len(doc.Scenes) {
		sc := a.cfg.Scene
		doc.Scene = &sc
	}

	st := history.NewStore()
	st.Logger = a.logger
	if a.cfg.Journal != "" {
		a.journal, err = journal.Open(ctx, a.cfg.Journal)
		if err != nil {
			return err
		}
		a.journal.Attach(st)
	}
	a.world = entity.NewWorld()
	b := binder.New(a.world)
	b.Logger = a.logger
	ed := editor.New(st, b)
	ed.Logger = a.logger
	if err := ed.Open(a.source, doc); err != nil {
		return err
	}
	a.session = session.New(ed, a.logger)
	return nil
}

// do runs fun on the editor in the session.
func (a *app) do(ctx context.Context, fun func(ed *editor.Editor) error) error {
	return a.session.Do(ctx, fun)
}

// current returns the current document.
func (a *app) current(ctx context.Context) (*gltf.Document, error) {
	var doc *gltf.Document
	err := a.do(ctx, func(ed *editor.Editor) error {
		doc = ed.Store.Current(a.source).Data
		return nil
	})
	return doc, err
}

// save writes the current document to the output path,
// or to path if it is non-empty.
func (a *app) save(ctx context.Context, path string) error {
	doc, err := a.current(ctx)
	if err != nil {
		return err
	}
	if path == "" {
		path = a.outPath
	}
	if path == "" {
		path = a.path
	}
	if err := doc.Save(path, a.cfg.Indent); err != nil {
		return err
	}
	a.logger.Info("saved", "path", path, "nodes", doc.NumNodes())
	return nil
}

// close stops the session and closes the journal.
func (a *app) close() {
	if a.session != nil {
		a.session.Close()
		a.session = nil
	}
	if a.journal != nil {
		errors.Log(a.journal.Close())
		a.journal = nil
	}
	if a.cfg != nil && a.cfg.Metrics {
		printMetrics(a.stdout)
	}
}

// withFile opens the document at path, runs fun, saves the document
// if save is true and fun succeeded, and closes everything.
func (a *app) withFile(ctx context.Context, path string, save bool, fun func() error) error {
	defer a.close()
	if err := a.open(ctx, path); err != nil {
		return err
	}
	if err := fun(); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return a.save(ctx, "")
}

// refs resolves the given node names or UUIDs in the current document.
func (a *app) refs(ctx context.Context, names []string) ([]history.Ref, error) {
	doc, err := a.current(ctx)
	if err != nil {
		return nil, err
	}
	rs := make([]history.Ref, 0, len(names))
	for _, nm := range names {
		id, err := resolve(doc, nm)
		if err != nil {
			return nil, err
		}
		rs = append(rs, history.Ref{Source: a.source, UUID: id})
	}
	return rs, nil
}

// resolve returns the UUID of the node with the given UUID,
// or else of the first node with the given name.
func resolve(doc *gltf.Document, name string) (string, error) {
	if doc.IndexOf(name) >= 0 {
		return name, nil
	}
	for _, n := range doc.Nodes {
		if n != nil && n.Name == name {
			return n.UUID(), nil
		}
	}
	return "", fmt.Errorf("no node named %q", name)
}

// componentID returns the component id for the given name, which may
// omit the extension prefix, as in "light" for [component.Light].
func componentID(reg *component.Registry, name string) string {
	if _, ok := reg.Lookup(name); ok {
		return name
	}
	for _, id := range reg.IDs() {
		if strings.EqualFold(strings.TrimPrefix(id, "XYZ_"), name) {
			return id
		}
	}
	return name
}

// parseFloats parses n comma separated numbers.
func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma separated numbers", s, n)
	}
	fs := make([]float64, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		fs[i] = f
	}
	return fs, nil
}

func parseVector3(s string) (math64.Vector3, error) {
	fs, err := parseFloats(s, 3)
	if err != nil {
		return math64.Vector3{}, err
	}
	return math64.Vector3FromSlice(fs), nil
}

// printMetrics prints the values of the counters and gauges
// of the default prometheus registry.
func printMetrics(w io.Writer) {
	mfs, err := prometheus.DefaultGatherer.Gather()
	if errors.Log(err) != nil {
		return
	}
	for _, mf := range mfs {
		if !strings.HasPrefix(mf.GetName(), "scenedoc_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			v := m.GetCounter().GetValue() + m.GetGauge().GetValue()
			if h := m.GetHistogram(); h != nil {
				v = float64(h.GetSampleCount())
			}
			fmt.Fprintf(w, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), v)
		}
	}
}
