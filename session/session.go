// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package session serializes editor commands on a single owning
// goroutine. Commands on the same source must never interleave their
// clone and commit steps, and undo or redo must run after any pending
// commit of the same source; a [Session] guarantees both by running
// every request, from any goroutine, one at a time in arrival order.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/scenedoc/editor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrClosed is returned by [Session.Do] after [Session.Close].
var ErrClosed = errors.New("session: closed")

var (
	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scenedoc_session_command_duration_seconds",
		Help:    "Time spent running editor commands, including queueing",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"status"})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scenedoc_session_queue_depth",
		Help: "Number of editor commands waiting to run",
	})
)

// QueueSize is the default number of requests that can wait to run.
const QueueSize = 64

type request struct {
	ctx  context.Context
	fun  func(ed *editor.Editor) error
	done chan error
}

// Session owns an [editor.Editor] and runs functions on it in a single
// goroutine. It is safe for concurrent use.
type Session struct {
	ed     *editor.Editor
	logger *slog.Logger

	reqs    chan request
	closing chan struct{}
	done    chan struct{}
	once    sync.Once
}

// New starts a new session that owns the given editor, which must not
// be used directly anymore. logger may be nil.
func New(ed *editor.Editor, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		ed:      ed,
		logger:  logger.With(slog.String("component", "session")),
		reqs:    make(chan request, QueueSize),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

// run is the loop that owns the editor.
func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case req := <-s.reqs:
			s.serve(req)
		case <-s.closing:
			// drain what was queued before Close
			for {
				select {
				case req := <-s.reqs:
					s.serve(req)
				default:
					s.logger.Debug("session stopped")
					return
				}
			}
		}
	}
}

func (s *Session) serve(req request) {
	queueDepth.Dec()
	if err := req.ctx.Err(); err != nil {
		req.done <- err
		return
	}
	req.done <- s.call(req.fun)
}

// call runs fun, turning a panic into an error so that one bad
// command can not stop the session.
func (s *Session) call(fun func(ed *editor.Editor) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("editor command panicked", "panic", r)
			err = fmt.Errorf("session: command panicked: %v", r)
		}
	}()
	return fun(s.ed)
}

// Do runs fun on the owning goroutine and returns its error. It returns
// the context error if ctx is done before fun starts or before it
// returns; in the latter case fun still runs to completion.
func (s *Session) Do(ctx context.Context, fun func(ed *editor.Editor) error) error {
	ctx, span := otel.Tracer("scenedoc").Start(ctx, "scenedoc.Session.Do",
		trace.WithAttributes(attribute.Int("queue_depth", len(s.reqs))))
	defer span.End()
	start := time.Now()
	status := "ok"
	defer func() {
		commandDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	fail := func(err error, msg string) error {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		return err
	}

	select {
	case <-s.closing:
		return fail(ErrClosed, "session closed")
	default:
	}
	req := request{ctx: ctx, fun: fun, done: make(chan error, 1)}
	queueDepth.Inc()
	select {
	case s.reqs <- req:
	case <-s.closing:
		queueDepth.Dec()
		return fail(ErrClosed, "session closed")
	case <-ctx.Done():
		queueDepth.Dec()
		return fail(ctx.Err(), "context cancelled")
	}
	var err error
	select {
	case err = <-req.done:
	case <-ctx.Done():
		return fail(ctx.Err(), "context cancelled")
	case <-s.done:
		// the request may have raced with Close and never run
		select {
		case err = <-req.done:
		default:
			return fail(ErrClosed, "session closed")
		}
	}
	if err != nil {
		return fail(err, err.Error())
	}
	return nil
}

// Close stops accepting new requests, waits for the queued ones to
// finish, and stops the owning goroutine. It is safe to call more
// than once.
func (s *Session) Close() {
	s.once.Do(func() { close(s.closing) })
	<-s.done
}
