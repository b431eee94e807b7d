// Package sweep evaluates a device over many independent energies or
// momenta in parallel.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/tiwire/internal/logging"
	"github.com/san-kum/tiwire/internal/metrics"
	"github.com/san-kum/tiwire/internal/transport"
)

// Recorder receives one call per evaluation point.
type Recorder interface {
	Start()
	Observe(kind string, slices int, d time.Duration, err error)
}

// Observer is notified of every conductance point as it completes. Calls
// come from worker goroutines in completion order.
type Observer interface {
	OnPoint(index int, energy, conductance float64)
}

type Result struct {
	Energies    []float64
	Conductance []float64
	Metrics     map[string]float64
	Elapsed     time.Duration
}

type Runner struct {
	dev       *transport.Device
	workers   int
	log       logging.Logger
	recorder  Recorder
	metrics   []metrics.Metric
	observers []Observer
}

type Option func(*Runner)

// WithWorkers bounds the number of concurrent evaluations. Values below one
// use GOMAXPROCS.
func WithWorkers(n int) Option { return func(r *Runner) { r.workers = n } }

func WithLogger(l logging.Logger) Option { return func(r *Runner) { r.log = l } }

func WithRecorder(rec Recorder) Option { return func(r *Runner) { r.recorder = rec } }

func WithMetrics(ms ...metrics.Metric) Option {
	return func(r *Runner) { r.metrics = append(r.metrics, ms...) }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observers = append(r.observers, o) }
}

// New returns a runner over dev. The device must not gain regions while a
// sweep is running.
func New(dev *transport.Device, opts ...Option) *Runner {
	r := &Runner{dev: dev, log: logging.Noop(), recorder: nopRecorder{}}
	for _, o := range opts {
		o(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// Conductance evaluates G(E) at every energy. Results keep the input order.
// The first failure cancels the remaining points and is returned.
func (r *Runner) Conductance(ctx context.Context, energies []float64) (*Result, error) {
	start := time.Now()
	res := &Result{
		Energies:    append([]float64(nil), energies...),
		Conductance: make([]float64, len(energies)),
		Metrics:     make(map[string]float64),
	}
	slices := r.dev.SliceCount()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, e := range energies {
		i, e := i, e
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.recorder.Start()
			t0 := time.Now()
			val, err := r.dev.Conductance(e)
			r.recorder.Observe("conductance", slices, time.Since(t0), err)
			if err != nil {
				return fmt.Errorf("E=%g: %w", e, err)
			}
			res.Conductance[i] = val
			for _, o := range r.observers {
				o.OnPoint(i, e, val)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Error(ctx, "conductance sweep failed", logging.Err(err))
		return nil, err
	}

	for _, m := range r.metrics {
		m.Reset()
		for i, e := range res.Energies {
			m.Observe(e, res.Conductance[i])
		}
		res.Metrics[m.Name()] = m.Value()
	}
	res.Elapsed = time.Since(start)
	r.log.Debug(ctx, "conductance sweep done",
		logging.Int("points", len(energies)),
		logging.Int("slices", slices),
		logging.Int("workers", r.workers),
		logging.Duration("elapsed", res.Elapsed))
	return res, nil
}

// Bands evaluates the band structure of the wire at region index, splitting
// the momenta across workers.
func (r *Runner) Bands(ctx context.Context, index int, ks []float64) (*transport.BandStructure, error) {
	// validate once up front so a bad index is not reported per chunk
	bottom, err := r.dev.Bands(index, nil)
	if err != nil {
		return nil, err
	}

	chunks := chunk(len(ks), r.workers)
	parts := make([]*transport.BandStructure, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for ci, c := range chunks {
		ci, c := ci, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.recorder.Start()
			t0 := time.Now()
			bs, err := r.dev.Bands(index, ks[c[0]:c[1]])
			r.recorder.Observe("bands", 0, time.Since(t0), err)
			if err != nil {
				return err
			}
			parts[ci] = bs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Error(ctx, "band sweep failed", logging.Int("region", index), logging.Err(err))
		return nil, err
	}

	out := &transport.BandStructure{
		K:        append([]float64(nil), ks...),
		Energies: make([][]float64, len(bottom.Energies)),
		Bottom:   bottom.Bottom,
	}
	for i := range out.Energies {
		row := make([]float64, 0, len(ks))
		for _, p := range parts {
			row = append(row, p.Energies[i]...)
		}
		out.Energies[i] = row
	}
	return out, nil
}

// chunk splits [0, n) into at most workers contiguous ranges.
func chunk(n, workers int) [][2]int {
	if n == 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	size := (n + workers - 1) / workers
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{a}
	}
	xs := make([]float64, n)
	step := (b - a) / float64(n-1)
	for i := range xs {
		xs[i] = a + float64(i)*step
	}
	xs[n-1] = b
	return xs
}

type nopRecorder struct{}

func (nopRecorder) Start()                                    {}
func (nopRecorder) Observe(string, int, time.Duration, error) {}
