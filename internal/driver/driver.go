// Package driver runs optimizer passes over a module: each function is
// analyzed independently (chains never cross functions), so functions
// are processed in parallel with a bounded worker pool. Stream mutation
// stays inside one goroutine per function.
package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Natalie359738/sway/internal/diag"
	"github.com/Natalie359738/sway/internal/ir"
	"github.com/Natalie359738/sway/internal/irtype"
	"github.com/Natalie359738/sway/internal/observ"
)

// Pass names accepted in Options.Passes and swayir.toml.
const (
	PassFoldAggregates = "fold-aggregates"
	PassVerify         = "verify"
)

// DefaultPasses is the pipeline used when no manifest or flag names one.
var DefaultPasses = []string{PassFoldAggregates, PassVerify}

// Options configures a driver run.
type Options struct {
	// Jobs bounds worker goroutines; 0 means GOMAXPROCS.
	Jobs int
	// Passes run in order per function. Empty means DefaultPasses.
	Passes []string
	// MaxDiagnostics caps each function's diagnostic bag.
	MaxDiagnostics int
	// Timer, when set, records per-stage durations.
	Timer *observ.Timer
	// Events, when set, receives per-function progress.
	Events ProgressSink
}

// FuncResult is the outcome for one function.
type FuncResult struct {
	Name    string
	Summary ir.FoldSummary
	Bag     *diag.Bag
	Err     error
}

// Result is the outcome of a whole run.
type Result struct {
	Summary ir.FoldSummary
	Funcs   []FuncResult
	Bag     *diag.Bag
}

// Err joins every per-function error.
func (r *Result) Err() error {
	var errs []error
	for i := range r.Funcs {
		if r.Funcs[i].Err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", r.Funcs[i].Name, r.Funcs[i].Err))
		}
	}
	return errors.Join(errs...)
}

// Run executes the configured passes over every function of the module.
// The per-function results keep the module's function order, so merging
// is deterministic regardless of scheduling.
func Run(ctx context.Context, m *ir.Module, tys *irtype.Interner, opts Options) (*Result, error) {
	if m == nil {
		return &Result{Bag: diag.NewBag(1)}, nil
	}
	passes := opts.Passes
	if len(passes) == 0 {
		passes = DefaultPasses
	}
	for _, p := range passes {
		if p != PassFoldAggregates && p != PassVerify {
			return nil, fmt.Errorf("driver: unknown pass %q", p)
		}
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = 100
	}

	var tm int
	if opts.Timer != nil {
		tm = opts.Timer.Begin("optimize")
	}

	results := make([]FuncResult, len(m.Funcs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, f := range m.Funcs {
		if f == nil {
			continue
		}
		emit(opts.Events, Event{Fn: f.Name, Status: StatusQueued})
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runFunc(f, tys, passes, maxDiags, opts.Events)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Bag: diag.NewBag(maxDiags * max(1, len(m.Funcs)))}
	for i := range results {
		if m.Funcs[i] == nil {
			continue
		}
		res.Funcs = append(res.Funcs, results[i])
		res.Summary.Add(results[i].Summary)
		res.Bag.Merge(results[i].Bag)
	}
	res.Bag.Sort()

	if opts.Timer != nil {
		opts.Timer.End(tm, res.Summary.String())
	}
	return res, nil
}

// runFunc executes the pass list over one function.
func runFunc(f *ir.Func, tys *irtype.Interner, passes []string, maxDiags int, sink ProgressSink) FuncResult {
	out := FuncResult{Name: f.Name, Bag: diag.NewBag(maxDiags)}
	var errs []error
	for _, pass := range passes {
		start := time.Now()
		switch pass {
		case PassFoldAggregates:
			emit(sink, Event{Fn: f.Name, Stage: StageFold, Status: StatusWorking})
			summary, err := ir.FoldConstAggregates(f, tys, out.Bag)
			out.Summary.Add(summary)
			if err != nil {
				errs = append(errs, err)
			}
			emit(sink, Event{Fn: f.Name, Stage: StageFold, Status: StatusDone, Elapsed: time.Since(start)})
		case PassVerify:
			emit(sink, Event{Fn: f.Name, Stage: StageVerify, Status: StatusWorking})
			if err := ir.VerifyFolded(f); err != nil {
				errs = append(errs, err)
				out.Bag.Add(diag.NewError(diag.OptUnfoldedConstantAggregate,
					diag.Locus{Fn: f.Name}, err.Error()))
				emit(sink, Event{Fn: f.Name, Stage: StageVerify, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				continue
			}
			emit(sink, Event{Fn: f.Name, Stage: StageVerify, Status: StatusDone, Elapsed: time.Since(start)})
		}
	}
	out.Err = errors.Join(errs...)
	if out.Err == nil {
		emit(sink, Event{Fn: f.Name, Status: StatusDone})
	} else {
		emit(sink, Event{Fn: f.Name, Status: StatusError, Err: out.Err})
	}
	return out
}
