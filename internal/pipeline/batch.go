package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/logger"
	"github.com/pfrederiksen/hockey-pbp/internal/metrics"
)

// Runner processes one game.
type Runner interface {
	Run(ctx context.Context, gameID string) Outcome
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, gameID string) Outcome

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, gameID string) Outcome {
	return f(ctx, gameID)
}

// Report is the result of one batch.
type Report struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	// Outcomes holds one entry per game that ran, in input order.
	Outcomes []Outcome `json:"outcomes"`
	// Retried lists ids that failed on the first pass and were run again.
	Retried []string `json:"retried,omitempty"`
	// Pending lists ids never started because the batch was cancelled.
	Pending   []string `json:"pending,omitempty"`
	Cancelled bool     `json:"cancelled"`
}

// ByStatus returns the outcomes with status s.
func (r *Report) ByStatus(s Status) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == s {
			out = append(out, o)
		}
	}
	return out
}

// Counts returns the number of outcomes per status.
func (r *Report) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, o := range r.Outcomes {
		counts[o.Status]++
	}
	return counts
}

// Batch runs many games on a bounded worker pool.
type Batch struct {
	runner      Runner
	concurrency int
	log         *logger.Logger
	metrics     *metrics.Manager
	onOutcome   func(Outcome)
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithConcurrency bounds how many games run at once.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets the batch logger.
func WithBatchLogger(l *logger.Logger) BatchOption {
	return func(b *Batch) {
		if l != nil {
			b.log = l
		}
	}
}

// WithMetrics records finished games on m.
func WithMetrics(m *metrics.Manager) BatchOption {
	return func(b *Batch) { b.metrics = m }
}

// WithOutcomeHook registers a callback for every final outcome. Successful
// and skipped games are reported from the worker as soon as they finish;
// failures are reported once retries are over.
func WithOutcomeHook(fn func(Outcome)) BatchOption {
	return func(b *Batch) { b.onOutcome = fn }
}

// NewBatch creates a Batch.
func NewBatch(r Runner, opts ...BatchOption) *Batch {
	b := &Batch{
		runner:      r,
		concurrency: 1,
		log:         logger.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run processes ids and returns whatever finished. Failed games are retried
// once after the full pass. Cancelling ctx stops new games from starting;
// games already running finish and are included in the report.
func (b *Batch) Run(ctx context.Context, ids []string) (*Report, error) {
	rep := &Report{RunID: uuid.NewString(), Started: time.Now()}
	log := b.log.With(logger.Fields{"run_id": rep.RunID})
	log.Info("batch started", logger.Fields{"games": len(ids), "concurrency": b.concurrency})

	pool, err := ants.NewPool(b.concurrency)
	if err != nil {
		return nil, errors.Wrap(err, "creating worker pool")
	}
	defer pool.Release()

	results := make([]*Outcome, len(ids))
	all := make([]int, len(ids))
	for i := range ids {
		all[i] = i
	}
	if err := b.pass(ctx, pool, ids, all, results, 1); err != nil {
		return nil, err
	}

	var retry []int
	for i, o := range results {
		if o != nil && o.Status == StatusFailed && o.Kind != errs.KindCancelled {
			retry = append(retry, i)
		}
	}
	if len(retry) > 0 && ctx.Err() == nil {
		for _, i := range retry {
			rep.Retried = append(rep.Retried, ids[i])
		}
		log.Info("retrying failed games", logger.Fields{"games": len(retry)})
		if err := b.pass(ctx, pool, ids, retry, results, 2); err != nil {
			return nil, err
		}
	}

	for i, o := range results {
		if o == nil {
			rep.Pending = append(rep.Pending, ids[i])
			continue
		}
		rep.Outcomes = append(rep.Outcomes, *o)
		b.record(o)
		if b.onOutcome != nil && o.Status == StatusFailed {
			b.onOutcome(*o)
		}
	}
	rep.Cancelled = ctx.Err() != nil
	rep.Finished = time.Now()

	counts := rep.Counts()
	log.Info("batch finished", logger.Fields{
		"succeeded": counts[StatusSuccess],
		"skipped":   counts[StatusSkipped],
		"failed":    counts[StatusFailed],
		"pending":   len(rep.Pending),
		"cancelled": rep.Cancelled,
	})
	return rep, nil
}

// pass runs the games at indexes and stores their outcomes in results. A
// retry only replaces the first outcome if it did not end in cancellation.
func (b *Batch) pass(ctx context.Context, pool *ants.Pool, ids []string, indexes []int, results []*Outcome, attempt int) error {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, i := range indexes {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			out := b.runner.Run(ctx, ids[i])
			out.GameID = ids[i]
			out.Attempts = attempt
			if attempt > 1 && out.Kind == errs.KindCancelled {
				return
			}
			mu.Lock()
			results[i] = &out
			mu.Unlock()
			if b.onOutcome != nil && out.Status != StatusFailed {
				b.onOutcome(out)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return errors.Wrap(err, "submitting game to worker pool")
		}
	}
	wg.Wait()
	return nil
}

func (b *Batch) record(o *Outcome) {
	b.metrics.RecordGame(string(o.Status), string(o.Kind), o.Duration)
	if o.Game != nil {
		b.metrics.RecordCoordSources(o.Game.CoordSources())
		b.metrics.RecordOnIceOverflow(o.Game.OnIceOverflow)
	}
}
