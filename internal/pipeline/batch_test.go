package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"

	"github.com/pfrederiksen/hockey-pbp/internal/errs"
	"github.com/pfrederiksen/hockey-pbp/internal/logger"
	"github.com/pfrederiksen/hockey-pbp/internal/metrics"
)

// countingRunner runs outcome for every call and counts calls per id.
type countingRunner struct {
	mu      sync.Mutex
	calls   map[string]int
	outcome func(ctx context.Context, id string, attempt int) Outcome
}

func newCountingRunner(fn func(ctx context.Context, id string, attempt int) Outcome) *countingRunner {
	return &countingRunner{calls: make(map[string]int), outcome: fn}
}

func (r *countingRunner) Run(ctx context.Context, id string) Outcome {
	r.mu.Lock()
	r.calls[id]++
	attempt := r.calls[id]
	r.mu.Unlock()
	return r.outcome(ctx, id, attempt)
}

func (r *countingRunner) count(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[id]
}

func succeed(_ context.Context, _ string, _ int) Outcome {
	return Outcome{Status: StatusSuccess}
}

func ids(outcomes []Outcome) []string {
	out := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, o.GameID)
	}
	return out
}

func TestBatchRun(t *testing.T) {
	convey.Convey("Given a batch over several games", t, func() {
		ctx := context.Background()
		nop := WithBatchLogger(logger.NewNop())
		games := []string{"2019020001", "2019020002", "2019020003", "2019020004", "2019020005"}

		convey.Convey("When games finish out of order", func() {
			delays := map[string]time.Duration{
				"2019020001": 30 * time.Millisecond,
				"2019020003": 10 * time.Millisecond,
			}
			runner := RunnerFunc(func(ctx context.Context, id string) Outcome {
				time.Sleep(delays[id])
				return Outcome{Status: StatusSuccess}
			})
			rep, err := NewBatch(runner, nop, WithConcurrency(3)).Run(ctx, games)

			convey.Convey("Then outcomes keep the input order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ids(rep.Outcomes), convey.ShouldResemble, games)
				convey.So(rep.Counts()[StatusSuccess], convey.ShouldEqual, 5)
				convey.So(rep.Pending, convey.ShouldBeEmpty)
				convey.So(rep.Cancelled, convey.ShouldBeFalse)
				_, perr := uuid.Parse(rep.RunID)
				convey.So(perr, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a game fails once and then succeeds", func() {
			runner := newCountingRunner(func(_ context.Context, id string, attempt int) Outcome {
				if id == "2019020002" && attempt == 1 {
					return Outcome{Status: StatusFailed, Kind: errs.KindTransient, Reason: "connection reset"}
				}
				return Outcome{Status: StatusSuccess}
			})
			rep, err := NewBatch(runner, nop, WithConcurrency(2)).Run(ctx, games)

			convey.Convey("Then it is retried once after the full pass", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rep.Retried, convey.ShouldResemble, []string{"2019020002"})
				convey.So(runner.count("2019020002"), convey.ShouldEqual, 2)
				convey.So(runner.count("2019020001"), convey.ShouldEqual, 1)
				convey.So(rep.Outcomes[1].Status, convey.ShouldEqual, StatusSuccess)
				convey.So(rep.Outcomes[1].Attempts, convey.ShouldEqual, 2)
				convey.So(rep.ByStatus(StatusFailed), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When games keep failing or are skipped", func() {
			runner := newCountingRunner(func(_ context.Context, id string, _ int) Outcome {
				switch id {
				case "2019020004":
					return Outcome{Status: StatusFailed, Kind: errs.KindMalformed}
				case "2019020005":
					return Outcome{Status: StatusSkipped, Kind: errs.KindNotFound}
				}
				return Outcome{Status: StatusSuccess}
			})
			m := metrics.NewManager()
			var (
				mu     sync.Mutex
				hooked []string
			)
			hook := WithOutcomeHook(func(o Outcome) {
				mu.Lock()
				hooked = append(hooked, o.GameID)
				mu.Unlock()
			})
			rep, err := NewBatch(runner, nop, WithConcurrency(2), WithMetrics(m), hook).Run(ctx, games)

			convey.Convey("Then failures are retried once and skips are not", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(runner.count("2019020004"), convey.ShouldEqual, 2)
				convey.So(runner.count("2019020005"), convey.ShouldEqual, 1)
				convey.So(ids(rep.ByStatus(StatusFailed)), convey.ShouldResemble, []string{"2019020004"})
				convey.So(ids(rep.ByStatus(StatusSkipped)), convey.ShouldResemble, []string{"2019020005"})
				convey.So(rep.Counts()[StatusSuccess], convey.ShouldEqual, 3)
			})

			convey.Convey("Then every game reaches the hook exactly once", func() {
				convey.So(hooked, convey.ShouldHaveLength, len(games))
				convey.So(hooked, convey.ShouldContain, "2019020004")
			})

			convey.Convey("Then final outcomes are counted in metrics", func() {
				n, err := testutil.GatherAndCount(m.Registry(), "hockey_pbp_games_total")
				convey.So(err, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the batch is cancelled part way", func() {
			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			runner := newCountingRunner(func(ctx context.Context, id string, _ int) Outcome {
				if ctx.Err() != nil {
					return Outcome{Status: StatusFailed, Kind: errs.KindCancelled}
				}
				if id == "2019020002" {
					cancel()
				}
				return Outcome{Status: StatusSuccess}
			})
			rep, err := NewBatch(runner, nop, WithConcurrency(1)).Run(cctx, games)

			convey.Convey("Then finished games are returned and the rest are pending", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rep.Cancelled, convey.ShouldBeTrue)
				convey.So(ids(rep.Outcomes)[:2], convey.ShouldResemble, games[:2])
				convey.So(rep.Outcomes[1].Status, convey.ShouldEqual, StatusSuccess)
				convey.So(len(rep.Outcomes)+len(rep.Pending), convey.ShouldEqual, len(games))
				convey.So(rep.Pending, convey.ShouldContain, "2019020005")
				convey.So(rep.Retried, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When no games are given", func() {
			rep, err := NewBatch(RunnerFunc(func(ctx context.Context, id string) Outcome {
				return succeed(ctx, id, 1)
			}), nop).Run(ctx, nil)

			convey.Convey("Then an empty report is returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rep.Outcomes, convey.ShouldBeEmpty)
			})
		})
	})
}
