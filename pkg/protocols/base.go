package protocols

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BatikanHyt/ordertrack/pkg/collector"
	"github.com/BatikanHyt/ordertrack/pkg/ledger"
	"github.com/BatikanHyt/ordertrack/pkg/order"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Poster sends one pending request and leaves its response in the scratch file.
type Poster interface {
	Post(ctx context.Context, p *PendingRequest) (int, error)
}

type trafficReporter interface {
	Traffic() (read, written int64)
}

type State int

const (
	Rejected State = iota
	Merged
)

func (s State) String() string {
	if s == Merged {
		return "merged"
	}
	return "rejected"
}

// Outcome is the terminal result of one order.
type Outcome struct {
	Order       order.Order
	State       State
	StatusCode  int
	ScratchPath string
	Err         error
}

// Runner fans a batch of orders out concurrently and waits for all of them.
type Runner struct {
	Concurrency int // in-flight limit, <= 0 means one goroutine per order
	ScratchDir  string
	Client      Poster
	Ledger      *ledger.Ledger
	Logger      *zap.Logger
}

// Run dispatches every order and returns once each has been merged or
// rejected. Outcomes follow the order of the input slice.
func (r *Runner) Run(ctx context.Context, orders []order.Order) ([]Outcome, error) {
	if r.Client == nil || r.Ledger == nil {
		return nil, errors.New("runner needs a client and a ledger")
	}
	if len(orders) == 0 {
		return nil, errors.New("no orders to dispatch")
	}
	stats := collector.CreateOutcomeCollector()
	var cwg sync.WaitGroup
	cwg.Add(1)
	go stats.Consume(&cwg)

	var g errgroup.Group
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}
	outcomes := make([]Outcome, len(orders))
	for i, o := range orders {
		i, o := i, o
		g.Go(func() error {
			start := time.Now()
			outcomes[i] = r.dispatch(ctx, o)
			stats.StatChannel <- &collector.OutcomeEntry{
				Order:        o.Name,
				Merged:       outcomes[i].State == Merged,
				ResponseCode: outcomes[i].StatusCode,
				Kind:         Kind(outcomes[i].Err),
				Duration:     time.Since(start),
			}
			return nil
		})
	}
	_ = g.Wait()
	stats.Finished()
	cwg.Wait()

	if t, ok := r.Client.(trafficReporter); ok {
		stats.GlobalStat.ReadSize, stats.GlobalStat.WriteSize = t.Traffic()
	}
	r.logSummary(stats)
	return outcomes, nil
}

func (r *Runner) dispatch(ctx context.Context, o order.Order) Outcome {
	log := r.logger().With(zap.String("order", o.Name))
	out := Outcome{Order: o}

	p, err := NewPendingRequest(r.ScratchDir, o)
	if err != nil {
		log.Error("unable to allocate scratch file", zap.Error(err))
		out.Err = err
		return out
	}
	out.ScratchPath = p.Path()
	log.Debug("created scratch file", zap.String("scratch", p.Path()))

	out.StatusCode, out.Err = r.Client.Post(ctx, p)
	if out.Err == nil && out.StatusCode != http.StatusOK {
		out.Err = &StatusError{Code: out.StatusCode}
	}

	merged := out.Err == nil
	if err := p.finalize(merged); err != nil {
		log.Warn("unable to release scratch file", zap.String("scratch", p.Path()), zap.Error(err))
	}
	if !merged {
		log.Error("order rejected", zap.Int("status", out.StatusCode), zap.String("scratch", p.Path()), zap.Error(out.Err))
		return out
	}

	out.State = Merged
	log.Info("order accepted", zap.Int("status", out.StatusCode), zap.String("scratch", p.Path()))
	if err := r.Ledger.Record(p.Path()); err != nil {
		log.Error("unable to update ledger", zap.String("ledger", r.Ledger.Path()), zap.Error(err))
	}
	return out
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) logSummary(stats *collector.OutcomeCollector) {
	classes := make([]string, 0, len(stats.ResponseStatus))
	for class, count := range stats.ResponseStatus {
		classes = append(classes, class+":"+strconv.Itoa(count))
	}
	sort.Strings(classes)

	g := stats.GetGlobalStats()
	r.logger().Info("batch finished",
		zap.Int("requests", g.TotalRequest),
		zap.Int("merged", g.Merged),
		zap.Int("rejected", g.Rejected),
		zap.String("codes", strings.Join(classes, " ")),
		zap.Duration("total", g.TotalDuration),
		zap.Duration("avg", g.AverageDuration),
		zap.Int64("read_bytes", g.ReadSize),
		zap.Int64("written_bytes", g.WriteSize),
		zap.String("ledger", r.Ledger.Path()),
	)
}
