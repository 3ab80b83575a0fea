package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edvin/statusboard/internal/core"
)

// Config tunes the polling loop.
type Config struct {
	// Tick is the scheduler granularity; item intervals are rounded up
	// to it in practice.
	Tick time.Duration
	// Timeout bounds a single check.
	Timeout time.Duration
	// MaxParallel bounds how many checks run at once.
	MaxParallel int
}

func (c *Config) applyDefaults() {
	if c.Tick <= 0 {
		c.Tick = time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = 8
	}
}

// Runner polls the enabled monitor leaves at their configured intervals.
// Checks run on worker goroutines, but every result funnels through the
// tree's SetState, which is the single serialized write path into the
// tree.
type Runner struct {
	tree   *core.TreeService
	cfg    Config
	logger zerolog.Logger

	mu      sync.Mutex
	lastRun map[string]time.Time

	// newChecker is swappable in tests.
	newChecker func(kind, target string, timeout time.Duration) (Checker, error)
}

// NewRunner creates a runner over the given tree.
func NewRunner(tree *core.TreeService, cfg Config, logger zerolog.Logger) *Runner {
	cfg.applyDefaults()
	return &Runner{
		tree:       tree,
		cfg:        cfg,
		logger:     logger.With().Str("component", "monitor-runner").Logger(),
		lastRun:    make(map[string]time.Time),
		newChecker: NewChecker,
	}
}

// Run executes the polling loop until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce checks every due item and waits for the batch to finish, so
// consecutive ticks never overlap.
func (r *Runner) runOnce(ctx context.Context) {
	now := time.Now()
	var due []core.Check
	for _, c := range r.tree.PollTargets() {
		if r.isDue(c, now) {
			due = append(due, c)
		}
	}
	if len(due) == 0 {
		return
	}

	g := new(errgroup.Group)
	g.SetLimit(r.cfg.MaxParallel)
	for _, c := range due {
		c := c
		g.Go(func() error {
			r.runCheck(ctx, c)
			return nil
		})
	}
	g.Wait()
}

func (r *Runner) runCheck(ctx context.Context, c core.Check) {
	checker, err := r.newChecker(c.Kind, c.Target, r.cfg.Timeout)
	if err != nil {
		if !errors.Is(err, ErrUnknownKind) {
			r.logger.Warn().Err(err).Str("item_id", c.ID).Msg("checker unavailable")
		}
		return
	}

	cctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	state := checker.Check(cctx)

	r.mu.Lock()
	r.lastRun[c.ID] = time.Now()
	r.mu.Unlock()

	tr, err := r.tree.SetState(c.ID, state)
	if err != nil {
		// The item may have been removed while the check was in flight.
		r.logger.Debug().Err(err).Str("item_id", c.ID).Msg("discarding check result")
		return
	}
	if tr.Changed() {
		r.logger.Info().
			Str("item", c.Name).
			Str("from", tr.From.String()).
			Str("to", tr.To.String()).
			Msg("state changed")
	}
}

func (r *Runner) isDue(c core.Check, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	last, ok := r.lastRun[c.ID]
	if !ok {
		return true
	}
	return now.Sub(last) >= time.Duration(c.Interval)*time.Second
}
