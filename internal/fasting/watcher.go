package fasting

import (
	"context"
	"errors"
	"log"

	"github.com/robfig/cron/v3"

	"lg/calorix-api/internal/clock"
)

// CompletionFunc is called once per session when a fast first elapses.
type CompletionFunc func(ctx context.Context, uid string, a Active)

// errUnchanged aborts an Update whose tick produced nothing to write.
var errUnchanged = errors.New("unchanged")

// Watcher re-evaluates every active fast on a fixed cadence. It replaces a
// per-user timer with one cooperative sweep, so completion is observed within
// one tick interval of EndTime.
type Watcher struct {
	repo       *Repository
	clock      clock.Clock
	onComplete CompletionFunc
	cron       *cron.Cron
}

// NewWatcher schedules Sweep with the given cron spec, e.g. "@every 1s".
// A sweep still running when the next one is due is skipped.
func NewWatcher(repo *Repository, clk clock.Clock, spec string, onComplete CompletionFunc) (*Watcher, error) {
	w := &Watcher{
		repo:       repo,
		clock:      clk,
		onComplete: onComplete,
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	if _, err := w.cron.AddFunc(spec, func() {
		if _, err := w.Sweep(context.Background()); err != nil {
			log.Printf("[Watcher.Sweep] %v", err)
		}
	}); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Start() { w.cron.Start() }

// Stop halts scheduling and waits for a running sweep to finish.
func (w *Watcher) Stop() {
	<-w.cron.Stop().Done()
}

// Sweep ticks every user's record once and returns how many fasts completed.
// One user's failure is logged and does not stop the sweep.
func (w *Watcher) Sweep(ctx context.Context) (int, error) {
	uids, err := w.repo.Users(ctx)
	if err != nil {
		return 0, err
	}
	completed := 0
	for _, uid := range uids {
		var done Active
		_, err := w.repo.Update(ctx, uid, func(r Record) (Record, error) {
			next, res := Tick(r, w.clock.Now())
			if !res.Completed {
				return r, errUnchanged
			}
			done, _ = next.Active()
			return next, nil
		})
		if errors.Is(err, errUnchanged) {
			continue
		}
		if err != nil {
			log.Printf("[Watcher.Sweep] uid=%s: %v", uid, err)
			continue
		}
		completed++
		if w.onComplete != nil {
			w.onComplete(ctx, uid, done)
		}
	}
	return completed, nil
}
