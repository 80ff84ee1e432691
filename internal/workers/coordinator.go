// Package workers runs the background tasks described in spec §4.4: the
// auto-shutdown scan, the lunch reminder scan, and the mnemonic expiry
// sweep, each on its own drift-resistant tick.
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/catalinplesu/timesheet/internal/platform/logger"
)

// Task is one background job driven by the Coordinator.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Coordinator runs a fixed set of Tasks in parallel, each on its own tick
// timer rescheduled from the start of the previous tick so processing
// latency never causes drift (spec §4.4).
type Coordinator struct {
	tasks []Task
	wg    sync.WaitGroup
}

func NewCoordinator(tasks ...Task) *Coordinator {
	return &Coordinator{tasks: tasks}
}

// Run starts every task and blocks until ctx is cancelled, draining all
// in-flight ticks before returning (spec §4.4: "drain in-flight work
// before exit").
func (c *Coordinator) Run(ctx context.Context) {
	for _, t := range c.tasks {
		c.wg.Add(1)
		go c.runTask(ctx, t)
	}
	c.wg.Wait()
}

func (c *Coordinator) runTask(ctx context.Context, t Task) {
	defer c.wg.Done()
	log := logger.Named(t.Name)

	nextTick := time.Now().Add(t.Interval)
	timer := time.NewTimer(t.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker stopping")
			return
		case <-timer.C:
			if err := t.Run(ctx); err != nil {
				log.Error().Err(err).Msg("tick failed")
			}
			// schedule the next tick from this tick's scheduled start, not
			// from when Run returned, so handler latency doesn't drift the
			// period (spec §4.4).
			nextTick = nextTick.Add(t.Interval)
			d := time.Until(nextTick)
			if d <= 0 {
				nextTick = time.Now().Add(t.Interval)
				d = t.Interval
			}
			timer.Reset(d)
		}
	}
}
