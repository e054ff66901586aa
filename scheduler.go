// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import (
	"context"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// scheduler is the single background worker governing when and where
// the scanner runs (SC). Exactly one exists per active configuration.
// Its Idle/Pending/Running state machine is the control flow of one
// goroutine rather than a flag inspected by many: producers (allocator
// hot paths, potentially many in parallel across regions) signal the
// scheduler through a bounded multi-producer/single-consumer wake
// queue instead of racing on a shared busy flag.
type scheduler struct {
	ac       *activeConfig
	wake     *lfq.MPSC[struct{}]
	debounce time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
}

// wakeQueueCapacity only needs to hold a handful of coalesced wake
// tokens at once — the scheduler drains it down to empty every cycle —
// so a small fixed capacity is sufficient; request never blocks past
// this because a full queue already means a wake is pending.
const wakeQueueCapacity = 8

func newScheduler(ac *activeConfig) *scheduler {
	return &scheduler{
		ac:       ac,
		wake:     lfq.NewMPSC[struct{}](wakeQueueCapacity),
		debounce: ac.debounce,
		done:     make(chan struct{}),
	}
}

// start launches the scheduler's single background goroutine.
func (s *scheduler) start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx)
}

// request asks the scheduler to run a scan, absorbing any request that
// arrives while one is already pending or running (Idle→Pending is the
// only transition that matters; repeated requests during Pending or
// Running coalesce into the same cycle). Never blocks the caller: a
// full wake queue already means a wake is outstanding, so a dropped
// enqueue changes nothing observable.
func (s *scheduler) request() {
	var tok struct{}
	_ = s.wake.Enqueue(&tok)
}

// stop cancels the background goroutine and waits for it to exit. Any
// scan in progress finishes its current batch before the goroutine
// observes cancellation and returns.
func (s *scheduler) stop() {
	s.cancel()
	<-s.done
}

func (s *scheduler) loop(ctx context.Context) {
	defer close(s.done)
	for {
		if !s.waitForWake(ctx) {
			return
		}

		select {
		case <-time.After(s.debounce):
		case <-ctx.Done():
			return
		}
		s.drainWakes()

		if !s.runRoundRobin(ctx) {
			return
		}
	}
}

// waitForWake polls the wake queue, backing off between empty polls.
// Returns false if ctx is cancelled before a wake arrives.
func (s *scheduler) waitForWake(ctx context.Context) bool {
	backoff := iox.Backoff{}
	for {
		if _, err := s.wake.Dequeue(); err == nil {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		default:
		}
		backoff.Wait()
	}
}

// drainWakes absorbs any wake requests queued during the debounce
// sleep so a burst of frees produces exactly one scan cycle.
func (s *scheduler) drainWakes() {
	for {
		if _, err := s.wake.Dequeue(); err != nil {
			return
		}
	}
}

// runRoundRobin sweeps every region in order, re-sweeping from the top
// whenever a full pass finds a region still pending, until a full pass
// finds nothing left to do. Returns false if ctx was cancelled; any
// cancellation check happens only between batches (scanner.scan
// returns early when its context is done), matching the "finish the
// current batch, then exit" contract for disable.
func (s *scheduler) runRoundRobin(ctx context.Context) bool {
	for {
		progressed := false
		for _, region := range s.ac.regionOrder {
			select {
			case <-ctx.Done():
				return false
			default:
			}
			ci := s.ac.regions[region]
			if ci.Pending() < 1 {
				continue
			}
			progressed = true
			if !s.ac.scanner.scan(ctx, region, ci) {
				return false
			}
		}
		if !progressed {
			return true
		}
	}
}
