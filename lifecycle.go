// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import (
	"sync"
	"sync/atomic"
	"time"
)

// activeConfig is the process-wide "active configuration" slot:
// everything Enqueue, Dequeue, and the scheduler/scanner need to do
// their work, snapshotted once at Enable and torn down at Disable.
// Readers reach it only through Controller.active, an
// atomic.Pointer[activeConfig] — a generic pointer type atomix does
// not provide, the one deliberate exception to this module's
// atomix-over-sync/atomic rule (see the project's design notes).
type activeConfig struct {
	cfg      *Config
	report   ReportFunc
	maxPages int
	minOrder uint8
	pageSize uint64
	debounce time.Duration
	logger   Logger

	alloc       Allocator
	regions     map[RegionID]*candidateIndex
	regionOrder []RegionID

	stats     *Stats
	scheduler *scheduler
	scanner   *scanner
}

// Controller owns the lifecycle of at most one active configuration
// against a given allocator (LC). Its zero value is not usable;
// construct one with NewController.
type Controller struct {
	mu     sync.Mutex
	active atomic.Pointer[activeConfig]
	alloc  Allocator
}

// NewController creates a Controller bound to alloc. No configuration
// is active until Enable is called.
func NewController(alloc Allocator) *Controller {
	return &Controller{alloc: alloc}
}

// Stats returns the counters for the currently active configuration,
// or nil if none is active.
func (c *Controller) Stats() *Stats {
	ac := c.active.Load()
	if ac == nil {
		return nil
	}
	return ac.stats
}

// Enable activates cfg against the bound allocator. Returns ErrBusy if
// a configuration is already active. Allocation failure while building
// per-region candidate indexes rolls back cleanly and returns
// ErrOutOfMemory; no partial enable is ever observable.
func (c *Controller) Enable(cfg *Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active.Load() != nil {
		return ErrBusy
	}

	ac := &activeConfig{
		cfg:      cfg,
		report:   cfg.report,
		maxPages: cfg.maxPages,
		minOrder: cfg.minOrder,
		pageSize: cfg.pageSize,
		debounce: cfg.debounce,
		logger:   cfg.logger,
		alloc:    c.alloc,
		regions:  make(map[RegionID]*candidateIndex),
		stats:    &Stats{},
	}

	if err := c.buildRegions(ac, cfg.minOrder); err != nil {
		return err
	}

	ac.scanner = &scanner{ac: ac}
	ac.scheduler = newScheduler(ac)
	ac.scheduler.start()

	c.active.Store(ac)
	if len(ac.regionOrder) > 0 {
		ac.scheduler.request()
	}
	return nil
}

// buildRegions allocates a candidate index for every region the
// allocator currently reports, leaving ac.regions/ac.regionOrder empty
// (not partially populated) on failure. Bitmap backing storage is a
// plain make([]uint64, n) that panics rather than returning an error
// on allocation failure; recovering here and turning it into
// ErrOutOfMemory is what lets Enable roll back cleanly instead of
// leaving the process in an inconsistent state.
func (c *Controller) buildRegions(ac *activeConfig, minOrder uint8) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ac.logger.Warnf("pagereport: failed to allocate candidate index: %v", r)
			ac.regions = make(map[RegionID]*candidateIndex)
			ac.regionOrder = nil
			err = ErrOutOfMemory
		}
	}()

	blockPages := uint64(1) << minOrder
	var regionOrder []RegionID
	c.alloc.ForEachRegion(func(region RegionID) bool {
		base, end := c.alloc.BasePFN(region), c.alloc.EndPFN(region)
		ac.regions[region] = newCandidateIndex(base, end, blockPages)
		regionOrder = append(regionOrder, region)
		return true
	})
	ac.regionOrder = regionOrder
	return nil
}

// Disable deactivates cfg. A no-op if cfg is not the currently active
// configuration. Blocks until the scheduler's background goroutine has
// fully exited and every in-flight hook call against this
// configuration has completed: after Disable returns, no further
// scanner or reporter callback for cfg will run.
func (c *Controller) Disable(cfg *Config) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ac := c.active.Load()
	if ac == nil || ac.cfg != cfg {
		return
	}

	c.active.Store(nil)

	// Quiescence: every Enqueue/Dequeue call against this configuration
	// executes inside the region lock. A call already in flight
	// when the pointer above was cleared must already hold its region's
	// lock, so acquiring and releasing each region's lock once here
	// guarantees it has finished before this loop returns — no separate
	// epoch or reader count is needed (the allocator lock is load-bearing).
	for _, region := range ac.regionOrder {
		_ = c.alloc.WithRegionLock(region, func() error { return nil })
	}

	ac.scheduler.stop()
}
