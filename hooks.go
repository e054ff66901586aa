// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

// Enqueue is the allocator's free-path hook (AH.enqueue). The caller
// MUST already hold the region's lock and MUST call this after the
// block is placed on the free list but before releasing that lock.
//
// A no-op if no configuration is active, or if order is below the
// configured minimum — the external consumer has no interest in
// smaller blocks.
func (c *Controller) Enqueue(region RegionID, pfn uint64, order uint8) {
	ac := c.active.Load()
	if ac == nil {
		return
	}
	if order < ac.minOrder {
		return
	}
	ci := ac.regions[region]
	if ci == nil {
		return
	}
	if !ci.Mark(pfn) {
		return
	}
	ac.stats.marked.AddAcqRel(1)

	if ci.Pending() >= int64(ac.maxPages) {
		ac.scheduler.request()
	}
}

// Dequeue is the allocator's allocate-path hook (AH.dequeue). The
// caller MUST already hold the region's lock and MUST call this
// before the block leaves the free list.
//
// Clearing the bit here — under the same lock the scanner's
// clear-then-validate sequence uses — whichever of the scanner and the
// allocating caller acquires the region lock first wins, and the other
// observes a consistent outcome, so a block can never be reported after
// it has been reallocated.
func (c *Controller) Dequeue(region RegionID, pfn uint64) {
	ac := c.active.Load()
	if ac == nil {
		return
	}
	ci := ac.regions[region]
	if ci == nil {
		return
	}
	ci.UnmarkIfSet(pfn)
}
