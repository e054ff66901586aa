// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import (
	"sync"
)

// fakeBlock is the free-list entry kept by fakeAllocator.
type fakeBlock struct {
	order          uint8
	migrationClass uint8
}

// fakeAllocator is a minimal, in-memory stand-in for the host page
// allocator, exercising exactly the contract [Allocator] documents:
// per-region locks, a free-list keyed by pfn, and isolate/release that
// mutate it under that lock. It exists only to drive this package's
// own tests against real Enqueue/Dequeue/Enable/Disable call sequences
// without a real buddy allocator.
type fakeAllocator struct {
	mu      sync.Mutex
	regions []RegionID
	base    map[RegionID]uint64
	end     map[RegionID]uint64
	free    map[RegionID]map[uint64]fakeBlock
	locks   map[RegionID]*sync.Mutex

	isolated map[uint64]bool
}

func newFakeAllocator() *fakeAllocator {
	return &fakeAllocator{
		base:     make(map[RegionID]uint64),
		end:      make(map[RegionID]uint64),
		free:     make(map[RegionID]map[uint64]fakeBlock),
		locks:    make(map[RegionID]*sync.Mutex),
		isolated: make(map[uint64]bool),
	}
}

func (a *fakeAllocator) addRegion(region RegionID, base, end uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.regions = append(a.regions, region)
	a.base[region] = base
	a.end[region] = end
	a.free[region] = make(map[uint64]fakeBlock)
	a.locks[region] = &sync.Mutex{}
}

// seedFree marks pfn as free directly in the free-list map (bypassing any
// hook), for seeding test fixtures.
func (a *fakeAllocator) seedFree(region RegionID, pfn uint64, order, migrationClass uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.free[region][pfn] = fakeBlock{order: order, migrationClass: migrationClass}
}

func (a *fakeAllocator) regionOf(pfn uint64) RegionID {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, r := range a.regions {
		if pfn >= a.base[r] && pfn < a.end[r] {
			return r
		}
	}
	return -1
}

func (a *fakeAllocator) ForEachRegion(fn func(RegionID) bool) {
	a.mu.Lock()
	regions := append([]RegionID(nil), a.regions...)
	a.mu.Unlock()
	for _, r := range regions {
		if !fn(r) {
			return
		}
	}
}

func (a *fakeAllocator) WithRegionLock(region RegionID, fn func() error) error {
	a.mu.Lock()
	lock := a.locks[region]
	a.mu.Unlock()
	lock.Lock()
	defer lock.Unlock()
	return fn()
}

func (a *fakeAllocator) PFNToFreeBlock(pfn uint64) (order uint8, migrationClass uint8, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	region := a.regionOfLocked(pfn)
	if region < 0 {
		return 0, 0, false
	}
	b, ok := a.free[region][pfn]
	return b.order, b.migrationClass, ok
}

func (a *fakeAllocator) regionOfLocked(pfn uint64) RegionID {
	for _, r := range a.regions {
		if pfn >= a.base[r] && pfn < a.end[r] {
			return r
		}
	}
	return -1
}

func (a *fakeAllocator) Isolate(pfn uint64, order uint8) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	region := a.regionOfLocked(pfn)
	if region < 0 {
		return ErrOutOfMemory
	}
	if _, ok := a.free[region][pfn]; !ok {
		return ErrOutOfMemory
	}
	delete(a.free[region], pfn)
	a.isolated[pfn] = true
	return nil
}

func (a *fakeAllocator) Release(pfn uint64, order uint8, migrationClass uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()
	region := a.regionOfLocked(pfn)
	if region < 0 {
		return
	}
	delete(a.isolated, pfn)
	a.free[region][pfn] = fakeBlock{order: order, migrationClass: migrationClass}
}

func (a *fakeAllocator) BasePFN(region RegionID) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.base[region]
}

func (a *fakeAllocator) EndPFN(region RegionID) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.end[region]
}

// freeAndEnqueue simulates the allocator's free path: place the block
// on the free list, then call the hook, matching the documented
// ordering ("after the block is on the free list").
func freeAndEnqueue(c *Controller, a *fakeAllocator, region RegionID, pfn uint64, order, migrationClass uint8) {
	_ = a.WithRegionLock(region, func() error {
		a.free[region][pfn] = fakeBlock{order: order, migrationClass: migrationClass}
		c.Enqueue(region, pfn, order)
		return nil
	})
}

// allocateAndDequeue simulates the allocator's allocate path: call the
// hook, then remove the block from the free list.
func allocateAndDequeue(c *Controller, a *fakeAllocator, region RegionID, pfn uint64) {
	_ = a.WithRegionLock(region, func() error {
		c.Dequeue(region, pfn)
		delete(a.free[region], pfn)
		return nil
	})
}
