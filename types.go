// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

// RegionID identifies one of the allocator's locally-locked page-frame
// ranges. The core never interprets the value; it only uses it as a key
// into its own per-region bookkeeping and as an argument back into
// [Allocator].
type RegionID int

// BatchEntry describes one isolated block handed to the report
// callback. The allocator's original order and migration class travel
// with the entry so [Allocator.Release] can restore the block exactly.
type BatchEntry struct {
	PFN            uint64
	Order          uint8
	MigrationClass uint8
}

// LengthBytes returns the block's size in bytes for the given page
// size, i.e. pageSize << Order.
func (e BatchEntry) LengthBytes(pageSize uint64) uint64 {
	return pageSize << e.Order
}

// ReportFunc is the external consumer's opaque reporting callback. It
// may block; the engine always releases the batch back to the
// allocator once the call returns, regardless of what the callback did
// with it.
type ReportFunc func(batch []BatchEntry)

// Allocator is the set of primitives the host page allocator must
// provide. The region lock belongs to the allocator: every method here
// that says "under the region lock" is only ever called from inside a
// [Allocator.WithRegionLock] callback, and the candidate index has no
// lock of its own — it piggybacks entirely on this one.
type Allocator interface {
	// ForEachRegion iterates the allocator's currently-populated
	// regions, stopping early if fn returns false.
	ForEachRegion(fn func(RegionID) bool)

	// WithRegionLock runs fn with region's lock held, releasing it on
	// all exit paths including panics propagated from fn.
	WithRegionLock(region RegionID, fn func() error) error

	// PFNToFreeBlock reports whether the block starting at pfn is
	// currently on the free list, and if so its order and migration
	// class. Must be called under the region lock.
	PFNToFreeBlock(pfn uint64) (order uint8, migrationClass uint8, ok bool)

	// Isolate removes the block at pfn from the free list without
	// making it allocated. Must be called under the region lock.
	Isolate(pfn uint64, order uint8) error

	// Release reinserts an isolated block into its original free list
	// without re-triggering Controller.Enqueue. Must be called under
	// the region lock.
	Release(pfn uint64, order uint8, migrationClass uint8)

	// BasePFN and EndPFN snapshot the region's bounds. The core reads
	// these once, at Enable time and never again: a region resized while
	// the configuration is active keeps its Enable-time bounds until the
	// next Disable/Enable cycle.
	BasePFN(region RegionID) uint64
	EndPFN(region RegionID) uint64
}
