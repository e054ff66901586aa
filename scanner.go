// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import (
	"context"

	"code.hybscloud.com/pagereport/internal/ring"
)

// maxConsecutiveMisses bounds how many bit positions in a row the
// scanner will burn through without successfully isolating a block
// before giving up on the current partial batch and emitting whatever
// it has. Without this, a region whose candidates are almost entirely
// stale (freed then immediately reallocated) could spend the whole
// scan re-validating dead bits instead of making progress elsewhere.
const maxConsecutiveMisses = 2

// scanner is the SR component: it turns set CI bits into validated,
// isolated blocks, batches them, and hands them to the configured
// report callback before releasing them back to the allocator.
type scanner struct {
	ac *activeConfig
}

// scan processes the set bits of region's candidate index once,
// emitting full batches as they fill and a final partial batch at the
// end. Returns false if ctx was cancelled between batches, in which
// case the caller must not start another batch; any bits not yet
// processed remain set and are retried on the next cycle.
func (sr *scanner) scan(ctx context.Context, region RegionID, ci *candidateIndex) bool {
	alloc := sr.ac.alloc
	batch, allocated := sr.newBatch()
	if !allocated {
		return true
	}
	misses := 0

	for i := range ci.IterSet() {
		pfn := ci.pfnAt(i)

		var entry BatchEntry
		var ok bool
		err := alloc.WithRegionLock(region, func() error {
			ci.UnmarkIfSet(pfn)

			order, migrationClass, free := alloc.PFNToFreeBlock(pfn)
			if !free || order < sr.ac.minOrder {
				return nil
			}
			if err := alloc.Isolate(pfn, order); err != nil {
				return nil
			}
			entry = BatchEntry{PFN: pfn, Order: order, MigrationClass: migrationClass}
			ok = true
			return nil
		})
		if err != nil || !ok {
			sr.ac.stats.falsePositives.AddAcqRel(1)
			sr.ac.logger.Debugf("pagereport: region=%d pfn=%d dropped as false positive", region, pfn)
			misses++
			if misses >= maxConsecutiveMisses && batch.Len() > 0 {
				break
			}
			continue
		}
		misses = 0

		batch.Append(entry)
		if batch.Full() {
			sr.emit(region, batch)
			batch.Reset()

			select {
			case <-ctx.Done():
				return false
			default:
			}
		}
	}

	if batch.Len() > 0 {
		sr.emit(region, batch)
	}
	return true
}

// newBatch allocates this cycle's staging batch. Its backing make is
// the only allocation on the scan-start path that can fail; recovering
// the panic here and reporting failure through ok, rather than letting
// it propagate out of the scheduler's goroutine, is what lets scan
// abort this cycle and retry later instead of crashing the whole
// background worker. Candidate bits are untouched at this point —
// IterSet hasn't been called yet — so nothing needs to be rolled back.
func (sr *scanner) newBatch() (batch *ring.Batch[BatchEntry], ok bool) {
	defer func() {
		if r := recover(); r != nil {
			sr.ac.logger.Warnf("pagereport: failed to allocate scan batch: %v", r)
			batch, ok = nil, false
		}
	}()
	return ring.NewBatch[BatchEntry](sr.ac.maxPages), true
}

// emit delivers batch to the configured report callback, then
// releases every entry back to the allocator's free list regardless of
// what the callback did — the callback is advisory, never load-bearing
// for correctness.
func (sr *scanner) emit(region RegionID, batch *ring.Batch[BatchEntry]) {
	entries := batch.Entries()
	sr.ac.stats.reported.AddAcqRel(int64(len(entries)))

	if sr.ac.report != nil {
		sr.ac.report(entries)
	}

	_ = sr.ac.alloc.WithRegionLock(region, func() error {
		for _, e := range entries {
			sr.ac.alloc.Release(e.PFN, e.Order, e.MigrationClass)
			sr.ac.stats.released.AddAcqRel(1)
		}
		return nil
	})
}
