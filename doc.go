// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pagereport implements a free-page reporting engine: a
// subsystem that plugs into a page allocator's free and allocate paths,
// opportunistically tracks large contiguous spans of unallocated
// memory, and periodically hands validated batches of them to an
// external consumer (for example a hypervisor that may reclaim the
// underlying physical backing).
//
// # Quick Start
//
// The host allocator implements [Allocator] and constructs a
// [Controller] bound to it. A report callback and tuning knobs are
// assembled with [NewConfig]:
//
//	ctrl := pagereport.NewController(myAllocator)
//
//	cfg := pagereport.NewConfig(func(batch []pagereport.BatchEntry) {
//	    for _, e := range batch {
//	        hypercallReportPage(e.PFN, e.Order)
//	    }
//	}).MaxPages(16).MinOrder(9).Build()
//
//	if err := ctrl.Enable(cfg); err != nil {
//	    // pagereport.ErrBusy: already active
//	    // pagereport.ErrOutOfMemory: per-region bookkeeping didn't fit
//	}
//
//	// On the allocator's free path, inside the region lock, once the
//	// block is on the free list:
//	ctrl.Enqueue(region, pfn, order)
//
//	// On the allocator's allocate path, inside the region lock, before
//	// the block leaves the free list:
//	ctrl.Dequeue(region, pfn)
//
//	// ...
//	ctrl.Disable(cfg)
//
// # Components
//
// The engine is four small pieces wired together by [Controller]:
//
//   - Candidate Index — a per-region bitmap of "recently freed,
//     possibly still free, not yet reported" blocks ([candidateIndex]).
//   - Allocator Hooks — [Controller.Enqueue] and [Controller.Dequeue],
//     the two allocator hot-path touchpoints.
//   - Scheduler — a single background goroutine per active
//     configuration that debounces bursts of frees and runs the scanner
//     in round-robin order across regions.
//   - Scanner/Reporter — re-validates each candidate under the region
//     lock, isolates it, batches it, calls the report callback, and
//     releases the batch back to the allocator.
//
// # Safety Model
//
// The candidate index has no lock of its own: every mutation piggybacks
// on the region lock the allocator already holds when it calls
// [Controller.Enqueue] or [Controller.Dequeue]. This is load-bearing —
// it's also how [Controller.Disable] achieves quiescence, by briefly
// acquiring and releasing every region's lock after unpublishing the
// active configuration. A candidate bit is a hint, never a guarantee:
// the scanner always re-validates under the lock before isolating a
// block, and a false positive is silently dropped rather than reported.
//
// # Advisory Reporting
//
// The report callback is opaque and may block; this package always
// releases an isolated batch back to the allocator regardless of what
// the callback does with it. No block is ever held out of the free list
// longer than one scan iteration, and no block is reported unless it
// was re-validated as free under the region lock at isolation time.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/atomix] for the candidate
// index's pending counter and the stats counters,
// [code.hybscloud.com/lfq] for the scheduler's multi-producer
// single-consumer wake queue, and [code.hybscloud.com/iox] for the
// scheduler's wake-queue backoff loop.
package pagereport
