// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import "testing"

// TestEnqueueNoopWithoutActiveConfig restates: AH hooks are a no-op
// when no configuration is active.
func TestEnqueueNoopWithoutActiveConfig(t *testing.T) {
	alloc := newFakeAllocator()
	alloc.addRegion(0, 0, 16*512)
	c := NewController(alloc)

	// Should not panic even though nothing is configured.
	c.Enqueue(0, 0, 9)
	c.Dequeue(0, 0)
}

// TestMinimumOrderFilter confirms sub-minimum-order frees never
// reach the candidate index.
func TestMinimumOrderFilter(t *testing.T) {
	alloc := newFakeAllocator()
	alloc.addRegion(0, 0, 16*512)
	c := NewController(alloc)

	cfg := NewConfig(func([]BatchEntry) {}).MinOrder(9).Build()
	if err := c.Enable(cfg); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer c.Disable(cfg)

	freeAndEnqueue(c, alloc, 0, 0, 8, 0)

	ac := c.active.Load()
	if ac.regions[0].Pending() != 0 {
		t.Fatalf("Pending after sub-minimum free: got %d, want 0", ac.regions[0].Pending())
	}
}

// TestDuplicateMarkIdempotent restates scenario 6: marking the same
// pfn twice must not double-increment pending.
func TestDuplicateMarkIdempotent(t *testing.T) {
	alloc := newFakeAllocator()
	alloc.addRegion(0, 0, 64*512)
	c := NewController(alloc)

	cfg := NewConfig(func([]BatchEntry) {}).MinOrder(9).Build()
	if err := c.Enable(cfg); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer c.Disable(cfg)

	freeAndEnqueue(c, alloc, 0, 12288, 9, 0)
	freeAndEnqueue(c, alloc, 0, 12288, 9, 0)

	ac := c.active.Load()
	if got := ac.regions[0].Pending(); got != 1 {
		t.Fatalf("Pending after duplicate free: got %d, want 1", got)
	}
}

// TestDequeueClearsCandidate restates AH.dequeue: an allocated block
// must not remain a candidate.
func TestDequeueClearsCandidate(t *testing.T) {
	alloc := newFakeAllocator()
	alloc.addRegion(0, 0, 16*512)
	c := NewController(alloc)

	cfg := NewConfig(func([]BatchEntry) {}).MinOrder(9).Build()
	if err := c.Enable(cfg); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer c.Disable(cfg)

	freeAndEnqueue(c, alloc, 0, 512, 9, 0)
	allocateAndDequeue(c, alloc, 0, 512)

	ac := c.active.Load()
	if got := ac.regions[0].Pending(); got != 0 {
		t.Fatalf("Pending after dequeue: got %d, want 0", got)
	}
}
