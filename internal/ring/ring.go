// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring provides a bounded, reusable staging buffer for a
// single scanning goroutine. Unlike the producer/consumer ring buffers
// this codebase's queue library provides, a Batch has exactly one
// owner at a time — it is filled, drained, and reset entirely within
// one scan cycle — so none of the cross-goroutine handoff machinery
// (atomic cursors, cache-line padding, ABA-safe cycle tags) applies
// here; only the fixed-capacity slice-reuse idiom carries over.
package ring

// Batch is a bounded, reusable staging buffer. Its zero value is not
// usable; construct one with NewBatch.
type Batch[T any] struct {
	buf []T
	n   int
}

// NewBatch creates a Batch with the given fixed capacity.
func NewBatch[T any](capacity int) *Batch[T] {
	if capacity < 1 {
		panic("ring: capacity must be >= 1")
	}
	return &Batch[T]{buf: make([]T, capacity)}
}

// Append adds v to the batch. Returns false without modifying the
// batch if it is already full.
func (b *Batch[T]) Append(v T) bool {
	if b.n >= len(b.buf) {
		return false
	}
	b.buf[b.n] = v
	b.n++
	return true
}

// Full reports whether the batch has reached capacity.
func (b *Batch[T]) Full() bool { return b.n >= len(b.buf) }

// Len returns the number of entries currently staged.
func (b *Batch[T]) Len() int { return b.n }

// Cap returns the batch's fixed capacity.
func (b *Batch[T]) Cap() int { return len(b.buf) }

// Entries returns the staged entries in insertion order. The returned
// slice aliases the batch's internal buffer and is only valid until the
// next Reset.
func (b *Batch[T]) Entries() []T { return b.buf[:b.n] }

// Reset clears the batch for reuse, zeroing entries so they don't keep
// referenced objects (if T is a pointer or contains one) alive longer
// than necessary.
func (b *Batch[T]) Reset() {
	var zero T
	for i := range b.n {
		b.buf[i] = zero
	}
	b.n = 0
}
