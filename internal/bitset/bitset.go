// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bitset provides a fixed-size, word-sliced bit index with no
// lock of its own — every mutation is expected to happen under a lock
// the caller already holds for other reasons. The indexing scheme
// (word = bit>>6, mask = 1<<(bit&63)) follows the same run-of-bits idiom as
// a file-backed bitmap index, adapted here to an in-memory []uint64
// with no I/O and no byte/bit split.
package bitset

import "math/bits"

const wordBits = 64

// Set is a fixed-size bitmap. All methods assume the caller holds
// whatever external lock protects concurrent access; Set has none of
// its own.
type Set struct {
	words []uint64
	nbits int
}

// New creates a Set with room for nbits bit positions, all initially
// clear.
func New(nbits int) *Set {
	if nbits < 0 {
		nbits = 0
	}
	return &Set{
		words: make([]uint64, (nbits+wordBits-1)/wordBits),
		nbits: nbits,
	}
}

// NBits returns the number of valid bit positions.
func (s *Set) NBits() int { return s.nbits }

// Mark sets bit i. Returns true if the bit was newly set, false if it
// was already set or i is out of range.
func (s *Set) Mark(i int) bool {
	if i < 0 || i >= s.nbits {
		return false
	}
	w, mask := i/wordBits, uint64(1)<<(uint(i)%wordBits)
	if s.words[w]&mask != 0 {
		return false
	}
	s.words[w] |= mask
	return true
}

// UnmarkIfSet clears bit i if it was set. Returns whether it was
// cleared.
func (s *Set) UnmarkIfSet(i int) bool {
	if i < 0 || i >= s.nbits {
		return false
	}
	w, mask := i/wordBits, uint64(1)<<(uint(i)%wordBits)
	if s.words[w]&mask == 0 {
		return false
	}
	s.words[w] &^= mask
	return true
}

// IsSet reports whether bit i is currently set.
func (s *Set) IsSet(i int) bool {
	if i < 0 || i >= s.nbits {
		return false
	}
	w, mask := i/wordBits, uint64(1)<<(uint(i)%wordBits)
	return s.words[w]&mask != 0
}

// PopCount returns the number of currently-set bits. For diagnostics
// and tests only; production code tracks a running counter instead of
// recomputing this on the hot path.
func (s *Set) PopCount() int {
	n := 0
	for _, w := range s.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// All yields currently-set bit indices in ascending order. Each word is
// snapshotted independently as iteration reaches it: a bit cleared
// before its word is visited is skipped, a bit set after its word has
// already been visited is not seen this pass, and a bit mutated in a
// word not yet visited may or may not be seen — callers must tolerate
// all three outcomes (see the package using this one for why that's
// safe).
func (s *Set) All() func(yield func(int) bool) {
	return func(yield func(int) bool) {
		for wi := range s.words {
			word := s.words[wi]
			base := wi * wordBits
			for word != 0 {
				b := bits.TrailingZeros64(word)
				if !yield(base + b) {
					return
				}
				word &^= uint64(1) << uint(b)
			}
		}
	}
}
