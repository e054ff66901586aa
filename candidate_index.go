// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import (
	"code.hybscloud.com/atomix"

	"code.hybscloud.com/pagereport/internal/bitset"
)

// candidateIndex is the per-region "possibly free, not yet reported"
// bitmap. It has no lock of its own — every
// mutation is made from inside the caller's region lock, which is also
// what makes the clear-before-revalidate sequence in the scanner race
// free against a concurrent free.
type candidateIndex struct {
	bits       *bitset.Set
	pending    atomix.Int64
	basePFN    uint64
	blockPages uint64
}

// newCandidateIndex builds a candidateIndex covering [basePFN, endPFN)
// at blockPages-page granularity. A region with no room for even one
// block gets a valid, permanently-empty index rather than a nil one —
// Mark on it always returns false.
func newCandidateIndex(basePFN, endPFN, blockPages uint64) *candidateIndex {
	if endPFN <= basePFN || blockPages == 0 {
		return &candidateIndex{bits: bitset.New(0), basePFN: basePFN, blockPages: blockPages}
	}
	nblocks := int((endPFN - basePFN) / blockPages)
	return &candidateIndex{
		bits:       bitset.New(nblocks),
		basePFN:    basePFN,
		blockPages: blockPages,
	}
}

func (ci *candidateIndex) indexOf(pfn uint64) int {
	if pfn < ci.basePFN {
		return -1
	}
	off := pfn - ci.basePFN
	if off%ci.blockPages != 0 {
		return -1
	}
	return int(off / ci.blockPages)
}

// pfnAt returns the base pfn of the block at bitmap index i.
func (ci *candidateIndex) pfnAt(i int) uint64 {
	return ci.basePFN + uint64(i)*ci.blockPages
}

// Mark sets the bit for the block that starts at pfn. Idempotent: returns
// false if the bit was already set. A pfn that is not the first pfn of
// a block inside the index's range is not rounded down to its block:
// nothing is marked and Mark returns false. Caller MUST hold the region
// lock.
func (ci *candidateIndex) Mark(pfn uint64) bool {
	i := ci.indexOf(pfn)
	if i < 0 {
		return false
	}
	if !ci.bits.Mark(i) {
		return false
	}
	ci.pending.AddAcqRel(1)
	return true
}

// UnmarkIfSet clears the bit for the block that starts at pfn if set.
// As with Mark, a pfn that is not the first pfn of a block clears
// nothing and returns false. Caller MUST hold the region lock.
func (ci *candidateIndex) UnmarkIfSet(pfn uint64) bool {
	i := ci.indexOf(pfn)
	if i < 0 {
		return false
	}
	if !ci.bits.UnmarkIfSet(i) {
		return false
	}
	ci.pending.AddAcqRel(-1)
	return true
}

// Pending returns a monotonically-approximate count of set bits. Safe
// to read without the region lock; it is a wake threshold only,
// never used to decide correctness.
func (ci *candidateIndex) Pending() int64 {
	return ci.pending.LoadRelaxed()
}

// IterSet yields currently-set bit indices in ascending order, scanner
// only. See [bitset.Set.All] for the precise snapshot semantics.
func (ci *candidateIndex) IterSet() func(yield func(int) bool) {
	return ci.bits.All()
}
