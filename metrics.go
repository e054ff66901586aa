// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pagereport

import "code.hybscloud.com/atomix"

// Stats is a minimal read-only counters surface for an active
// configuration. The full statistics and diagnostic surface is an
// external collaborator's concern; these four
// counters exist because every background-worker package in this
// ecosystem ships something this small, not because the core needs
// them for correctness.
type Stats struct {
	marked         atomix.Int64
	reported       atomix.Int64
	released       atomix.Int64
	falsePositives atomix.Int64
}

// TotalMarked returns the cumulative number of blocks newly marked in
// the candidate index since Enable (not a current count; see
// [Stats.TotalReported] for what actually left the index via a report).
func (s *Stats) TotalMarked() int64 { return s.marked.LoadRelaxed() }

// TotalReported returns the cumulative number of blocks that appeared
// in some batch passed to the report callback.
func (s *Stats) TotalReported() int64 { return s.reported.LoadRelaxed() }

// TotalReleased returns the cumulative number of blocks returned to the
// allocator's free list after isolation. In a correct run this always
// equals the number of successful isolations in a correct run.
func (s *Stats) TotalReleased() int64 { return s.released.LoadRelaxed() }

// TotalFalsePositives returns the cumulative number of candidate bits
// that, on re-validation, turned out to no longer be a large-enough
// free block.
func (s *Stats) TotalFalsePositives() int64 { return s.falsePositives.LoadRelaxed() }
