// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gc

import (
	"sync/atomic"

	"github.com/lumirt/lumi/internal/stats"
)

// Stats holds the collector's instrumentation. The collector itself is
// single-threaded, but Stats is safe to read from a separate monitoring
// goroutine (e.g. an expvar/metrics handler) while a cycle is in flight:
// the gauges are atomics and the Mean/Median trackers are the same
// concurrency-safe primitives the teacher pack uses for its own
// instrumentation.
type Stats struct {
	live            atomic.Int64
	liveAfterMark   atomic.Int64
	freed           atomic.Int64
	pages           atomic.Int64
	cycles          atomic.Int64
	minorCycles     atomic.Int64
	majorCycles     atomic.Int64
	stepSlotsScanned stats.Mean
	cycleWallSlots   *stats.Median
}

func newStats() *Stats {
	return &Stats{cycleWallSlots: stats.NewMedian(256)}
}

// Snapshot is a point-in-time, concurrency-safe copy of Stats for display
// or export (see cmd/lumi-gcstat).
type Snapshot struct {
	Live            int64
	LiveAfterMark   int64
	Freed           int64
	Pages           int64
	Cycles          int64
	MinorCycles     int64
	MajorCycles     int64
	MeanStepSlots   float64
	MedianCycleWork float64
}

// Snapshot reads every counter once, without locking; a concurrent writer
// may interleave, so treat the result as approximate, same as the
// teacher's own Mean.Get/Median.Get contract.
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Live:            s.live.Load(),
		LiveAfterMark:   s.liveAfterMark.Load(),
		Freed:           s.freed.Load(),
		Pages:           s.pages.Load(),
		Cycles:          s.cycles.Load(),
		MinorCycles:     s.minorCycles.Load(),
		MajorCycles:     s.majorCycles.Load(),
		MeanStepSlots:   s.stepSlotsScanned.Get(),
		MedianCycleWork: s.cycleWallSlots.Get(),
	}
}

// Stats returns the runtime's live instrumentation snapshot.
func (rt *Runtime) Stats() Snapshot { return rt.stats.Snapshot() }
