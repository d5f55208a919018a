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

// Step runs one incremental collector step (component C7, spec §4.7),
// budgeted at GC_STEP_SIZE * step_ratio / 100 units of work. It is called
// from [Runtime.Alloc] once live objects pass threshold, and may also be
// driven directly by an embedder that wants to pace collection itself
// (e.g. once per VM instruction dispatch loop iteration).
func (rt *Runtime) Step() {
	rt.doStep(rt.stepBudget())
}

func (rt *Runtime) stepBudget() int {
	budget := gcStepSize * rt.cfg.StepRatio / 100
	if budget < 1 {
		budget = 1
	}
	return budget
}

// doStep runs one step of the current phase against a caller-supplied
// budget: ROOT scans roots and enters MARK; MARK drains up to budget of a
// non-empty gray list and returns, or, once the gray list is empty, runs
// final marking and enters SWEEP; SWEEP sweeps up to budget slots. FullGC
// passes an effectively unlimited budget and calls it until each phase
// is done.
func (rt *Runtime) doStep(budget int) {
	switch rt.phase {
	case PhaseRoot:
		rt.rootScan()
		rt.currentWhite = otherWhite(rt.currentWhite)
		switch {
		case rt.forceNextFull:
			rt.full = true
		case rt.generational:
			rt.full = rt.shouldRunFull()
		default:
			rt.full = true
		}
		rt.forceNextFull = false
		rt.phase = PhaseMark

	case PhaseMark:
		if rt.grayList != nil {
			rt.drainGray(budget)
			return
		}
		rt.finalMark()
		rt.liveAfterMark = rt.stats.live.Load()
		rt.stats.liveAfterMark.Store(rt.liveAfterMark)
		if rt.full {
			rt.oldGenThreshold = rt.liveAfterMark
		}
		rt.phase = PhaseSweep

	case PhaseSweep:
		done, _ := rt.sweepStep(budget)
		if !done {
			return
		}
		rt.stats.cycles.Add(1)
		if rt.generational {
			if rt.full {
				rt.stats.majorCycles.Add(1)
			} else {
				rt.stats.minorCycles.Add(1)
			}
		}
		rt.threshold = max64(rt.liveAfterMark*int64(rt.cfg.IntervalRatio)/100, gcStepSize)
		rt.phase = PhaseRoot
	}
}

// shouldRunFull decides, at the start of a generational cycle, whether
// this cycle should be a full (major) collection rather than a minor one
// (spec §4.3's generational overlay): the first cycle always establishes
// a baseline; afterward a cycle is promoted to full once live objects
// reach major_gc_inc_ratio percent of old_gen_threshold, or exceed it by
// at least major_gc_too_many objects outright.
func (rt *Runtime) shouldRunFull() bool {
	if rt.oldGenThreshold == 0 {
		return true
	}
	live := rt.stats.live.Load()
	if live >= rt.oldGenThreshold*int64(rt.cfg.MajorGCIncRatio)/100 {
		return true
	}
	if live-rt.oldGenThreshold >= int64(rt.cfg.MajorGCTooMany) {
		return true
	}
	return false
}

// FullGC forces an immediate, complete collection cycle: it finishes
// whatever cycle is already in flight (so the tri-color invariant stays
// sound across the switch), then runs one full generational cycle start
// to finish with an unbounded step budget, per spec §6's explicit
// full-GC entry point.
func (rt *Runtime) FullGC() {
	const unbounded = 1 << 30

	for rt.phase != PhaseRoot {
		rt.doStep(unbounded)
	}

	rt.forceNextFull = true
	rt.doStep(unbounded) // ROOT -> MARK, with full forced above
	for rt.phase == PhaseMark {
		rt.doStep(unbounded)
	}
	for rt.phase == PhaseSweep {
		rt.doStep(unbounded)
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
