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

// Phase is the scheduler's current state (component C7).
type Phase uint8

const (
	PhaseRoot Phase = iota
	PhaseMark
	PhaseSweep
)

func (p Phase) String() string {
	switch p {
	case PhaseRoot:
		return "ROOT"
	case PhaseMark:
		return "MARK"
	case PhaseSweep:
		return "SWEEP"
	default:
		return "invalid-phase"
	}
}

// Roots is the set of GC roots the embedding layer supplies that the
// collector cannot discover on its own: built-in class pointers, the
// top-level self, the pending exception, and the current/root VM
// contexts (spec §4.5 "Root scan"). It is read fresh at the start of
// every root scan, so the embedder may freely mutate it between cycles.
type Roots struct {
	BuiltinClasses    []*Header
	TopSelf           *Header
	PendingException  *Header
	CurrentContext    Context
	RootContext       Context

	// ClearPreallocated, if set, is called once at the end of final
	// marking (spec §4.7) so the embedder can strip the managed references
	// (instance variables, backtrace) off its pre-allocated out-of-memory/stack-overflow/arena-
	// overflow exception singletons before the sweep that would otherwise
	// keep whatever they were last set to alive forever.
	ClearPreallocated func()
}

// Runtime is one collector instance (component C4 through C7, tied
// together). Per spec §9, state is per-runtime, not process-wide:
// constructing more than one Runtime in a process gives two fully
// independent collectors.
type Runtime struct {
	cfg      Config
	heap     *heap
	arena    *Arena
	registry registry
	dispatch Dispatch
	stats    *Stats
	roots    Roots

	phase        Phase
	currentWhite Color

	liveAfterMark   int64
	threshold       int64
	oldGenThreshold int64
	generational    bool
	full            bool
	forceNextFull   bool
	disabled        bool
	iterating       bool
	outOfMemory     bool

	grayList       *Header
	atomicGrayList *Header
}

// NewRuntime constructs a Runtime. dispatch must not be nil; it is the
// object-type dispatch table described by [Dispatch].
func NewRuntime(cfg Config, dispatch Dispatch) *Runtime {
	rt := &Runtime{
		cfg:          cfg,
		heap:         newHeap(cfg.HeapPageSize),
		arena:        NewArena(cfg.ArenaSize, cfg.ArenaGrowable),
		dispatch:     dispatch,
		stats:        newStats(),
		phase:        PhaseRoot,
		currentWhite: ColorWhiteA,
		generational: cfg.Generational,
		disabled:     cfg.Disabled,
		threshold:    gcStepSize,
	}
	return rt
}

// SetRoots installs the embedder-supplied root set used by every
// subsequent root scan.
func (rt *Runtime) SetRoots(r Roots) { rt.roots = r }

// Live returns the current live-object count (non-FREE slot count across
// all pages, spec invariant 5).
func (rt *Runtime) Live() int64 { return rt.stats.live.Load() }

// Threshold returns the allocation count at which the next incremental
// step fires.
func (rt *Runtime) Threshold() int64 { return rt.threshold }

// Phase returns the scheduler's current phase.
func (rt *Runtime) Phase() Phase { return rt.phase }

// CurrentWhite returns this cycle's current white.
func (rt *Runtime) CurrentWhite() Color { return rt.currentWhite }

// PageSlotSize returns the number of slots per page (spec §6
// page_slot_size).
func (rt *Runtime) PageSlotSize() int { return rt.cfg.HeapPageSize }

// Disabled reports whether scheduling is currently suppressed.
func (rt *Runtime) Disabled() bool { return rt.disabled }

// Enable turns scheduling back on, returning the previous state (spec
// §6).
func (rt *Runtime) Enable() (previous bool) {
	previous = rt.disabled
	rt.disabled = false
	return previous
}

// Disable suppresses future incremental scheduling (an explicit FullGC
// still runs), returning the previous state.
func (rt *Runtime) Disable() (previous bool) {
	previous = rt.disabled
	rt.disabled = true
	return previous
}

// IntervalRatio / SetIntervalRatio expose the §6 interval_ratio tunable.
func (rt *Runtime) IntervalRatio() int { return rt.cfg.IntervalRatio }
func (rt *Runtime) SetIntervalRatio(v int) { rt.cfg.IntervalRatio = v }

// StepRatio / SetStepRatio expose the §6 step_ratio tunable.
func (rt *Runtime) StepRatio() int { return rt.cfg.StepRatio }
func (rt *Runtime) SetStepRatio(v int) { rt.cfg.StepRatio = v }

// Generational reports whether the generational overlay is active.
func (rt *Runtime) Generational() bool { return rt.generational }

// SetGenerational toggles the generational overlay. Per spec §6, this is
// a runtime error while disabled or mid-iteration.
func (rt *Runtime) SetGenerational(v bool) error {
	if rt.disabled || rt.iterating {
		return wrapf(ErrModeChangeDisallowed, "SetGenerational(%v)", v)
	}
	rt.generational = v
	return nil
}

// Protect is the host-facing protect(v) operation (spec §6).
func (rt *Runtime) Protect(obj *Header) error { return rt.arena.Protect(obj) }

// ArenaSave/ArenaRestore are the host-facing arena_save/arena_restore
// operations.
func (rt *Runtime) ArenaSave() int            { return rt.arena.Save() }
func (rt *Runtime) ArenaRestore(mark int)      { rt.arena.Restore(mark) }

// Destroy walks every slot, invoking its destructor with end=true, then
// drops every page. Per spec §9, this must only be called after every
// runtime root has already been dropped by the embedder.
func (rt *Runtime) Destroy() {
	for p := rt.heap.pages; p != nil; p = p.next {
		for i := range p.slots {
			s := &p.slots[i].Header
			if s.Tag != FREE {
				rt.dispatch.Destroy(s, true /* end */)
			}
		}
	}
	rt.heap.pages = nil
	rt.heap.freePages = nil
}
