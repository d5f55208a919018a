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

package lumi

import (
	"github.com/lumirt/lumi/internal/arena"
	"github.com/lumirt/lumi/internal/gc"
	"github.com/lumirt/lumi/internal/kind"
)

// Runtime is one embeddable collector instance plus the managed kinds
// layered on top of it. Per internal/gc's own contract, constructing
// more than one Runtime gives two fully independent collectors (no
// process-wide state is shared).
type Runtime struct {
	gc       *gc.Runtime
	kinds    *kind.Table
	symbols  *symbolTable
	strArena arena.Arena
	prealloc *preallocated

	TopSelf        *Object
	CurrentContext *execContext
	RootContext    *execContext
	PendingException *Exception
}

// New constructs a Runtime and wires its pre-allocated exception
// singletons. It creates no built-in classes, so the root set's
// BuiltinClasses list stays empty.
func New(opts ...Option) *Runtime {
	cfg := NewConfig(opts...).Clone()

	rt := &Runtime{
		kinds:   kind.NewTable(),
		symbols: newSymbolTable(),
	}
	registerKinds(rt.kinds)
	rt.gc = gc.NewRuntime(cfg.toGC(), rt.kinds)

	rt.prealloc = newPreallocated(rt)
	rt.RootContext = &execContext{}
	rt.CurrentContext = rt.RootContext
	rt.syncRoots()

	return rt
}

// syncRoots pushes the current embedder-visible root set into the
// collector. Call this again after changing TopSelf, CurrentContext,
// RootContext, or PendingException.
func (rt *Runtime) syncRoots() {
	rt.gc.SetRoots(gc.Roots{
		TopSelf:           headerOf(rt.TopSelf),
		PendingException:  headerOfException(rt.PendingException),
		CurrentContext:    rt.CurrentContext,
		RootContext:       rt.RootContext,
		ClearPreallocated: rt.prealloc.clear,
	})
}

func headerOf(o *Object) *gc.Header {
	if o == nil {
		return nil
	}
	return o.Header()
}

func headerOfException(e *Exception) *gc.Header {
	if e == nil {
		return nil
	}
	return e.Header()
}

// Intern interns name as a Symbol.
func (rt *Runtime) Intern(name string) Symbol { return rt.symbols.Intern(name) }

// SymbolName returns the string a Symbol was interned from.
func (rt *Runtime) SymbolName(s Symbol) string { return rt.symbols.Name(s) }

// Protect is the host-facing protect(v) operation (spec.md §6); it is a
// no-op for an immediate Value.
func (rt *Runtime) Protect(v Value) error { return rt.gc.Protect(v.Header()) }

// ArenaSave/ArenaRestore expose the arena checkpoint operations.
func (rt *Runtime) ArenaSave() int        { return rt.gc.ArenaSave() }
func (rt *Runtime) ArenaRestore(mark int) { rt.gc.ArenaRestore(mark) }

// Register/Unregister expose the hidden root registry.
func (rt *Runtime) Register(v Value)   { rt.gc.Register(v.Header()) }
func (rt *Runtime) Unregister(v Value) { rt.gc.Unregister(v.Header()) }

// Step runs one incremental collector step.
func (rt *Runtime) Step() { rt.gc.Step() }

// FullGC forces an immediate, complete collection cycle.
func (rt *Runtime) FullGC() { rt.gc.FullGC() }

// Stats returns the collector's instrumentation snapshot.
func (rt *Runtime) Stats() gc.Snapshot { return rt.gc.Stats() }

// Continuation is the each_object callback's instruction to keep walking
// or stop (spec.md §6).
type Continuation = gc.Continuation

const (
	Continue = gc.Continue
	Break    = gc.Break
)

// EachObject is the host-facing each_object(callback, userdata) operation
// (spec.md §6 "each_object contract"): it forces a full GC, then invokes
// fn once per slot of every page, including FREE slots (use Value.IsFree
// to skip them), stopping early if fn returns Break.
func (rt *Runtime) EachObject(fn func(v Value) Continuation) {
	rt.gc.EachObject(func(obj *gc.Header) gc.Continuation {
		return fn(Of(obj))
	})
}

// Disable/Enable suppress or resume incremental scheduling.
func (rt *Runtime) Disable() bool { return rt.gc.Disable() }
func (rt *Runtime) Enable() bool  { return rt.gc.Enable() }

// Generational reports, and SetGenerational toggles, the generational
// overlay.
func (rt *Runtime) Generational() bool          { return rt.gc.Generational() }
func (rt *Runtime) SetGenerational(v bool) error { return rt.gc.SetGenerational(v) }

// CheckInvariants exhaustively verifies every collector invariant in
// spec.md §8; intended for tests and debug builds, not production use.
func (rt *Runtime) CheckInvariants() string { return rt.gc.CheckInvariants() }

// Destroy tears the runtime down: every managed object's destructor
// runs once with end=true, then every page is dropped. The embedder
// must not use rt afterward.
func (rt *Runtime) Destroy() { rt.gc.Destroy() }
