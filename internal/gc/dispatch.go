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

// Dispatch is the object-type dispatch the marker and sweeper call out to
// (spec §1: "out of scope... only their interface to the GC is
// specified"). An embedding layer (the lumi package, for this runtime)
// implements it once, with one case per [Tag], and hands the
// implementation to [NewRuntime].
type Dispatch interface {
	// Walk enumerates obj's children for the marker, invoking mark once per
	// reachable child, and returns how many children it scheduled so the
	// scheduler can size an incremental step (spec §4.5).
	Walk(obj *Header, mark func(*Header)) int

	// Destroy releases obj's kind-specific resources immediately before its
	// slot is threaded onto a free-list (spec §4.9). It must be idempotent
	// for Tag == FREE. end is true during Runtime.Destroy's final teardown,
	// when cross-object cleanup (e.g. method-cache invalidation) must be
	// skipped because other objects this one references may already be
	// gone.
	Destroy(obj *Header, end bool)
}

// Frame is one call frame of a [Context], carrying the two fields the
// marker needs to keep live (spec §4.5 "Context mark").
type Frame struct {
	Proc        *Header
	TargetClass *Header
}

// Context is the VM execution context the marker walks as a root (spec
// §1: the VM's call stack/data stack/fiber scheduling is out of scope;
// the GC only needs to walk it). The embedding layer supplies an
// implementation; the collector never constructs or mutates one.
type Context interface {
	// Terminated reports whether this context has finished running. A
	// terminated context contributes nothing to the root scan.
	Terminated() bool

	// Stack returns the live portion of the data stack: from stbase up to
	// ci.stack+ci.nregs, already clamped to stend by the caller.
	Stack() []*Header

	// Frames returns the call frames, innermost first.
	Frames() []Frame

	// Fiber returns the fiber object that owns this context, or nil.
	Fiber() *Header

	// Prev returns the context this one resumes into, or nil at the root.
	Prev() Context
}
