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

import "github.com/lumirt/lumi/internal/dbg"

// markObj is the marker's single entry point (spec §4.5): it adds obj to
// the gray list only if it is currently any white and not red. Called
// with nil is a no-op, which lets every walker pass optional fields
// straight through without a nil check of its own.
func (rt *Runtime) markObj(obj *Header) {
	if obj == nil || obj.Color == ColorRed || !isWhite(obj.Color) {
		return
	}
	obj.Color = ColorGray
	obj.next = rt.grayList
	rt.grayList = obj
}

// ContextChildren walks a [Context] the way spec §4.5's "Context mark"
// describes, marking everything reachable from it. It is exported so a
// Fiber's Dispatch.Walk can reuse it for the context the fiber owns,
// exactly as the root scan does for the current/root contexts.
func ContextChildren(ctx Context, mark func(*Header)) (children int) {
	for ctx != nil {
		if ctx.Terminated() {
			return children
		}
		for _, s := range ctx.Stack() {
			mark(s)
			children++
		}
		for _, f := range ctx.Frames() {
			mark(f.Proc)
			mark(f.TargetClass)
			children += 2
		}
		mark(ctx.Fiber())
		children++
		ctx = ctx.Prev()
	}
	return children
}

// rootScan marks every root named in spec §4.5: every arena entry, every
// registered global, the built-in class pointers, top-level self, the
// pending exception, and the current (and, if distinct, root) execution
// context.
func (rt *Runtime) rootScan() {
	rt.arena.each(rt.markObj)
	rt.registry.each(rt.markObj)
	for _, c := range rt.roots.BuiltinClasses {
		rt.markObj(c)
	}
	rt.markObj(rt.roots.TopSelf)
	rt.markObj(rt.roots.PendingException)
	if rt.roots.CurrentContext != nil {
		ContextChildren(rt.roots.CurrentContext, rt.markObj)
	}
	if rt.roots.RootContext != nil && rt.roots.RootContext != rt.roots.CurrentContext {
		ContextChildren(rt.roots.RootContext, rt.markObj)
	}
}

// drainGray pops up to budget "units" worth of gray objects (one object's
// child count counts as that many units against the budget, per spec
// §4.7's step-sizing), painting each black and enumerating its children
// through the embedder's [Dispatch]. It returns how many units were
// actually consumed.
func (rt *Runtime) drainGray(budget int) (consumed int) {
	for rt.grayList != nil && consumed < budget {
		obj := rt.grayList
		rt.grayList = obj.next
		obj.next = nil
		obj.Color = ColorBlack
		rt.markObj(obj.Class) // every slot's class is a child, regardless of kind

		n := rt.dispatch.Walk(obj, rt.markObj)
		if n < 1 {
			n = 1 // every drained object costs at least one unit
		}
		consumed += n
	}
	return consumed
}

// drainGrayFully drains the gray list to empty, ignoring the step budget.
// Used by final marking and by FullGC, both of which must finish a
// complete mark in one go.
func (rt *Runtime) drainGrayFully() {
	for rt.grayList != nil {
		rt.drainGray(1 << 30)
	}
}

// finalMark is the end-of-MARK phase of spec §4.7: rescan every root once
// more (mutations may have happened incrementally since the last partial
// drain), let the embedder strip the pre-allocated exception payloads,
// drain, splice the atomic gray list built by object write barriers into
// the main gray list, and drain again until both are empty.
func (rt *Runtime) finalMark() {
	rt.rootScan()
	if rt.roots.ClearPreallocated != nil {
		rt.roots.ClearPreallocated()
	}
	rt.drainGrayFully()

	for rt.atomicGrayList != nil {
		obj := rt.atomicGrayList
		rt.atomicGrayList = obj.next
		obj.next = rt.grayList
		rt.grayList = obj
	}
	rt.drainGrayFully()

	dbg.Assert(rt.grayList == nil, "finalMark: gray list non-empty after drain")
	dbg.Assert(rt.atomicGrayList == nil, "finalMark: atomic gray list non-empty after splice")
}
