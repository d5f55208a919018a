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

// Package gc implements the tri-color, incremental, write-barriered
// mark-and-sweep collector described by the runtime's data model: a
// fixed-slot page allocator, a root-protection arena, a hidden root
// registry, and the marker/sweeper/scheduler state machine that drives
// them. Per-kind knowledge of how to walk and free a managed object's
// children lives outside this package, behind the [Dispatch] interface;
// gc only owns the coloring, the allocator, and the invariants in its
// data model.
package gc

import "unsafe"

// Header is the part of every managed object the collector itself owns.
// Every concrete kind embeds a *Header (via [Slot]) as its first word so
// that a bare *Header can always be recovered from a pointer to the
// concrete type and vice versa.
type Header struct {
	Tag   Tag
	Color Color
	Class *Header // back-pointer to the owning class/module, or nil

	// next is the intrusive gc_next link (spec §3, §9): it threads a page's
	// free-list when Tag == FREE, and it threads the gray list (both
	// gray_list and atomic_gray_list) when Color == gray. It must not be
	// read or written for any other combination of Tag/Color.
	next *Header
}

// Slot is the uniform, fixed-size unit the page allocator carves pages
// into (spec §3 "Slot"). Every concrete kind is reached through Data, a
// single pointer to kind-specific storage allocated by the embedding
// layer; this keeps every Slot the same size regardless of which kind
// occupies it, which is what lets one free-list and one page format serve
// every kind.
type Slot struct {
	Header
	Data any
}

// IsDead reports whether obj is logically dead: either already swept back
// to FREE, or colored with the white that is not this cycle's current
// white (and therefore due to be collected at the next sweep).
func (rt *Runtime) IsDead(obj *Header) bool {
	if obj == nil {
		return true
	}
	if obj.Color == ColorRed {
		return false
	}
	if obj.Tag == FREE {
		return true
	}
	return obj.Color == otherWhite(rt.currentWhite)
}

// SlotOf recovers the [Slot] a *Header was carved from. Every Header the
// collector ever hands out is the first field of a Slot allocated inside
// a page's backing []Slot (see [newPage]), so the two pointers share an
// address; this is the one place that invariant is exploited directly,
// so a [Dispatch] implementation can reach Slot.Data from the *Header it
// is given.
func SlotOf(h *Header) *Slot {
	return (*Slot)(unsafe.Pointer(h))
}
