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

// FieldWrite is the field write barrier of spec §4.8 (component C8),
// called whenever the embedder stores value into a field of obj (an ivar
// assignment, a single-slot array/hash store) after the store has
// already happened.
//
// If obj is not black, or value is nil/FREE/red/already non-white, this
// does nothing: the black->white edge the barrier exists to prevent
// cannot occur. Otherwise, in the mark phase or whenever the generational
// overlay is active (a black object may be an old survivor from a prior
// cycle, not just one this cycle already marked), value is grayed and
// pushed onto the gray list so the marker will still find it. During an
// ordinary (non-generational) sweep phase there is no gray list left to
// push onto, so instead obj itself is repainted back to current white,
// which puts it back in front of the next cycle's marker and lets that
// cycle rediscover the edge.
func (rt *Runtime) FieldWrite(obj, value *Header) {
	if obj == nil || obj.Color != ColorBlack {
		return
	}
	if value == nil || value.Tag == FREE || value.Color == ColorRed || !isWhite(value.Color) {
		return
	}
	dbg.Assert(rt.generational || rt.phase != PhaseRoot,
		"FieldWrite called during ROOT phase in non-generational mode")

	if rt.phase == PhaseMark || rt.generational {
		value.Color = ColorGray
		value.next = rt.grayList
		rt.grayList = value
		return
	}
	obj.Color = rt.currentWhite
}

// ObjectWrite is the object write barrier of spec §4.8, used instead of
// FieldWrite when the embedder mutated a whole container (e.g. an array
// element store by index) rather than a single named field, so re-
// scanning just the one new edge is cheaper than re-graying the entire
// container. If obj is not black, this does nothing; otherwise obj is
// painted gray and pushed onto the atomic gray list, which final marking
// splices back into the main gray list before a mark phase is allowed to
// conclude.
func (rt *Runtime) ObjectWrite(obj *Header) {
	if obj == nil || obj.Color != ColorBlack {
		return
	}
	obj.Color = ColorGray
	obj.next = rt.atomicGrayList
	rt.atomicGrayList = obj
}
