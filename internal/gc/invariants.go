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

import "fmt"

// CheckInvariants exhaustively scans the heap and reports the first
// violation of one of spec §8's collector invariants, or "" if none is
// found. It is an O(live objects) scan, so production code never calls
// it; it exists for tests and for embedders that call it explicitly. It
// is not gated by [dbg.Enabled] and runs whenever it is called.
func (rt *Runtime) CheckInvariants() string {
	if msg := rt.checkTagDiscipline(); msg != "" {
		return msg
	}
	if msg := rt.checkTriColorSoundness(); msg != "" {
		return msg
	}
	if !rt.heap.freeListConsistent() {
		return "free-list page membership does not match each page's free-list emptiness"
	}
	if got, want := rt.heap.liveSlots(), int(rt.stats.live.Load()); got != want {
		return fmt.Sprintf("live slot count mismatch: heap scan found %d, Stats.live says %d", got, want)
	}
	return ""
}

// checkTagDiscipline is spec §8 property 1: FREE appears only on a
// page's free-list, and every live slot's Tag is one of the closed set.
func (rt *Runtime) checkTagDiscipline() string {
	for p := rt.heap.pages; p != nil; p = p.next {
		onFreeList := make(map[*Header]bool)
		for s := p.free; s != nil; s = s.next {
			onFreeList[s] = true
		}
		for i := range p.slots {
			s := &p.slots[i].Header
			if s.Tag == FREE && !onFreeList[s] {
				return fmt.Sprintf("slot %p has Tag == FREE but is not on its page's free-list", s)
			}
			if s.Tag != FREE && onFreeList[s] {
				return fmt.Sprintf("slot %p is on its page's free-list but Tag != FREE (%v)", s, s.Tag)
			}
			if s.Tag != FREE && (s.Tag == 0 || s.Tag >= numTags) {
				return fmt.Sprintf("slot %p has an out-of-range tag %v", s, s.Tag)
			}
		}
	}
	return ""
}

// checkTriColorSoundness is spec §8 property 2: no black object points
// directly at a white one. It only makes sense to check this outside an
// active mark phase, once the gray list has fully drained and every
// reachable edge has therefore been re-examined by the barriers.
func (rt *Runtime) checkTriColorSoundness() string {
	if rt.phase == PhaseMark && rt.grayList != nil {
		return "" // a drain is in flight; black->white edges are expected transiently
	}
	var violation string
	for p := rt.heap.pages; p != nil && violation == ""; p = p.next {
		for i := range p.slots {
			s := &p.slots[i].Header
			if s.Tag == FREE || s.Color != ColorBlack {
				continue
			}
			rt.dispatch.Walk(s, func(child *Header) {
				if violation != "" || child == nil {
					return
				}
				if child.Color == ColorBlack || child.Color == ColorGray || child.Color == ColorRed {
					return
				}
				violation = fmt.Sprintf("black slot %p references white slot %p directly", s, child)
			})
		}
	}
	return violation
}
