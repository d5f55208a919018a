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

// sweepStep advances the sweep cursor by up to budget slots (spec §4.6),
// reclaiming dead slots through the embedder's [Dispatch.Destroy] and
// repainting survivors. It reports whether the pass finished (the cursor
// ran off the end of the page list) and how many slots it actually
// visited, which the scheduler charges against the step budget.
func (rt *Runtime) sweepStep(budget int) (done bool, visited int) {
	h := rt.heap
	if h.sweepCursor == nil {
		h.sweepCursor = h.pages
		h.sweepIndex = 0
		if h.sweepCursor == nil {
			return true, 0
		}
	}

	for visited < budget {
		p := h.sweepCursor
		if p == nil {
			break
		}

		// Minor collections never touch a page the last major pass found
		// entirely free of young garbage (spec §4.3's old-page skip); the
		// whole page is charged as a single unit of work.
		if rt.generational && !rt.full && p.old {
			h.sweepCursor = p.next
			h.sweepIndex = 0
			visited++
			continue
		}

		if h.sweepIndex >= len(p.slots) {
			if rt.generational && rt.full {
				p.old = true
			}
			h.sweepCursor = p.next
			h.sweepIndex = 0
			continue
		}

		s := &p.slots[h.sweepIndex].Header
		h.sweepIndex++
		visited++

		switch {
		case s.Tag == FREE:
			// already reclaimed in a prior pass; nothing to do.
		case s.Color == ColorRed:
			// immortal, never swept.
		case s.Color == otherWhite(rt.currentWhite):
			rt.dispatch.Destroy(s, false /* end */)
			p.freeSlot(s)
			rt.stats.live.Add(-1)
			rt.stats.freed.Add(1)
			dbg.Log([]any{"%p", rt}, "sweep", "reclaim slot=%p", s)
		default:
			if rt.generational {
				// Generational mode leaves black objects black across
				// cycles (they are this generation's "old" survivors);
				// only repaint a lingering gray back to a solid color.
				if s.Color == ColorGray {
					s.Color = ColorBlack
				}
			} else {
				s.Color = rt.currentWhite
			}
		}
	}

	if h.sweepCursor == nil {
		h.releaseEmptyPages()
		h.rebuildFreeList()
		return true, visited
	}
	return false, visited
}
