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

// heap is the page allocator (component C1): the ordered set of pages and
// the filtered list of pages that currently have free slots.
type heap struct {
	pages     *page // all pages
	freePages *page // only pages with a non-empty free-list

	pageSize int // slots per page (HeapPageSize)
	npages   int

	sweepCursor *page // where an in-progress sweep pass resumes
	sweepIndex  int   // next unswept slot index within sweepCursor
}

func newHeap(pageSize int) *heap {
	return &heap{pageSize: pageSize}
}

// addPage carves a fresh page and prepends it to both lists, per spec §4.1.
func (h *heap) addPage() *page {
	p := newPage(h.pageSize)
	p.next = h.pages
	h.pages = p
	p.freeNext = h.freePages
	h.freePages = p
	h.npages++
	return p
}

// allocSlot pops the head of the first page with a free slot, adding a page
// if none has room. It never returns nil.
func (h *heap) allocSlot() *Header {
	if h.freePages == nil {
		h.addPage()
	}
	p := h.freePages
	s := p.free
	p.free = s.next
	s.next = nil
	if p.free == nil {
		h.freePages = p.freeNext
		p.freeNext = nil
	}
	return s
}

// freeSlot pushes a dead slot back onto its originating page's free-list.
// The sweeper calls this; it does not itself relink the page onto
// h.freePages (spec §4.1: free_heaps is rebuilt from scratch after a full
// sweep pass rather than patched per slot).
func (p *page) freeSlot(s *Header) {
	SlotOf(s).Data = nil // drop the kind payload so Go's own GC can reclaim it promptly
	s.Tag = FREE
	s.Color = ColorWhiteA
	s.Class = nil
	s.next = p.free
	p.free = s
}

// rebuildFreeList recomputes h.freePages by scanning h.pages, per spec
// §4.6 ("rebuild free_heaps from scratch by scanning heaps").
func (h *heap) rebuildFreeList() {
	h.freePages = nil
	for p := h.pages; p != nil; p = p.next {
		p.freeNext = nil
	}
	for p := h.pages; p != nil; p = p.next {
		if p.free != nil {
			p.freeNext = h.freePages
			h.freePages = p
		}
	}
}

// releaseEmptyPages unlinks and drops every page whose every slot is FREE.
// Called by the sweeper at the end of a pass (spec §4.6).
func (h *heap) releaseEmptyPages() (released int) {
	var kept *page
	var tail *page
	for p := h.pages; p != nil; {
		next := p.next
		if p.allFree() {
			released++
			h.npages--
		} else {
			p.next = nil
			if kept == nil {
				kept = p
			} else {
				tail.next = p
			}
			tail = p
		}
		p = next
	}
	h.pages = kept
	if h.sweepCursor != nil && h.sweepCursor.allFree() {
		h.sweepCursor = nil
		h.sweepIndex = 0
	}
	return released
}

// allFree reports whether every slot in p is on its free-list, i.e. the
// free-list length equals len(slots).
func (p *page) allFree() bool {
	n := 0
	for s := p.free; s != nil; s = s.next {
		n++
	}
	return n == len(p.slots)
}

// liveSlots reports the non-FREE slot count across the whole heap. Used
// only by debug-build invariant checks (spec §8 property 2); production
// code tracks `live` incrementally on [Runtime] instead of recomputing it.
func (h *heap) liveSlots() int {
	n := 0
	for p := h.pages; p != nil; p = p.next {
		for i := range p.slots {
			if p.slots[i].Tag != FREE {
				n++
			}
		}
	}
	return n
}

// freeListConsistent reports whether every page is on freePages iff its
// free-list is non-empty (spec §8 property 3).
func (h *heap) freeListConsistent() bool {
	inFreeList := make(map[*page]bool)
	for p := h.freePages; p != nil; p = p.freeNext {
		inFreeList[p] = true
	}
	for p := h.pages; p != nil; p = p.next {
		hasFree := p.free != nil
		if hasFree != inFreeList[p] {
			return false
		}
	}
	return true
}
