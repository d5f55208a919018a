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

// page is a fixed array of slots plus the bookkeeping the allocator and
// sweeper need (spec §3 "Page"). All slots in a page are the same size
// because Slot is a uniform struct; nothing here depends on which kinds
// the slots end up holding.
type page struct {
	slots []Slot

	free     *Header // head of the free-list within this page
	next     *page    // links every page, in heaps order
	freeNext *page    // links only pages with free slots, in free_heaps order
	old      bool     // minor-GC "no young objects here" marker
}

// newPage allocates a page of n slots, threads them all onto its free-list
// last-to-first (so the first allocation out of a fresh page is slot 0),
// and returns it. The page is not yet linked into any list; callers (the
// [heap]) do that.
func newPage(n int) *page {
	p := &page{slots: make([]Slot, n)}
	for i := n - 1; i >= 0; i-- {
		s := &p.slots[i]
		s.Tag = FREE
		s.Color = ColorWhiteA
		s.Class = nil
		s.Data = nil
		s.next = p.free
		p.free = &s.Header
	}
	return p
}
