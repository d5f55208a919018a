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

import "github.com/pkg/errors"

// ErrArenaOverflow is returned by [Arena.Protect] on a fixed-capacity arena
// when pushing would exceed its capacity. It is a package-level sentinel
// created once at package initialization, so raising it never allocates
// (spec §7).
var ErrArenaOverflow = errors.New("lumi: arena overflow")

// arenaOverflowHeadroom is the number of free slots a fixed arena always
// keeps in reserve before it actually reports overflow, so that the unwind
// triggered by ErrArenaOverflow can itself still protect a handful of
// temporaries (spec §7, carried from original_source/src/gc.c).
const arenaOverflowHeadroom = 4

// Arena is the bounded stack of temporary object roots described in spec
// §3/§4.2 (component C2). It is scanned in full at the start of every mark
// phase, which is what keeps a freshly-allocated object alive across a
// host call before the embedder has stored it anywhere else.
//
// This is unrelated to (and not backed by) the internal/arena package,
// which is a pointer-free bump allocator used elsewhere for raw byte
// storage; the name collision is unfortunate but matches the spec's own
// terminology for this root stack.
type Arena struct {
	stack    []*Header
	growable bool
	cap      int // only meaningful when !growable
}

// NewArena constructs an Arena. If growable is false, it never exceeds
// cap entries and Protect returns ErrArenaOverflow instead of growing past
// it; if true, it grows by 1.5x on overflow (spec §4.2, "implementer
// choice").
func NewArena(cap int, growable bool) *Arena {
	return &Arena{
		stack:    make([]*Header, 0, cap),
		growable: growable,
		cap:      cap,
	}
}

// Protect pushes obj onto the arena. It is a no-op for nil (the immediate/
// non-heap-value case) and for red objects, which are immortal and never
// need protecting (spec §4.2, invariant 7).
func (a *Arena) Protect(obj *Header) error {
	if obj == nil || obj.Color == ColorRed {
		return nil
	}
	if !a.growable && len(a.stack) >= a.cap-arenaOverflowHeadroom {
		return ErrArenaOverflow
	}
	if a.growable && len(a.stack) == cap(a.stack) {
		newCap := max(4, cap(a.stack)*3/2)
		grown := make([]*Header, len(a.stack), newCap)
		copy(grown, a.stack)
		a.stack = grown
	}
	a.stack = append(a.stack, obj)
	return nil
}

// headroomCheck is the "ensure the arena has room" half of spec §4.4 step
// 3, split out of Protect so Alloc can run it *before* popping a slot:
// that way a fixed-arena overflow never has to put a popped slot back.
func (a *Arena) headroomCheck() error {
	if !a.growable && len(a.stack) >= a.cap-arenaOverflowHeadroom {
		return ErrArenaOverflow
	}
	if a.growable && len(a.stack) == cap(a.stack) {
		newCap := max(4, cap(a.stack)*3/2)
		grown := make([]*Header, len(a.stack), newCap)
		copy(grown, a.stack)
		a.stack = grown
	}
	return nil
}

// Save returns a checkpoint usable with [Arena.Restore].
func (a *Arena) Save() int { return len(a.stack) }

// Restore truncates the arena back to a checkpoint returned by Save,
// releasing everything protected since then. Any object that was only kept
// alive by that window and is not otherwise rooted becomes collectable
// (spec §8 property 4).
func (a *Arena) Restore(mark int) {
	for i := mark; i < len(a.stack); i++ {
		a.stack[i] = nil
	}
	a.stack = a.stack[:mark]
}

// Len reports how many entries are currently protected.
func (a *Arena) Len() int { return len(a.stack) }

// each calls f for every protected object, in push order. Used by the
// marker's root scan.
func (a *Arena) each(f func(*Header)) {
	for _, obj := range a.stack {
		f(obj)
	}
}
