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

// Continuation is the value an each_object callback returns to tell the
// traversal whether to keep going (spec §6 "each_object contract").
type Continuation uint8

const (
	Continue Continuation = iota
	Break
)

// EachObject implements the host-facing each_object(callback, userdata)
// operation (spec §6). It forces a full GC first, so every slot the walk
// visits reflects a settled collection rather than a cycle in progress,
// then visits every slot of every page in heaps order -- including FREE
// slots, which callers must filter out themselves, per the contract.
//
// iterating is set for the entire walk and cleared on every exit path --
// fn returning Break, the heap being exhausted, or fn panicking -- via
// defer, matching spec §5's "scoped acquisition with guaranteed release"
// suspension-point rule. While iterating is set, SetGenerational refuses
// to toggle the generational overlay.
func (rt *Runtime) EachObject(fn func(obj *Header) Continuation) {
	rt.FullGC()

	rt.iterating = true
	defer func() { rt.iterating = false }()

	for p := rt.heap.pages; p != nil; p = p.next {
		for i := range p.slots {
			if fn(&p.slots[i].Header) == Break {
				return
			}
		}
	}
}
