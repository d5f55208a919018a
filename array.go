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

package lumi

import "github.com/lumirt/lumi/internal/gc"

// Array is the Array kind (spec.md §4.5 "Array/Struct: every element").
type Array struct {
	object
	elems []Value
}

// NewArray allocates an empty Array.
func (rt *Runtime) NewArray(class *gc.Header, capacity int) (*Array, error) {
	hdr, err := rt.gc.Alloc(gc.TagArray, class)
	if err != nil {
		return nil, err
	}
	a := &Array{object: object{header: hdr}, elems: make([]Value, 0, capacity)}
	gc.SlotOf(hdr).Data = a
	return a, nil
}

// Len reports the element count.
func (a *Array) Len() int { return len(a.elems) }

// At returns the element at i.
func (a *Array) At(i int) Value { return a.elems[i] }

// ArrayPush appends value, running the (cheaper, per-container) object write
// barrier rather than a per-field one, since a growing array mutates the
// whole backing store rather than one named field (spec.md §4.8).
func (rt *Runtime) ArrayPush(a *Array, value Value) {
	a.elems = append(a.elems, value)
	rt.gc.ObjectWrite(a.header)
}

// ArraySet stores value at index i, overwriting whatever was there.
func (rt *Runtime) ArraySet(a *Array, i int, value Value) {
	a.elems[i] = value
	rt.gc.ObjectWrite(a.header)
}

func walkArray(payload any, mark func(*gc.Header)) int {
	a := payload.(*Array)
	for _, v := range a.elems {
		markValue(mark, v)
	}
	return len(a.elems)
}

func destroyArray(payload any, end bool) {
	a := payload.(*Array)
	a.elems = nil
}
