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

// CData wraps a host-native value inside the managed heap (spec.md §4.5
// "Object/CDATA: instance variables", §4.9 "C-data's free hook"). Data is
// opaque to the collector; Free, if set, runs once when the slot dies.
type CData struct {
	object
	Data any
	Free func(any)
}

// NewCData allocates a CData wrapper around data.
func (rt *Runtime) NewCData(class *gc.Header, data any, free func(any)) (*CData, error) {
	hdr, err := rt.gc.Alloc(gc.TagCData, class)
	if err != nil {
		return nil, err
	}
	c := &CData{object: object{header: hdr}, Data: data, Free: free}
	gc.SlotOf(hdr).Data = c
	return c, nil
}

func walkCData(payload any, mark func(*gc.Header)) int {
	return walkIVars(mark, payload.(*CData).ivars)
}

func destroyCData(payload any, end bool) {
	c := payload.(*CData)
	if c.Free != nil {
		c.Free(c.Data)
	}
	c.Data = nil
}

// Rational and Set are delegated optional numeric-tower kinds: spec.md
// treats bignum/rational/complex payload freeing as part of the fixed
// per-type destructor responsibility (§4.9) without specifying their
// arithmetic, so this runtime represents both as a bare payload box with
// no behavior of its own beyond participating in GC, and leaves the
// actual numeric semantics to whatever adapter an embedder layers on top.

// Rational is the Rational kind's payload box.
type Rational struct {
	object
	Num, Den int64
}

// NewRational allocates a Rational.
func (rt *Runtime) NewRational(class *gc.Header, num, den int64) (*Rational, error) {
	hdr, err := rt.gc.Alloc(gc.TagRational, class)
	if err != nil {
		return nil, err
	}
	r := &Rational{object: object{header: hdr}, Num: num, Den: den}
	gc.SlotOf(hdr).Data = r
	return r, nil
}

func walkRational(payload any, mark func(*gc.Header)) int { return 0 }
func destroyRational(payload any, end bool)               {}

// Set is the Set kind's payload box, backed by a plain Go map keyed on
// the same byte identity Hash uses; unlike Hash it is not expected to be
// large enough in typical use to justify internal/swiss's bookkeeping.
type Set struct {
	object
	members map[string]Value
}

// NewSet allocates an empty Set.
func (rt *Runtime) NewSet(class *gc.Header) (*Set, error) {
	hdr, err := rt.gc.Alloc(gc.TagSet, class)
	if err != nil {
		return nil, err
	}
	s := &Set{object: object{header: hdr}, members: make(map[string]Value)}
	gc.SlotOf(hdr).Data = s
	return s, nil
}

// SetAdd inserts value into the set.
func (rt *Runtime) SetAdd(s *Set, value Value) {
	s.members[string(keyBytes(value))] = value
	rt.gc.ObjectWrite(s.header)
}

func walkSet(payload any, mark func(*gc.Header)) int {
	s := payload.(*Set)
	for _, v := range s.members {
		markValue(mark, v)
	}
	return len(s.members)
}

func destroySet(payload any, end bool) {
	payload.(*Set).members = nil
}
