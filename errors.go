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

// preallocated holds the three red (immortal) exception singletons spec.md
// §7 requires: constructed once at New and never reallocated, so raising
// one never itself needs to allocate.
type preallocated struct {
	outOfMemory    *Exception
	stackOverflow  *Exception
	arenaOverflow  *Exception
}

func newPreallocated(rt *Runtime) *preallocated {
	mk := func(class *gc.Header, msg string) *Exception {
		obj, err := rt.gc.Alloc(gc.TagException, class)
		if err != nil {
			panic("lumi: out of memory constructing pre-allocated exceptions during Init")
		}
		obj.Color = gc.ColorRed
		exc := &Exception{object: object{header: obj}, Message: msg}
		gc.SlotOf(obj).Data = exc
		return exc
	}
	return &preallocated{
		outOfMemory:   mk(nil, "out of memory"),
		stackOverflow: mk(nil, "stack overflow"),
		arenaOverflow: mk(nil, "arena overflow"),
	}
}

// clear strips the instance variables and the backtrace off every
// pre-allocated exception; Message is a plain Go string that references
// no managed object and is kept. Installed as gc.Roots.ClearPreallocated
// so final marking runs it once per cycle, per spec.md §4.7.
func (p *preallocated) clear() {
	p.outOfMemory.ivars = nil
	p.outOfMemory.Backtrace = nil
	p.stackOverflow.ivars = nil
	p.stackOverflow.Backtrace = nil
	p.arenaOverflow.ivars = nil
	p.arenaOverflow.Backtrace = nil
}
