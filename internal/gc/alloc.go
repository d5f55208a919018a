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

// Alloc implements the allocation path of spec §4.4, in the order the
// spec gives it: validate the class/tag pair; take an incremental step if
// over threshold; make sure the arena has room *before* a slot is
// consumed (so an arena-overflow raise never has to unwind a popped
// slot); pop a free slot, adding a page if none has room; then paint,
// class-tag, and protect the new object.
func (rt *Runtime) Alloc(tag Tag, class *Header) (*Header, error) {
	if class != nil && !IsClassLike(class.Tag) {
		return nil, wrapf(ErrTypeMismatch, "class pointer has non-class tag %v", class.Tag)
	}

	if !rt.disabled {
		switch {
		case rt.cfg.Stress:
			rt.FullGC()
		case rt.stats.live.Load() > rt.threshold:
			rt.Step()
		}
	}

	if err := rt.arena.headroomCheck(); err != nil {
		return nil, err
	}

	obj := rt.heap.allocSlot()
	obj.Tag = tag
	obj.Color = rt.currentWhite
	obj.Class = class
	obj.next = nil
	SlotOf(obj).Data = nil // the caller fills this in once it has a payload to attach

	_ = rt.arena.Protect(obj) // headroomCheck above guarantees this cannot overflow

	rt.stats.live.Add(1)
	dbg.Log([]any{"%p", rt}, "alloc", "%v slot=%p class=%p", tag, obj, class)
	return obj, nil
}
