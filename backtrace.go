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

import (
	"github.com/google/uuid"

	"github.com/lumirt/lumi/internal/gc"
)

// Location is one backtrace frame: a source position tagged with the
// fiber it ran on, so host tooling can correlate a captured backtrace
// with a specific fiber's own GC/trace log lines.
type Location struct {
	File   string
	Line   int
	Method Symbol
	FiberID uuid.UUID
}

// Backtrace is the Backtrace kind: a captured call-stack snapshot with
// no live object references of its own beyond its class (spec.md §4.9
// "backtrace location arrays"; the MRB_TT_BACKTRACE destructor case,
// per SPEC_FULL.md §13, is its own terminal case rather than an implicit
// fallthrough).
type Backtrace struct {
	object
	Locations []Location
}

// NewBacktrace allocates a Backtrace.
func (rt *Runtime) NewBacktrace(class *gc.Header, locs []Location) (*Backtrace, error) {
	hdr, err := rt.gc.Alloc(gc.TagBacktrace, class)
	if err != nil {
		return nil, err
	}
	b := &Backtrace{object: object{header: hdr}, Locations: locs}
	gc.SlotOf(hdr).Data = b
	return b, nil
}

func walkBacktrace(payload any, mark func(*gc.Header)) int { return 0 }

// destroyBacktrace is its own terminal case (SPEC_FULL.md §13): a
// Backtrace owns no heap references, only a plain location array, so
// there is nothing to release beyond letting Go's own GC reclaim it.
func destroyBacktrace(payload any, end bool) {
	b := payload.(*Backtrace)
	b.Locations = nil
}
