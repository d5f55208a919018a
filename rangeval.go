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

// Range is the Range kind: a (begin, end, exclusive) triple over two
// Values.
type Range struct {
	object
	Begin, End Value
	Exclusive  bool
}

// NewRange allocates a Range.
func (rt *Runtime) NewRange(class *gc.Header, begin, end Value, exclusive bool) (*Range, error) {
	hdr, err := rt.gc.Alloc(gc.TagRange, class)
	if err != nil {
		return nil, err
	}
	r := &Range{object: object{header: hdr}, Begin: begin, End: end, Exclusive: exclusive}
	gc.SlotOf(hdr).Data = r
	return r, nil
}

func walkRange(payload any, mark func(*gc.Header)) int {
	r := payload.(*Range)
	markValue(mark, r.Begin)
	markValue(mark, r.End)
	return 2
}

func destroyRange(payload any, end bool) {}
