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
	"github.com/lumirt/lumi/internal/arena"
	"github.com/lumirt/lumi/internal/gc"
)

// Str is the String kind. Its byte payload lives on a pointer-free
// internal/arena.Arena rather than a plain Go []byte: string bytes never
// hold a pointer the collector or Go's own runtime needs to trace, which
// is exactly the shape internal/arena is built for, and it lets a
// runtime with many short-lived strings amortize allocator traffic the
// way the teacher pack's own string-heavy workloads do.
type Str struct {
	object
	bytes arena.Slice[byte]
}

// NewStr allocates a String holding a copy of s.
func (rt *Runtime) NewStr(class *gc.Header, s string) (*Str, error) {
	hdr, err := rt.gc.Alloc(gc.TagString, class)
	if err != nil {
		return nil, err
	}
	str := &Str{object: object{header: hdr}}
	str.bytes = arena.SliceOf(&rt.strArena, []byte(s)...)
	gc.SlotOf(hdr).Data = str
	return str, nil
}

// String returns a copy of the string's contents.
func (s *Str) String() string { return string(s.bytes.Raw()) }

// Len reports the byte length.
func (s *Str) Len() int { return s.bytes.Len() }

// StrAppend appends more bytes to s in place.
func (rt *Runtime) StrAppend(s *Str, more string) {
	s.bytes = s.bytes.Append(&rt.strArena, []byte(more)...)
}

func walkStr(payload any, mark func(*gc.Header)) int { return 0 }

func destroyStr(payload any, end bool) {}
