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

// Package kind is the object-type dispatch table internal/gc's marker and
// sweeper call out to through [gc.Dispatch]. It knows nothing about the
// collector's own invariants; its only job is, for a given [gc.Tag], how
// to enumerate a payload's children and how to release its resources.
//
// internal/gc cannot import this package (it would have to know about
// every concrete kind), and this package imports internal/gc for
// [gc.Header]/[gc.Tag]/[gc.Dispatch] — the dependency runs one way, which
// is what lets the lumi package wire a [Table] into a [gc.Runtime]
// without an import cycle.
package kind

import "github.com/lumirt/lumi/internal/gc"

// Walker enumerates a payload's children, invoking mark once per
// reachable child header, and returns how many it scheduled.
type Walker func(payload any, mark func(*gc.Header)) int

// Destroyer releases a payload's kind-specific resources. end mirrors
// [gc.Dispatch.Destroy]'s end flag.
type Destroyer func(payload any, end bool)

// Descriptor is everything the dispatch table needs for one [gc.Tag].
type Descriptor struct {
	Walk    Walker
	Destroy Destroyer
}

// Table is a [gc.Dispatch] built from per-tag descriptors. The zero Table
// is usable; every unregistered tag walks to zero children and destroys
// as a no-op, matching a kind added to [gc.Tag] before its lumi-side
// support lands.
type Table struct {
	byTag []Descriptor
}

// NewTable constructs an empty dispatch table sized for every tag
// internal/gc currently knows about.
func NewTable() *Table {
	return &Table{byTag: make([]Descriptor, gc.NumTags())}
}

// Register installs the descriptor for tag, replacing any previous one.
func (t *Table) Register(tag gc.Tag, d Descriptor) {
	if int(tag) >= len(t.byTag) {
		grown := make([]Descriptor, int(tag)+1)
		copy(grown, t.byTag)
		t.byTag = grown
	}
	t.byTag[tag] = d
}

// Walk implements [gc.Dispatch].
func (t *Table) Walk(obj *gc.Header, mark func(*gc.Header)) int {
	d := t.descriptorFor(obj.Tag)
	if d.Walk == nil {
		return 0
	}
	return d.Walk(gc.SlotOf(obj).Data, mark)
}

// Destroy implements [gc.Dispatch].
func (t *Table) Destroy(obj *gc.Header, end bool) {
	d := t.descriptorFor(obj.Tag)
	if d.Destroy != nil {
		d.Destroy(gc.SlotOf(obj).Data, end)
	}
}

func (t *Table) descriptorFor(tag gc.Tag) Descriptor {
	if int(tag) >= len(t.byTag) {
		return Descriptor{}
	}
	return t.byTag[tag]
}
