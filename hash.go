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
	"unsafe"

	"github.com/lumirt/lumi/internal/gc"
	"github.com/lumirt/lumi/internal/swiss"
)

// keyBytes returns the byte representation of v's identity used as key
// material in the swisstable index: (kind, bits, object address). The
// object address is stable for as long as the object is reachable
// because this collector never compacts (an explicit non-goal, spec.md
// §1), so using it as key material here is safe.
func keyBytes(v Value) []byte {
	var buf [24]byte
	buf[0] = byte(v.kind)
	bits := v.bits
	for i := 0; i < 8; i++ {
		buf[1+i] = byte(bits)
		bits >>= 8
	}
	addr := uint64(uintptr(unsafe.Pointer(v.obj)))
	for i := 0; i < 8; i++ {
		buf[9+i] = byte(addr)
		addr >>= 8
	}
	return buf[:]
}

// Hash is the Hash kind. Unlike an Object's ivar table, a Hash is
// expected to hold arbitrarily many entries and is on the hot path of
// typical workloads, so its bucket index is the internal/swiss
// open-addressing table rather than a plain Go map: the entries
// themselves live in an ordinary (Go-GC-scanned) slice, and the swiss
// table only accelerates "does this key already have a slot" lookups by
// mapping a key's byte identity to that slice's index.
type Hash struct {
	object
	entries []hashEntry
	index   *swiss.Table[int32, int32]
}

type hashEntry struct {
	key     Value
	val     Value
	deleted bool
}

// NewHash allocates an empty Hash.
func (rt *Runtime) NewHash(class *gc.Header) (*Hash, error) {
	hdr, err := rt.gc.Alloc(gc.TagHash, class)
	if err != nil {
		return nil, err
	}
	h := &Hash{object: object{header: hdr}}
	_, h.index = swiss.New[int32, int32](nil, h.extract)
	gc.SlotOf(hdr).Data = h
	return h, nil
}

func (h *Hash) extract(idx int32) []byte { return keyBytes(h.entries[idx].key) }

// Len reports the number of live (non-deleted) entries.
func (h *Hash) Len() int {
	n := 0
	for _, e := range h.entries {
		if !e.deleted {
			n++
		}
	}
	return n
}

// Get looks up key.
func (h *Hash) Get(key Value) (Value, bool) {
	if h.index == nil {
		return Nil, false
	}
	p := h.index.LookupFunc(keyBytes(key), h.extract)
	if p == nil {
		return Nil, false
	}
	e := h.entries[*p]
	if e.deleted {
		return Nil, false
	}
	return e.val, true
}

// HashSet inserts or overwrites key -> value, running the object write
// barrier on the hash as a whole (spec.md §4.8).
func (rt *Runtime) HashSet(h *Hash, key, value Value) {
	if p := h.index.LookupFunc(keyBytes(key), h.extract); p != nil {
		h.entries[*p].val = value
		h.entries[*p].deleted = false
		rt.gc.ObjectWrite(h.header)
		return
	}

	idx := int32(len(h.entries))
	h.entries = append(h.entries, hashEntry{key: key, val: value})

	for attempts := 0; attempts < 8; attempts++ {
		if p := h.index.Insert(idx, h.extract); p != nil {
			*p = idx
			rt.gc.ObjectWrite(h.header)
			return
		}
		h.growIndex()
	}
	panic("lumi: hash index failed to grow enough to insert a new key")
}

// Delete tombstones key, if present.
func (h *Hash) Delete(key Value) {
	p := h.index.LookupFunc(keyBytes(key), h.extract)
	if p == nil {
		return
	}
	h.entries[*p].deleted = true
}

func (h *Hash) growIndex() {
	entries := make([]swiss.Entry[int32, int32], 0, len(h.entries))
	for i, e := range h.entries {
		if !e.deleted {
			entries = append(entries, swiss.KV(int32(i), int32(i)))
		}
	}
	_, h.index = swiss.New[int32, int32](nil, h.extract, entries...)
}

func walkHash(payload any, mark func(*gc.Header)) int {
	h := payload.(*Hash)
	children := 0
	for _, e := range h.entries {
		if e.deleted {
			continue
		}
		markValue(mark, e.key)
		markValue(mark, e.val)
		children += 2
	}
	return children
}

func destroyHash(payload any, end bool) {
	h := payload.(*Hash)
	h.entries = nil
	h.index = nil
}
