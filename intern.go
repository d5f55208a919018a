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

import "github.com/lumirt/lumi/internal/swiss"

// Symbol is an interned name: a method name, an ivar name, a constant
// name. Symbols compare by identity (their id), not by string content,
// which is what lets a Hash or ivar table key on them cheaply.
type Symbol uint32

// symbolTable interns strings into Symbols, backed by the same
// open-addressing swisstable the Hash kind uses for its own buckets
// (internal/swiss): the table maps an already-appended name's index to
// itself, using the name slice as the out-of-line key material the
// table's extract hook reads. Rebuilt (not patched in place) whenever an
// insert reports the soft cap has been reached, same as the teacher's
// own swiss.New/Table.Insert contract expects callers to handle growth.
type symbolTable struct {
	names []string
	tbl   *swiss.Table[int32, int32]
}

func newSymbolTable() *symbolTable {
	st := &symbolTable{}
	_, st.tbl = swiss.New[int32, int32](nil, st.extract)
	return st
}

func (st *symbolTable) extract(k int32) []byte { return []byte(st.names[k]) }

// Intern returns the Symbol for name, interning it if this is the first
// occurrence.
func (st *symbolTable) Intern(name string) Symbol {
	if p := st.tbl.LookupFunc([]byte(name), st.extract); p != nil {
		return Symbol(*p)
	}

	idx := int32(len(st.names))
	st.names = append(st.names, name)

	for attempts := 0; attempts < 8; attempts++ {
		if p := st.tbl.Insert(idx, st.extract); p != nil {
			*p = idx
			return Symbol(idx)
		}
		st.grow()
	}
	panic("lumi: symbol table failed to grow enough to insert a new symbol")
}

// Name returns the string a previously interned Symbol stands for.
func (st *symbolTable) Name(s Symbol) string { return st.names[s] }

// grow rebuilds the swiss table from every name in st.names, including
// the newly-appended one at st.names[len-1], so the rebuilt table is sized
// for one more entry than the table that just filled up; the caller's
// retried Insert then finds that name already present.
func (st *symbolTable) grow() {
	entries := make([]swiss.Entry[int32, int32], 0, len(st.names))
	for i := 0; i < len(st.names); i++ {
		entries = append(entries, swiss.KV(int32(i), int32(i)))
	}
	_, st.tbl = swiss.New[int32, int32](nil, st.extract, entries...)
}
