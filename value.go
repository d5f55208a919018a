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
	"math"

	"github.com/lumirt/lumi/internal/gc"
)

// Kind is a Value's immediate discriminant. A Value of any kind other
// than KindObject never reaches the collector: it carries its whole
// payload inline and needs no Header.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindSymbol
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	default:
		return "invalid-kind"
	}
}

// Value is the runtime's tagged value. Every kind but KindObject is an
// immediate: it never needs arena protection, a root-registry entry, or
// a pass through the marker, because it holds no pointer the collector
// cares about. This is the Go-native stand-in for the "immediate value"
// half of the data model spec.md's §1 scope note carves out as external
// to the collector.
type Value struct {
	kind Kind
	bits uint64
	obj  *gc.Header
}

// Nil is the nil value.
var Nil = Value{kind: KindNil}

// Bool constructs a boolean immediate.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.bits = 1
	}
	return v
}

// Int constructs an integer immediate.
func Int(n int64) Value { return Value{kind: KindInt, bits: uint64(n)} }

// Float constructs a floating-point immediate.
func Float(f float64) Value { return Value{kind: KindFloat, bits: math.Float64bits(f)} }

// SymbolValue constructs a symbol immediate from an interned Symbol id.
func SymbolValue(s Symbol) Value { return Value{kind: KindSymbol, bits: uint64(s)} }

// Of wraps a heap object header as a Value. Of(nil) is distinct from Nil
// only in that it still reports KindObject; callers should normally
// prefer Nil for "no object".
func Of(obj *gc.Header) Value { return Value{kind: KindObject, obj: obj} }

// Kind reports v's discriminant.
func (v Value) Kind() Kind { return v.kind }

// IsHeapObject reports whether v carries a *gc.Header the collector must
// trace through.
func (v Value) IsHeapObject() bool { return v.kind == KindObject }

// Header returns v's object header, or nil if v is not a heap object.
func (v Value) Header() *gc.Header {
	if v.kind != KindObject {
		return nil
	}
	return v.obj
}

// IsFree reports whether v wraps a slot currently sitting on a page's
// free-list rather than a live object. EachObject's contract (spec.md §6)
// walks every slot including free ones, leaving the filtering to the
// caller; this is that filter.
func (v Value) IsFree() bool {
	return v.kind == KindObject && v.obj != nil && v.obj.Tag == gc.FREE
}

// Bool returns v's boolean payload. Only meaningful when Kind() == KindBool.
func (v Value) Bool() bool { return v.bits != 0 }

// Int returns v's integer payload. Only meaningful when Kind() == KindInt.
func (v Value) Int() int64 { return int64(v.bits) }

// Float returns v's float payload. Only meaningful when Kind() == KindFloat.
func (v Value) Float() float64 { return math.Float64frombits(v.bits) }

// Symbol returns v's symbol payload. Only meaningful when Kind() == KindSymbol.
func (v Value) Symbol() Symbol { return Symbol(v.bits) }

// Truthy implements the host language's truthiness rule: everything but
// nil and false is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.bits != 0
	default:
		return true
	}
}

// markValue is the Value-aware child marker every kind's Walker uses: it
// is a no-op for immediates and otherwise forwards to mark.
func markValue(mark func(*gc.Header), v Value) {
	if v.kind == KindObject {
		mark(v.obj)
	}
}
