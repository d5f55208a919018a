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

// object is the state every kind in this file shares: its own header (so
// a *payload can answer Header() without the caller threading a *gc.Header
// around separately) and its instance-variable table. Using a plain Go
// map here, rather than the internal/swiss table Hash uses, is a
// deliberate choice: ivar tables are usually tiny (a handful of entries)
// and churn their key set at definition time, which the standard map
// handles as well as a specialized open-addressing table would, whereas
// internal/swiss earns its keep on Hash's typically-larger, lookup-heavy
// tables.
type object struct {
	header *gc.Header
	ivars  map[Symbol]Value
}

// Header returns the collector-owned header backing this value.
func (o *object) Header() *gc.Header { return o.header }

// IVar looks up an instance variable by symbol.
func (o *object) IVar(name Symbol) (Value, bool) {
	v, ok := o.ivars[name]
	return v, ok
}

// ivarTable exposes a pointer to o's ivar map so SetIVar can lazily
// allocate it through the IVarHolder interface, regardless of which
// concrete kind embeds object.
func (o *object) ivarTable() *map[Symbol]Value { return &o.ivars }

// IVarHolder is any managed kind with an instance-variable table of its
// own (Object, Class, IncludedClass, Exception, CData, Rational, Set, all
// of which embed object and so already satisfy this through promotion).
type IVarHolder interface {
	Header() *gc.Header
	ivarTable() *map[Symbol]Value
}

// SetIVar sets an instance variable on any IVarHolder, running the field
// write barrier so an in-flight mark phase still discovers value.
func (rt *Runtime) SetIVar(o IVarHolder, name Symbol, value Value) {
	table := o.ivarTable()
	if *table == nil {
		*table = make(map[Symbol]Value, 4)
	}
	(*table)[name] = value
	rt.gc.FieldWrite(o.Header(), value.Header())
}

func walkIVars(mark func(*gc.Header), ivars map[Symbol]Value) (children int) {
	for _, v := range ivars {
		markValue(mark, v)
		children++
	}
	return children
}

// Object is a plain instance (spec.md §3/§4.5 "Object/CDATA": instance
// variables only).
type Object struct {
	object
}

// NewObject allocates a new Object instance of class.
func (rt *Runtime) NewObject(class *gc.Header) (*Object, error) {
	hdr, err := rt.gc.Alloc(gc.TagObject, class)
	if err != nil {
		return nil, err
	}
	obj := &Object{object: object{header: hdr}}
	gc.SlotOf(hdr).Data = obj
	return obj, nil
}

func walkObject(payload any, mark func(*gc.Header)) int {
	return walkIVars(mark, payload.(*Object).ivars)
}

func destroyObject(payload any, end bool) {}

// ClassKind distinguishes the three class-like tags that share the
// Class struct: an ordinary class, a module, or a singleton (metaclass).
type ClassKind uint8

const (
	ClassKindClass ClassKind = iota
	ClassKindModule
	ClassKindSingleton
)

// Class is a class, module, or singleton-class object (spec.md §4.5:
// "method table, then super, then instance variables").
type Class struct {
	object
	Kind       ClassKind
	Name       string
	Super      *gc.Header
	Methods    map[Symbol]*Proc
	IsOrigin   bool // not read by the collector; IncludedClass carries its own IsOrigin
}

// NewClass allocates a class-like object. kind selects which of
// TagClass/TagModule/TagSingletonClass the new object carries.
func (rt *Runtime) NewClass(name string, super *gc.Header, kind ClassKind) (*Class, error) {
	tag := gc.TagClass
	switch kind {
	case ClassKindModule:
		tag = gc.TagModule
	case ClassKindSingleton:
		tag = gc.TagSingletonClass
	}
	hdr, err := rt.gc.Alloc(tag, nil)
	if err != nil {
		return nil, err
	}
	c := &Class{
		object:  object{header: hdr},
		Kind:    kind,
		Name:    name,
		Super:   super,
		Methods: make(map[Symbol]*Proc),
	}
	gc.SlotOf(hdr).Data = c
	rt.gc.FieldWrite(hdr, super)
	return c, nil
}

func walkClass(payload any, mark func(*gc.Header)) int {
	c := payload.(*Class)
	children := 0
	for _, m := range c.Methods {
		if m != nil {
			mark(m.Header())
			children++
		}
	}
	mark(c.Super)
	children++
	children += walkIVars(mark, c.ivars)
	return children
}

func destroyClass(payload any, end bool) {
	c := payload.(*Class)
	if !end {
		c.Methods = nil // cut the cycle-prone method table eagerly, per spec.md §4.9
	}
}

// IncludedClass is the iclass mruby uses to splice a module into an
// ancestry chain (spec.md §4.5: marks its method table only when
// IsOrigin is set, then super).
type IncludedClass struct {
	object
	Origin   *Class
	IsOrigin bool
	Super    *gc.Header
}

// NewIncludedClass allocates an included-class link.
func (rt *Runtime) NewIncludedClass(origin *Class, super *gc.Header, isOrigin bool) (*IncludedClass, error) {
	hdr, err := rt.gc.Alloc(gc.TagIncludedClass, nil)
	if err != nil {
		return nil, err
	}
	ic := &IncludedClass{object: object{header: hdr}, Origin: origin, Super: super, IsOrigin: isOrigin}
	gc.SlotOf(hdr).Data = ic
	rt.gc.FieldWrite(hdr, super)
	return ic, nil
}

func walkIncludedClass(payload any, mark func(*gc.Header)) int {
	ic := payload.(*IncludedClass)
	children := 0
	if ic.IsOrigin && ic.Origin != nil {
		for _, m := range ic.Origin.Methods {
			if m != nil {
				mark(m.Header())
				children++
			}
		}
	}
	mark(ic.Super)
	children++
	return children
}

func destroyIncludedClass(payload any, end bool) {}
