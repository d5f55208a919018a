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

// Proc is a closure: bytecode plus the environment it captured and the
// class it was defined against (spec.md §4.5 "Proc: upper and env").
type Proc struct {
	object
	Upper *gc.Header // enclosing proc, or nil for a top-level block
	Env   *Env
	Code  []byte // owned bytecode; ref-counted conceptually, see destroyProc

	refs int // shared-bytecode reference count (spec.md §4.9)
}

// NewProc allocates a Proc.
func (rt *Runtime) NewProc(class *gc.Header, upper *gc.Header, env *Env, code []byte) (*Proc, error) {
	hdr, err := rt.gc.Alloc(gc.TagProc, class)
	if err != nil {
		return nil, err
	}
	p := &Proc{object: object{header: hdr}, Upper: upper, Env: env, Code: code, refs: 1}
	gc.SlotOf(hdr).Data = p
	rt.gc.FieldWrite(hdr, upper)
	if env != nil {
		rt.gc.FieldWrite(hdr, env.Header())
	}
	return p, nil
}

func walkProc(payload any, mark func(*gc.Header)) int {
	p := payload.(*Proc)
	children := 0
	mark(p.Upper)
	children++
	if p.Env != nil {
		mark(p.Env.Header())
		children++
	}
	return children
}

// destroyProc implements the §4.9 "cut references" end-mode variant: a
// normal per-cycle reclaim decrements the shared bytecode's refcount and
// only frees it at zero, but during final runtime teardown (end==true)
// every proc sharing that bytecode may already be gone, so the count is
// ignored and the reference is simply dropped.
func destroyProc(payload any, end bool) {
	p := payload.(*Proc)
	if end {
		p.Code = nil
		return
	}
	p.refs--
	if p.refs <= 0 {
		p.Code = nil
	}
}
