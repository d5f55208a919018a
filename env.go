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

// Env is a closed-over lexical environment: a captured slice of stack
// slots a Proc's upvalues reach into (spec.md §4.5 "Environment: every
// stack slot up to env_len").
type Env struct {
	object
	Stack  []Value
	OnVM   bool // true while still backed by a live VM call frame's stack
}

// NewEnv allocates an Env of the given length.
func (rt *Runtime) NewEnv(length int) (*Env, error) {
	hdr, err := rt.gc.Alloc(gc.TagEnvironment, nil)
	if err != nil {
		return nil, err
	}
	e := &Env{object: object{header: hdr}, Stack: make([]Value, length)}
	gc.SlotOf(hdr).Data = e
	return e, nil
}

func walkEnv(payload any, mark func(*gc.Header)) int {
	e := payload.(*Env)
	for _, v := range e.Stack {
		markValue(mark, v)
	}
	return len(e.Stack)
}

func destroyEnv(payload any, end bool) {
	e := payload.(*Env)
	if !e.OnVM {
		e.Stack = nil
	}
}
