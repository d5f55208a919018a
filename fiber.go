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

// execContext is this runtime's implementation of gc.Context: one VM
// call chain, walked by the marker as a root when it is the current or
// root context, and by a Fiber's own Walk when it owns one.
type execContext struct {
	terminated bool
	stack      []*gc.Header
	frames     []gc.Frame
	fiber      *gc.Header
	prev       *execContext
}

func (c *execContext) Terminated() bool   { return c.terminated }
func (c *execContext) Stack() []*gc.Header { return c.stack }
func (c *execContext) Frames() []gc.Frame { return c.frames }
func (c *execContext) Fiber() *gc.Header  { return c.fiber }
func (c *execContext) Prev() gc.Context {
	if c.prev == nil {
		return nil
	}
	return c.prev
}

// Fiber is a cooperative, stackful coroutine (spec.md §4.5 "Fiber: the
// owned context, using the same context walk as roots; additionally
// accounts for stack and call-stack sizes in the returned child count").
type Fiber struct {
	object
	ID      uuid.UUID // stable identity for correlating GC traces with a fiber across log lines
	Context *execContext
}

// NewFiber allocates a Fiber with a fresh context.
func (rt *Runtime) NewFiber(class *gc.Header) (*Fiber, error) {
	hdr, err := rt.gc.Alloc(gc.TagFiber, class)
	if err != nil {
		return nil, err
	}
	f := &Fiber{object: object{header: hdr}, ID: uuid.New(), Context: &execContext{}}
	f.Context.fiber = hdr
	gc.SlotOf(hdr).Data = f
	return f, nil
}

func walkFiber(payload any, mark func(*gc.Header)) int {
	f := payload.(*Fiber)
	if f.Context == nil {
		return 0
	}
	return gc.ContextChildren(f.Context, mark)
}

func destroyFiber(payload any, end bool) {
	f := payload.(*Fiber)
	f.Context = nil
}
