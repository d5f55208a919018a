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

package gc

// registry is the root registry (component C3): objects registered here
// stay alive until explicitly unregistered, independent of the arena or
// any other reachability.
//
// mruby represents this as a hidden array object reachable from a
// well-known global symbol, so that the same marking code that walks an
// ordinary Array also walks the registry, and so that it is invisible to
// the hosted language's own object-enumeration builtin. This Go port has
// no such builtin to hide from (the hosted object-type dispatch is out of
// scope, per spec §1), so the registry is simply a root the marker walks
// directly rather than a disguised heap object.
type registry struct {
	members []*Header
}

// Register pins obj until a matching Unregister. Immediates (obj == nil,
// the Go-level stand-in for an immediate value reaching the GC boundary)
// are ignored.
func (rt *Runtime) Register(obj *Header) {
	if obj == nil {
		return
	}
	mark := rt.arena.Save()
	_ = rt.arena.Protect(obj)
	rt.registry.members = append(rt.registry.members, obj)
	rt.arena.Restore(mark)
}

// Unregister removes the first matching pointer via an in-place shift,
// mirroring spec §4.3. Registering the same object N times and
// unregistering it N times leaves the registry exactly as it was (spec §8
// property 5): each Unregister only ever removes one occurrence.
func (rt *Runtime) Unregister(obj *Header) {
	if obj == nil {
		return
	}
	m := rt.registry.members
	for i, v := range m {
		if v == obj {
			copy(m[i:], m[i+1:])
			rt.registry.members = m[:len(m)-1]
			return
		}
	}
}

func (r *registry) each(f func(*Header)) {
	for _, obj := range r.members {
		f(obj)
	}
}
