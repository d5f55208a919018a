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

package lumi_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumirt/lumi"
)

func newRuntime(t *testing.T, opts ...lumi.Option) *lumi.Runtime {
	t.Helper()
	rt := lumi.New(append([]lumi.Option{lumi.WithArena(4096, true)}, opts...)...)
	t.Cleanup(rt.Destroy)
	return rt
}

func TestInternRoundTrips(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	a := rt.Intern("foo")
	b := rt.Intern("foo")
	c := rt.Intern("bar")

	require.Equal(t, a, b, "interning the same name twice must return the same Symbol")
	require.NotEqual(t, a, c)
	require.Equal(t, "foo", rt.SymbolName(a))
	require.Equal(t, "bar", rt.SymbolName(c))
}

func TestInternManyNames(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	seen := make(map[lumi.Symbol]string)
	for i := 0; i < 2000; i++ {
		name := "sym" + strings.Repeat("x", i%17) + string(rune('a'+i%26))
		s := rt.Intern(name)
		if prior, ok := seen[s]; ok {
			require.Equal(t, prior, name, "a growing symbol table must never reassign an existing Symbol's name")
		} else {
			seen[s] = name
		}
		require.Equal(t, name, rt.SymbolName(s))
	}
}

func TestObjectIVarsSurviveFullGC(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	root, err := rt.NewObject(nil)
	require.NoError(t, err)
	rt.Register(lumi.Of(root.Header()))
	defer rt.Unregister(lumi.Of(root.Header()))

	child, err := rt.NewObject(nil)
	require.NoError(t, err)

	name := rt.Intern("@child")
	rt.SetIVar(root, name, lumi.Of(child.Header()))

	rt.FullGC()

	v, ok := root.IVar(name)
	require.True(t, ok)
	require.Equal(t, child.Header(), v.Header())
	require.Empty(t, rt.CheckInvariants())
}

func TestUnreachableObjectIsReclaimed(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	kept, err := rt.NewObject(nil)
	require.NoError(t, err)
	rt.Register(lumi.Of(kept.Header()))
	defer rt.Unregister(lumi.Of(kept.Header()))

	mark := rt.ArenaSave()
	_, err = rt.NewObject(nil) // unreachable once the arena entry is restored away
	require.NoError(t, err)
	rt.ArenaRestore(mark)

	before := rt.Stats().Live
	rt.FullGC()
	after := rt.Stats().Live

	require.Less(t, after, before)
	require.GreaterOrEqual(t, after, int64(1))
}

func TestArrayPushRetainsElementsAcrossGC(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	arr, err := rt.NewArray(nil, 0)
	require.NoError(t, err)
	rt.Register(lumi.Of(arr.Header()))
	defer rt.Unregister(lumi.Of(arr.Header()))

	const n = 500
	for i := 0; i < n; i++ {
		elem, err := rt.NewObject(nil)
		require.NoError(t, err)
		rt.ArrayPush(arr, lumi.Of(elem.Header()))
	}

	rt.FullGC()

	require.Equal(t, n, arr.Len())
	for i := 0; i < n; i++ {
		require.True(t, arr.At(i).IsHeapObject())
	}
}

func TestHashSetAndGet(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	h, err := rt.NewHash(nil)
	require.NoError(t, err)
	rt.Register(lumi.Of(h.Header()))
	defer rt.Unregister(lumi.Of(h.Header()))

	for i := 0; i < 300; i++ {
		rt.HashSet(h, lumi.Int(int64(i)), lumi.Int(int64(i*i)))
	}
	rt.FullGC()

	require.Equal(t, 300, h.Len())
	v, ok := h.Get(lumi.Int(42))
	require.True(t, ok)
	require.Equal(t, int64(42*42), v.Int())

	h.Delete(lumi.Int(42))
	_, ok = h.Get(lumi.Int(42))
	require.False(t, ok)
	require.Equal(t, 299, h.Len())
}

func TestStrAppend(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	s, err := rt.NewStr(nil, "hello, ")
	require.NoError(t, err)
	rt.Register(lumi.Of(s.Header()))
	defer rt.Unregister(lumi.Of(s.Header()))

	rt.StrAppend(s, "world")
	require.Equal(t, "hello, world", s.String())
	require.Equal(t, len("hello, world"), s.Len())
}

func TestFiberWithEmptyContextSurvivesFullGC(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	f, err := rt.NewFiber(nil)
	require.NoError(t, err)
	rt.Register(lumi.Of(f.Header()))
	defer rt.Unregister(lumi.Of(f.Header()))

	rt.FullGC() // must not panic walking an empty, non-terminated context
	require.Empty(t, rt.CheckInvariants())
}

func TestConfigRoundTrip(t *testing.T) {
	t.Parallel()
	yamlDoc := "interval_ratio: 150\nstep_ratio: 300\ngenerational: false\n"

	cfg, err := lumi.LoadConfig(strings.NewReader(yamlDoc))
	require.NoError(t, err)
	require.Equal(t, 150, cfg.IntervalRatio)
	require.Equal(t, 300, cfg.StepRatio)
	require.False(t, cfg.Generational)

	clone := cfg.Clone()
	clone.StepRatio = 999
	require.Equal(t, 300, cfg.StepRatio, "Clone must not alias the original Config")
}

func TestEachObjectVisitsRootedObjectAndFiltersFree(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	root, err := rt.NewObject(nil)
	require.NoError(t, err)
	rt.Register(lumi.Of(root.Header()))
	defer rt.Unregister(lumi.Of(root.Header()))

	var sawRoot, sawFree bool
	rt.EachObject(func(v lumi.Value) lumi.Continuation {
		if v.IsFree() {
			sawFree = true
			return lumi.Continue
		}
		if v.Header() == root.Header() {
			sawRoot = true
		}
		return lumi.Continue
	})

	require.True(t, sawRoot)
	require.True(t, sawFree, "each_object must surface FREE slots for the caller to filter")
}

func TestEachObjectBreakStopsTraversal(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	for i := 0; i < 20; i++ {
		_, err := rt.NewObject(nil)
		require.NoError(t, err)
	}

	var visited int
	rt.EachObject(func(v lumi.Value) lumi.Continuation {
		visited++
		return lumi.Break
	})
	require.Equal(t, 1, visited)
}

func TestStressOptionCollectsEveryAllocation(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t, lumi.WithStress(true))

	for i := 0; i < 100; i++ {
		mark := rt.ArenaSave()
		_, err := rt.NewObject(nil)
		require.NoError(t, err)
		rt.ArenaRestore(mark)
	}

	// The three pre-allocated exception singletons are permanently live.
	require.LessOrEqual(t, rt.Stats().Live, int64(3+1))
}

func TestDisableThenFullGC(t *testing.T) {
	t.Parallel()
	rt := newRuntime(t)

	rt.Disable()
	for i := 0; i < 200; i++ {
		mark := rt.ArenaSave()
		_, err := rt.NewObject(nil)
		require.NoError(t, err)
		rt.ArenaRestore(mark)
	}

	rt.Enable()
	rt.FullGC()
	// Only the three pre-allocated exception singletons remain live.
	require.Equal(t, int64(3), rt.Stats().Live)
}
