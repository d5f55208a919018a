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

package gc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumirt/lumi/internal/gc"
)

// node is a minimal managed kind used only by these tests: a header plus
// a set of outgoing edges, exercised through a fakeDispatch.
type node struct {
	children []*gc.Header
}

// fakeDispatch is a [gc.Dispatch] over a flat registry of *node payloads
// keyed by header, standing in for the lumi package's internal/kind.Table
// so this package's tests do not need to import anything that already
// depends on it.
type fakeDispatch struct {
	payload   map[*gc.Header]*node
	destroyed map[*gc.Header]bool
}

func newFakeDispatch() *fakeDispatch {
	return &fakeDispatch{
		payload:   make(map[*gc.Header]*node),
		destroyed: make(map[*gc.Header]bool),
	}
}

func (d *fakeDispatch) Walk(obj *gc.Header, mark func(*gc.Header)) int {
	n, ok := d.payload[obj]
	if !ok {
		return 0
	}
	for _, c := range n.children {
		mark(c)
	}
	return len(n.children)
}

func (d *fakeDispatch) Destroy(obj *gc.Header, end bool) {
	d.destroyed[obj] = true
	delete(d.payload, obj)
}

func (d *fakeDispatch) alloc(rt *gc.Runtime, children ...*gc.Header) *gc.Header {
	hdr, err := rt.Alloc(gc.TagObject, nil)
	if err != nil {
		panic(err)
	}
	d.payload[hdr] = &node{children: children}
	return hdr
}

// fakeContext is a minimal [gc.Context] with a fixed stack and no frames.
type fakeContext struct {
	stack      []*gc.Header
	terminated bool
}

func (c *fakeContext) Terminated() bool    { return c.terminated }
func (c *fakeContext) Stack() []*gc.Header { return c.stack }
func (c *fakeContext) Frames() []gc.Frame  { return nil }
func (c *fakeContext) Fiber() *gc.Header   { return nil }
func (c *fakeContext) Prev() gc.Context    { return nil }

func newRuntime(t *testing.T, mutate func(*gc.Config)) (*gc.Runtime, *fakeDispatch) {
	t.Helper()
	cfg := gc.DefaultConfig()
	cfg.HeapPageSize = 8
	cfg.ArenaGrowable = true
	cfg.ArenaSize = 16
	if mutate != nil {
		mutate(&cfg)
	}
	d := newFakeDispatch()
	rt := gc.NewRuntime(cfg, d)
	return rt, d
}

// driveCycle calls Step repeatedly until a full cycle (root -> mark ->
// sweep -> root) has completed, bounded against an infinite loop.
func driveCycle(t *testing.T, rt *gc.Runtime) {
	t.Helper()
	start := rt.Phase()
	for i := 0; i < 100000; i++ {
		rt.Step()
		if rt.Phase() == start && i > 0 {
			return
		}
	}
	t.Fatal("driveCycle: did not complete within bound")
}

// Scenario A (spec §8): a root keeps a large array-like object graph
// alive across a full collection cycle.
func TestFullGCRetainsRootedGraph(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)

	leaf := d.alloc(rt)
	var roots []*gc.Header
	for i := 0; i < 5000; i++ {
		roots = append(roots, d.alloc(rt, leaf))
	}
	rt.SetRoots(gc.Roots{CurrentContext: &fakeContext{stack: roots}})

	rt.FullGC()

	require.EqualValues(t, int64(5001), rt.Live(), "every array element plus the shared leaf must survive")
	for _, r := range roots {
		require.False(t, d.destroyed[r])
	}
	require.False(t, d.destroyed[leaf])
}

// Scenario: an object that becomes unreachable between cycles is
// reclaimed by the next full collection.
func TestFullGCReclaimsUnreachable(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)

	mark := rt.ArenaSave()
	kept := d.alloc(rt)
	garbage := d.alloc(rt)
	rt.ArenaRestore(mark) // neither object is protected anymore; only ctx below roots kept

	ctx := &fakeContext{stack: []*gc.Header{kept}}
	rt.SetRoots(gc.Roots{CurrentContext: ctx})

	rt.FullGC()
	require.True(t, d.destroyed[garbage])
	require.False(t, d.destroyed[kept])
	require.EqualValues(t, int64(1), rt.Live())
}

// Scenario B (spec §8): a fixed, non-growable arena reports overflow
// rather than silently growing.
func TestArenaOverflowFixed(t *testing.T) {
	t.Parallel()
	rt, _ := newRuntime(t, func(c *gc.Config) {
		c.ArenaSize = 8
		c.ArenaGrowable = false
	})

	var lastErr error
	for i := 0; i < 32; i++ {
		_, err := rt.Alloc(gc.TagObject, nil)
		if err != nil {
			lastErr = err
			break
		}
	}
	require.ErrorIs(t, lastErr, gc.ErrArenaOverflow)
}

// Scenario: a growable arena never overflows across the same workload.
func TestArenaGrowable(t *testing.T) {
	t.Parallel()
	rt, _ := newRuntime(t, func(c *gc.Config) {
		c.ArenaSize = 4
		c.ArenaGrowable = true
	})

	for i := 0; i < 256; i++ {
		_, err := rt.Alloc(gc.TagObject, nil)
		require.NoError(t, err)
	}
}

// Scenario C (spec §8): a tight allocation loop with no retained objects
// keeps live count bounded instead of growing without limit.
func TestTightAllocationLoopStaysBounded(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, func(c *gc.Config) {
		c.ArenaSize = 4096
		c.ArenaGrowable = true
	})
	rt.SetRoots(gc.Roots{})

	for i := 0; i < 20000; i++ {
		mark := rt.ArenaSave()
		d.alloc(rt)
		rt.ArenaRestore(mark) // drop the temporary immediately; nothing roots it
	}
	rt.FullGC()
	require.Less(t, rt.Live(), int64(1000), "garbage from a tight allocation loop must not accumulate")
}

// Scenario D (spec §8): disabling scheduling suspends incremental work,
// and a subsequent FullGC still runs to completion.
func TestDisableSuspendsIncrementalWork(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, func(c *gc.Config) {
		c.ArenaSize = 100000
		c.ArenaGrowable = true
	})
	rt.SetRoots(gc.Roots{})

	rt.Disable()
	for i := 0; i < 5000; i++ {
		mark := rt.ArenaSave()
		d.alloc(rt)
		rt.ArenaRestore(mark) // nothing should root these once scheduling resumes
	}
	require.Equal(t, gc.PhaseRoot, rt.Phase(), "Step should never have run while disabled")

	rt.Enable()
	rt.FullGC()
	require.Zero(t, rt.Live())
}

// Scenario E (spec §8): a generational minor cycle must not revisit an
// old page's dead objects; they are only reclaimed on a full cycle.
func TestGenerationalMinorSkipsOldPage(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, func(c *gc.Config) {
		c.Generational = true
		c.HeapPageSize = 8
	})
	rt.SetRoots(gc.Roots{})

	rt.FullGC() // nothing is allocated yet, so old_gen_threshold stays 0

	mark := rt.ArenaSave()
	garbage := d.alloc(rt) // young, unrooted
	rt.ArenaRestore(mark)
	driveCycle(t, rt) // one incremental cycle; old_gen_threshold 0 makes it full

	if !d.destroyed[garbage] {
		// A minor cycle left the old page's content untouched; a
		// follow-up full collection must still reclaim it.
		rt.FullGC()
		require.True(t, d.destroyed[garbage])
	}
}

// Scenario F (spec §8/§4.8): a field write barrier during the mark phase
// keeps a newly-attached white child from being swept as garbage even
// though it did not exist at root-scan time.
func TestFieldWriteBarrierDuringMark(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)

	parent := d.alloc(rt)
	rt.SetRoots(gc.Roots{CurrentContext: &fakeContext{stack: []*gc.Header{parent}}})

	rt.Step() // ROOT -> MARK; scans roots, flips current white
	require.Equal(t, gc.PhaseMark, rt.Phase())

	// Drain enough of the mark phase that parent is already black before
	// it gains a new child.
	rt.Step()

	mark := rt.ArenaSave()
	child := d.alloc(rt)
	d.payload[parent].children = append(d.payload[parent].children, child)
	rt.FieldWrite(parent, child)
	rt.ArenaRestore(mark) // only the barrier, not the arena, roots child from here on

	for rt.Phase() != gc.PhaseRoot {
		rt.Step()
	}

	require.False(t, d.destroyed[child], "a field write barrier must keep a new child alive through the in-flight cycle")
}

// Scenario: the object write barrier keeps a container's full child set
// alive after the container itself has already been blackened.
func TestObjectWriteBarrier(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)

	container := d.alloc(rt)
	rt.SetRoots(gc.Roots{CurrentContext: &fakeContext{stack: []*gc.Header{container}}})

	rt.Step()
	rt.Step()

	mark := rt.ArenaSave()
	child := d.alloc(rt)
	d.payload[container].children = []*gc.Header{child}
	rt.ObjectWrite(container)
	rt.ArenaRestore(mark)

	for rt.Phase() != gc.PhaseRoot {
		rt.Step()
	}

	require.False(t, d.destroyed[child])
}

// CheckInvariants must report no violations after any of the above
// workloads settle into a quiescent state.
func TestCheckInvariantsClean(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)

	root := d.alloc(rt)
	rt.SetRoots(gc.Roots{CurrentContext: &fakeContext{stack: []*gc.Header{root}}})
	for i := 0; i < 50; i++ {
		d.alloc(rt, root)
	}
	rt.FullGC()

	require.Empty(t, rt.CheckInvariants())
}

func TestArenaRestoreReleasesTemporary(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)
	rt.SetRoots(gc.Roots{})

	mark := rt.ArenaSave()
	temp := d.alloc(rt)
	rt.ArenaRestore(mark)

	rt.FullGC()
	require.True(t, d.destroyed[temp])
}

func TestSetGenerationalRejectedWhileDisabled(t *testing.T) {
	t.Parallel()
	rt, _ := newRuntime(t, nil)
	rt.Disable()
	err := rt.SetGenerational(false)
	require.Error(t, err)
}

// Scenario (spec §6 "each_object contract"): EachObject forces a full GC,
// visits every slot including FREE ones, and the callback can stop the
// walk early.
func TestEachObjectWalksAllSlotsIncludingFree(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)

	root := d.alloc(rt)
	rt.SetRoots(gc.Roots{CurrentContext: &fakeContext{stack: []*gc.Header{root}}})

	mark := rt.ArenaSave()
	d.alloc(rt) // garbage; reclaimed by EachObject's forced FullGC
	rt.ArenaRestore(mark)

	var sawFree, sawRoot bool
	var visited int
	rt.EachObject(func(obj *gc.Header) gc.Continuation {
		visited++
		if obj.Tag == gc.FREE {
			sawFree = true
		}
		if obj == root {
			sawRoot = true
		}
		return gc.Continue
	})

	require.True(t, sawFree, "each_object must visit FREE slots too; callers filter them")
	require.True(t, sawRoot)
	require.Greater(t, visited, 1)
}

func TestEachObjectBreakStopsEarly(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)
	rt.SetRoots(gc.Roots{})

	for i := 0; i < 50; i++ {
		d.alloc(rt)
	}

	var visited int
	rt.EachObject(func(obj *gc.Header) gc.Continuation {
		visited++
		return gc.Break
	})

	require.Equal(t, 1, visited)
}

// iterating must be set for the duration of the walk and cleared
// afterward, even though the callback itself observes it mid-walk (spec
// §5 "scoped acquisition with guaranteed release").
func TestEachObjectSerializesGenerationalToggle(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)
	rt.SetRoots(gc.Roots{})
	d.alloc(rt)

	var errDuring error
	rt.EachObject(func(obj *gc.Header) gc.Continuation {
		errDuring = rt.SetGenerational(!rt.Generational())
		return gc.Break
	})

	require.Error(t, errDuring, "SetGenerational must be rejected while iterating")
	require.NoError(t, rt.SetGenerational(!rt.Generational()), "iterating must be cleared once EachObject returns")
}

// Scenario (spec §4.4 "stress mode forces a full GC before every
// allocation"): under Stress, an allocate-then-drop loop never
// accumulates garbage, because every single Alloc call runs a full
// cycle rather than one incremental step.
func TestStressForcesFullGCPerAllocation(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, func(c *gc.Config) {
		c.Stress = true
	})
	rt.SetRoots(gc.Roots{})

	for i := 0; i < 200; i++ {
		mark := rt.ArenaSave()
		d.alloc(rt)
		rt.ArenaRestore(mark)
		require.LessOrEqual(t, rt.Live(), int64(1), "stress mode must fully collect before the next allocation is even requested")
	}
}

func TestDestroyRunsEveryDestructor(t *testing.T) {
	t.Parallel()
	rt, d := newRuntime(t, nil)
	rt.SetRoots(gc.Roots{})

	var all []*gc.Header
	for i := 0; i < 10; i++ {
		all = append(all, d.alloc(rt))
	}
	rt.Destroy()
	for _, h := range all {
		require.True(t, d.destroyed[h])
	}
}
