package fiberx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/fiberx"
	"github.com/comalice/fiberx/testutil"
)

type none = struct{}

func echo(_ *Runtime, s string) string { return s }

func counter(rt *Runtime, _ none) int {
	count, set := UseState(rt, func() int { return 0 })
	set.Set(func(prev int) int { return prev + 1 })
	return count
}

func TestMountRejectsDuplicateID(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "a", echo))

	err := MountRoot(rt, "a", echo)
	require.ErrorIs(t, err, ErrFiberAlreadyExists)

	var ferr *FiberError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, FiberID("a"), ferr.ID)
	assert.Equal(t, "mount", ferr.Op)
}

func TestMountRequiresParent(t *testing.T) {
	rt := testutil.NewRuntime(t)
	err := MountChild(rt, "missing", "child", echo)
	require.ErrorIs(t, err, ErrParentDoesNotExist)

	var ferr *FiberError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, FiberID("missing"), ferr.ID)
	assert.False(t, rt.Has("child"), "failed mount must not register the fiber")
	assert.Equal(t, 0, rt.Len())
}

func TestCallMissingFiber(t *testing.T) {
	rt := testutil.NewRuntime(t)
	_, err := Call[string, string](rt, "nope", "x")
	assert.ErrorIs(t, err, ErrFiberDoesntExist)
}

func TestCallTypeMismatch(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "echo", echo))

	_, err := Call[int, string](rt, "echo", 1)
	assert.ErrorIs(t, err, ErrFiberTypeMismatch)
	_, err = Call[string, int](rt, "echo", "x")
	assert.ErrorIs(t, err, ErrFiberTypeMismatch)

	got, err := Call[string, string](rt, "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestCounterScenario(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "counter", counter))

	var got []int
	for range 4 {
		n, err := Call[none, int](rt, "counter", none{})
		require.NoError(t, err)
		got = append(got, n)
	}
	assert.Equal(t, []int{0, 1, 2, 3}, got)
}

func TestChildrenAndParent(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "root", echo))
	for _, id := range []FiberID{"root/b", "root/a", "root/c"} {
		require.NoError(t, MountChild(rt, "root", id, echo))
	}

	children, err := rt.ChildrenOf("root")
	require.NoError(t, err)
	assert.Equal(t, []FiberID{"root/b", "root/a", "root/c"}, children, "children keep mount order")

	parent, ok, err := rt.ParentOf("root/a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, FiberID("root"), parent)

	_, ok, err = rt.ParentOf("root")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = rt.ChildrenOf("ghost")
	assert.ErrorIs(t, err, ErrFiberDoesntExist)
	_, _, err = rt.ParentOf("ghost")
	assert.ErrorIs(t, err, ErrFiberDoesntExist)

	children[0] = "mutated"
	again, _ := rt.ChildrenOf("root")
	assert.Equal(t, FiberID("root/b"), again[0], "ChildrenOf must return a copy")
}

func TestUnmountRemovesDescendants(t *testing.T) {
	rec := &testutil.Recorder{}
	rt := testutil.NewRuntime(t, WithObserver(rec))
	require.NoError(t, MountRoot(rt, "r", echo))
	require.NoError(t, MountChild(rt, "r", "r/a", echo))
	require.NoError(t, MountChild(rt, "r/a", "r/a/x", echo))
	require.NoError(t, MountChild(rt, "r/a", "r/a/y", echo))
	require.NoError(t, MountChild(rt, "r", "r/b", echo))

	rt.Unmount("r/a")

	assert.False(t, rt.Has("r/a"))
	assert.False(t, rt.Has("r/a/x"))
	assert.False(t, rt.Has("r/a/y"))
	assert.Equal(t, 2, rt.Len())
	children, err := rt.ChildrenOf("r")
	require.NoError(t, err)
	assert.Equal(t, []FiberID{"r/b"}, children)
	assert.Equal(t, []FiberID{"r/a/x", "r/a/y", "r/a"}, rec.Of(Unmounted), "descendants go first")

	// Idempotent.
	rt.Unmount("r/a")
	rt.Unmount("never-mounted")
	assert.Equal(t, 2, rt.Len())
}

func TestUnmountRoot(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "one", echo))
	require.NoError(t, MountRoot(rt, "two", echo))
	rt.Unmount("one")
	assert.Equal(t, []FiberID{"two"}, rt.Roots())
}

func TestRemountStartsEmpty(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "counter", counter))
	for range 3 {
		_, err := Call[none, int](rt, "counter", none{})
		require.NoError(t, err)
	}

	rt.Unmount("counter")
	require.NoError(t, MountRoot(rt, "counter", counter))

	n, err := Call[none, int](rt, "counter", none{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	fs, ok := rt.Snapshot("t").Fiber("counter")
	require.True(t, ok)
	assert.Len(t, fs.Slots, 1)
}

func TestRemountWithDifferentSignature(t *testing.T) {
	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "x", echo))
	rt.Unmount("x")
	require.NoError(t, MountRoot(rt, "x", counter))

	n, err := Call[none, int](rt, "x", none{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNestedCallRestoresActiveFiber(t *testing.T) {
	rt := testutil.NewRuntime(t)
	var seen []FiberID

	inner := func(rt *Runtime, _ none) int {
		id, _ := rt.Current()
		seen = append(seen, id)
		v, _ := UseState(rt, func() int { return 7 })
		return v
	}
	outer := func(rt *Runtime, _ none) int {
		before, _ := UseState(rt, func() int { return 1 })
		if !rt.Has("outer/inner") {
			require.NoError(t, MountChild(rt, "outer", "outer/inner", inner))
		}
		v, err := Call[none, int](rt, "outer/inner", none{})
		require.NoError(t, err)
		id, _ := rt.Current()
		seen = append(seen, id)
		after, _ := UseState(rt, func() int { return 2 })
		return before*100 + v*10 + after
	}

	require.NoError(t, MountRoot(rt, "outer", outer))
	for range 2 {
		got, err := Call[none, int](rt, "outer", none{})
		require.NoError(t, err)
		assert.Equal(t, 172, got)
	}
	assert.Equal(t, []FiberID{"outer/inner", "outer", "outer/inner", "outer"}, seen)

	_, active := rt.Current()
	assert.False(t, active, "no fiber is active once the outer call returns")

	outerSnap, _ := rt.Snapshot("t").Fiber("outer")
	innerSnap, _ := rt.Snapshot("t").Fiber("outer/inner")
	assert.Len(t, outerSnap.Slots, 2)
	assert.Len(t, innerSnap.Slots, 1)
}

func TestCallRecoversActiveStackAfterPanic(t *testing.T) {
	rt := testutil.NewRuntime(t)
	boom := errors.New("boom")
	require.NoError(t, MountRoot(rt, "bad", func(*Runtime, none) int { panic(boom) }))

	assert.PanicsWithValue(t, boom, func() {
		_, _ = Call[none, int](rt, "bad", none{})
	})
	_, active := rt.Current()
	assert.False(t, active)
}

func TestFiberUnmountsItselfDuringCall(t *testing.T) {
	rt := testutil.NewRuntime(t)
	self := func(rt *Runtime, _ none) int {
		id, _ := rt.Current()
		rt.Unmount(id)
		v, _ := UseState(rt, func() int { return 5 })
		return v
	}
	require.NoError(t, MountRoot(rt, "self", self))

	got, err := Call[none, int](rt, "self", none{})
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.False(t, rt.Has("self"))
}

func TestRender(t *testing.T) {
	rt := testutil.NewRuntime(t)
	for want := range 3 {
		got, err := Render(rt, "counter", counter, none{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := Render(rt, "counter", echo, "x")
	assert.ErrorIs(t, err, ErrFiberTypeMismatch)

	got, err := RenderChild(rt, "counter", "counter/echo", echo, "child")
	require.NoError(t, err)
	assert.Equal(t, "child", got)

	_, err = RenderChild(rt, "ghost", "ghost/echo", echo, "child")
	assert.ErrorIs(t, err, ErrParentDoesNotExist)
}

func TestRuntimesAreIndependent(t *testing.T) {
	a := testutil.NewRuntime(t)
	b := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(a, "counter", counter))
	require.NoError(t, MountRoot(b, "counter", counter))

	for range 3 {
		_, err := Call[none, int](a, "counter", none{})
		require.NoError(t, err)
	}
	n, err := Call[none, int](b, "counter", none{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLifecycleEvents(t *testing.T) {
	rec := &testutil.Recorder{}
	rt := testutil.NewRuntime(t, WithObserver(rec), WithInitialCapacity(4))
	require.NoError(t, MountRoot(rt, "a", echo))
	require.NoError(t, MountChild(rt, "a", "a/b", echo))
	_, err := Call[string, string](rt, "a/b", "x")
	require.NoError(t, err)
	_, err = Call[int, string](rt, "a/b", 1)
	require.Error(t, err)
	rt.Unmount("a")

	kinds := make([]LifecycleKind, 0, len(rec.Events))
	for _, evt := range rec.Events {
		kinds = append(kinds, evt.Kind)
	}
	assert.Equal(t, []LifecycleKind{Mounted, Mounted, Called, Unmounted, Unmounted}, kinds)
	assert.Equal(t, FiberID("a"), rec.Events[1].Parent)
	assert.Equal(t, "called", rec.Events[2].Kind.String())
}
