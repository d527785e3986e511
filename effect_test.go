package fiberx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/fiberx"
	"github.com/comalice/fiberx/testutil"
)

func TestUseEffectRunsOnDependencyChange(t *testing.T) {
	calls := 0
	component := func(rt *Runtime, dep int) none {
		UseEffect(rt, func() { calls++ }, Deps{dep})
		return none{}
	}

	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "c", component))
	steps := []struct {
		dep   int
		calls int
	}{
		{1, 1}, // mount
		{1, 1},
		{2, 2},
		{3, 3},
		{3, 3},
	}
	for _, step := range steps {
		_, err := Call[int, none](rt, "c", step.dep)
		require.NoError(t, err)
		assert.Equal(t, step.calls, calls, "dep=%d", step.dep)
	}
}

func TestUseEffectStructDeps(t *testing.T) {
	type point struct {
		x int
		y string
	}
	calls := 0
	component := func(rt *Runtime, deps Deps) none {
		UseEffect(rt, func() { calls++ }, deps)
		return none{}
	}

	rt := testutil.NewRuntime(t)
	require.NoError(t, MountRoot(rt, "c", component))
	call := func(deps Deps) {
		_, err := Call[Deps, none](rt, "c", deps)
		require.NoError(t, err)
	}

	call(Deps{point{1, "a"}, 1})
	assert.Equal(t, 1, calls)
	call(Deps{point{1, "a"}, 1})
	assert.Equal(t, 1, calls, "equal struct deps")
	call(Deps{point{2, "a"}, 1})
	assert.Equal(t, 2, calls)
	call(Deps{point{2, "a"}, 2})
	assert.Equal(t, 3, calls)
	call(Deps{point{2, "a"}, 2, "extra"})
	assert.Equal(t, 4, calls, "length change")
	call(Deps{point{2, "a"}, 2})
	assert.Equal(t, 5, calls, "length change")
	call(Deps{point{2, "a"}, int64(2)})
	assert.Equal(t, 6, calls, "different dynamic type")
}

func TestUseEffectEmptyDepsRunsOnce(t *testing.T) {
	calls := 0
	component := func(rt *Runtime, _ none) none {
		UseEffect(rt, func() { calls++ }, nil)
		return none{}
	}
	rt := testutil.NewRuntime(t)
	for range 4 {
		_, err := Render(rt, "c", component, none{})
		require.NoError(t, err)
	}
	assert.Equal(t, 1, calls)
}

func TestUseEffectDepsAreCopied(t *testing.T) {
	calls := 0
	shared := Deps{1}
	component := func(rt *Runtime, _ none) none {
		UseEffect(rt, func() { calls++ }, shared)
		return none{}
	}
	rt := testutil.NewRuntime(t)
	_, err := Render(rt, "c", component, none{})
	require.NoError(t, err)

	shared[0] = 2
	_, err = Render(rt, "c", component, none{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "mutating the caller's slice must not hide the change")
}

func TestUseEffectSeesInPlaceMutation(t *testing.T) {
	calls := 0
	items := []int{1, 2}
	byName := map[string]int{"a": 1}
	component := func(rt *Runtime, _ none) none {
		UseEffect(rt, func() { calls++ }, Deps{items, byName})
		return none{}
	}
	rt := testutil.NewRuntime(t)
	render := func() {
		_, err := Render(rt, "c", component, none{})
		require.NoError(t, err)
	}

	render()
	render()
	assert.Equal(t, 1, calls)

	items[0] = 99
	render()
	assert.Equal(t, 2, calls, "a nested slice changed in place must rerun the effect")

	byName["a"] = 2
	render()
	assert.Equal(t, 3, calls)

	render()
	assert.Equal(t, 3, calls)
}

func TestUseEffectRunsInline(t *testing.T) {
	var order []string
	component := func(rt *Runtime, dep int) none {
		order = append(order, "before")
		UseEffect(rt, func() { order = append(order, "effect") }, Deps{dep})
		order = append(order, "after")
		return none{}
	}
	rt := testutil.NewRuntime(t)
	_, err := Render(rt, "c", component, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"before", "effect", "after"}, order)
}

func TestUseEffectCanSetState(t *testing.T) {
	component := func(rt *Runtime, dep string) int {
		n, set := UseState(rt, func() int { return 0 })
		UseEffect(rt, func() { set.Set(func(p int) int { return p + 1 }) }, Deps{dep})
		return n
	}
	rt := testutil.NewRuntime(t)
	var got []int
	for _, dep := range []string{"a", "a", "b", "b", "b"} {
		n, err := Render(rt, "c", component, dep)
		require.NoError(t, err)
		got = append(got, n)
	}
	assert.Equal(t, []int{0, 1, 1, 2, 2}, got)
}

func TestUseEffectOutsideFiberPanics(t *testing.T) {
	rt := testutil.NewRuntime(t)
	perr := testutil.RequireProtocolPanic(t, func() {
		UseEffect(rt, func() {}, nil)
	})
	assert.Equal(t, "UseEffect", perr.Hook)
}
