package fiberx_test

import (
	"fmt"

	"github.com/comalice/fiberx"
)

func Example() {
	counter := func(rt *fiberx.Runtime, step int) int {
		count, set := fiberx.UseState(rt, func() int { return 0 })
		set.Set(func(n int) int { return n + step })
		return count
	}

	rt := fiberx.NewRuntime()
	if err := fiberx.MountRoot(rt, "counter", counter); err != nil {
		panic(err)
	}
	for range 3 {
		n, _ := fiberx.Call[int, int](rt, "counter", 2)
		fmt.Println(n)
	}
	// Output:
	// 0
	// 2
	// 4
}

func ExampleUseContext() {
	theme := fiberx.CreateContext[string]()

	label := func(rt *fiberx.Runtime, text string) string {
		return fmt.Sprintf("[%s] %s", fiberx.UseContext(rt, theme), text)
	}
	app := func(rt *fiberx.Runtime, _ struct{}) string {
		fiberx.ProvideContext(rt, theme, "dark")
		out, _ := fiberx.RenderChild(rt, "app", "app/label", label, "hello")
		return out
	}

	rt := fiberx.NewRuntime()
	out, _ := fiberx.Render(rt, "app", app, struct{}{})
	fmt.Println(out)
	// Output: [dark] hello
}
