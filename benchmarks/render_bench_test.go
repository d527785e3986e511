package benchmarks

import (
	"fmt"
	"testing"
)

func BenchmarkRenderWide(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("width=%d", n), func(b *testing.B) {
			r := NewRenderer(WideTree)
			props := TreeProps{Width: n}
			if _, err := r.Render(props); err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := r.Render(props); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(n*b.N)/b.Elapsed().Seconds(), "fibers/sec")
		})
	}
}

func BenchmarkRenderDeep(b *testing.B) {
	for _, d := range []int{10, 50, 200} {
		b.Run(fmt.Sprintf("depth=%d", d), func(b *testing.B) {
			r := NewRenderer(DeepTree)
			props := TreeProps{Depth: d}
			if _, err := r.Render(props); err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := r.Render(props); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRenderChurn alternates between an empty and a full tree so
// every pass mounts or unmounts all leaves.
func BenchmarkRenderChurn(b *testing.B) {
	r := NewRenderer(WideTree)
	full, empty := TreeProps{Width: 100}, TreeProps{}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		props := full
		if i%2 == 1 {
			props = empty
		}
		if _, err := r.Render(props); err != nil {
			b.Fatal(err)
		}
	}
}
