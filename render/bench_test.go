package render

import "testing"

// BenchmarkRender_Nested measures rendering a mixed nested value.
func BenchmarkRender_Nested(b *testing.B) {
	v := map[string]any{
		"list":    []int{1, 2, 3, 4, 5},
		"greeter": greeter{Name: "bench"},
		"nested":  map[string][]string{"a": {"x", "y"}, "b": {"z"}},
	}
	opts := DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Render(v, opts)
	}
}

// BenchmarkRender_Cycle measures rendering a self-referential value.
func BenchmarkRender_Cycle(b *testing.B) {
	n := &node{Value: 1}
	n.Next = &node{Value: 2, Next: n}
	opts := DefaultOptions()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Render(n, opts)
	}
}
