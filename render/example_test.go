package render_test

import (
	"fmt"
	"reflect"

	"github.com/jonwraymond/probe/render"
)

func ExampleRender() {
	f := render.Render(map[string]int{"b": 2, "a": 1}, render.DefaultOptions())

	fmt.Println(f.Class, f.Head[0].Text)
	for _, e := range f.Entries {
		fmt.Println(e.Name.Text, e.Value.Head[1].Text)
	}
	// Output:
	// mapping <map[string]int>
	// a 1
	// b 2
}

func ExampleRender_cycle() {
	c := make([]any, 1)
	c[0] = c

	f := render.Render(c, render.DefaultOptions())
	fmt.Println("repeated markers:", f.Count(render.TagRepeated))
	// Output:
	// repeated markers: 1
}

func ExampleClassifyValue() {
	fmt.Println(render.ClassifyValue(reflect.ValueOf([]string{"x"})))
	fmt.Println(render.ClassifyValue(reflect.ValueOf(map[int]struct{}{})))
	// Output:
	// sequence
	// set
}
