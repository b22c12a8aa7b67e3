package logwriter_test

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonwraymond/probe/logwriter"
)

func ExampleWriter_Append() {
	dir, _ := os.MkdirTemp("", "logwriter")
	defer os.RemoveAll(dir)

	clock := func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }
	w, _ := logwriter.New(filepath.Join(dir, "probe.log"), logwriter.WithClock(clock))

	_ = w.Append(logwriter.Values{
		Args:   []string{"1", `"two"`},
		Kwargs: []logwriter.Pair{{Key: "three", Value: "3"}},
	})

	data, _ := os.ReadFile(w.Path())
	fmt.Print(string(data))
	// Output:
	// 10.18 09:30:00 =>
	//   <0>:1
	//   <1>:"two"
	//   three=3
}
