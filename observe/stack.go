package observe

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

const maxStackDepth = 64

// Frame is one caller frame of a failed call.
type Frame struct {
	Function string
	File     string
	Line     int
}

func (f Frame) String() string {
	return fmt.Sprintf("%s:%d in %s", f.File, f.Line, f.Function)
}

// pkgDir is the source directory of this package; its non-test frames are
// left out of captured stacks.
var pkgDir = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}()

// callerStack returns the goroutine's stack above the recorder. Called from
// a deferred recover it starts at the panic site.
func callerStack() []Frame {
	return CallerFrames(1)
}

// CallerFrames returns the stack of the calling goroutine. CallerFrames(0)
// starts at its caller; each increment of skip drops one more frame.
// Runtime, reflect and recorder frames are left out.
func CallerFrames(skip int) []Frame {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []Frame
	for {
		fr, more := frames.Next()
		if keepFrame(fr) {
			out = append(out, Frame{Function: fr.Function, File: fr.File, Line: fr.Line})
		}
		if !more {
			break
		}
	}
	return out
}

func keepFrame(fr runtime.Frame) bool {
	switch {
	case fr.Function == "":
		return false
	case strings.HasPrefix(fr.Function, "runtime."), strings.HasPrefix(fr.Function, "reflect."):
		return false
	case pkgDir != "" && filepath.Dir(fr.File) == pkgDir && !strings.HasSuffix(fr.File, "_test.go"):
		return false
	}
	return true
}
