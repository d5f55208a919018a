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

//go:build debug

package dbg

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/timandy/routine"
)

// Enabled is true when the binary is built with the debug tag. Callers
// use it to guard debug-only checks (the bounds checks in
// internal/arena); the heap-scan invariant checker
// (gc.Runtime.CheckInvariants) is not guarded by it and runs whenever it
// is called.
const Enabled = true

var (
	filterPattern *regexp.Regexp
	noStderr      = flag.Bool("lumi.dbg.quiet", false, "suppress debug trace output to stderr")
)

func init() {
	flag.Func("lumi.dbg.filter", "regexp to filter debug trace lines by", func(s string) (err error) {
		filterPattern, err = regexp.Compile(s)
		return err
	})
}

// Log prints a collector trace line to stderr, tagged with the logging
// goroutine's id so traces stay readable when a stats snapshot is read
// concurrently with a running cycle.
//
// context is an optional {format, args...} pair printed ahead of operation,
// used to identify which heap/page/object a line is about.
func Log(context []any, operation string, format string, args ...any) {
	skip := 1
again:
	pc, file, line, _ := runtime.Caller(skip)

	fn := runtime.FuncForPC(pc)
	name := fn.Name()
	name = name[strings.LastIndex(name, ".")+1:]
	if strings.HasPrefix(name, "log") || strings.Contains(name, "Log") {
		skip++
		goto again
	}

	pkg := fn.Name()
	pkg = strings.TrimPrefix(pkg, "github.com/lumirt/lumi/")
	if idx := strings.Index(pkg, "."); idx >= 0 {
		pkg = pkg[:idx]
	}

	file = filepath.Base(file)

	buf := new(strings.Builder)
	_, _ = fmt.Fprintf(buf, "%s/%s:%d [g%04d", pkg, file, line, routine.Goid())
	if len(context) >= 1 {
		_, _ = fmt.Fprintf(buf, ", "+context[0].(string), context[1:]...)
	}
	_, _ = fmt.Fprintf(buf, "] %s: ", operation)
	_, _ = fmt.Fprintf(buf, format, args...)

	if filterPattern != nil && !filterPattern.MatchString(buf.String()) {
		return
	}
	if *noStderr {
		return
	}

	_, _ = buf.Write([]byte{'\n'})
	_, _ = os.Stderr.WriteString(buf.String())
}

// Assert panics if cond is false. Only present in debug builds; callers must
// not rely on its side effects being present in a release binary.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("lumi: internal assertion failed: "+format, args...))
	}
}

// Stack returns the current goroutine's call stack, skipping the given
// number of innermost frames.
func Stack(skip int) string {
	var out strings.Builder

	trace := make([]uintptr, 32)
	for {
		n := runtime.Callers(skip+1, trace)
		if n < len(trace) {
			trace = trace[:n]
			break
		}
		trace = make([]uintptr, len(trace)*2)
	}

	frames := runtime.CallersFrames(trace)
	for {
		f, more := frames.Next()
		_, _ = fmt.Fprintf(&out, "%s\n\t%s:%d\n", f.Function, filepath.Base(f.File), f.Line)
		if !more {
			break
		}
	}
	return out.String()
}

// Value is a value that only exists in debug builds, used to carry
// diagnostic-only fields (e.g. an allocation's call site) on hot-path
// structs without growing them in release builds.
type Value[T any] struct {
	x T
}

// Get returns a pointer to the wrapped value.
func (v *Value[T]) Get() *T { return &v.x }
