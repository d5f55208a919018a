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

package lumi

import "github.com/lumirt/lumi/internal/gc"

// Exception is the Exception kind. The three pre-allocated singletons
// (out-of-memory, stack-overflow, arena-overflow) are ordinary
// Exceptions painted red at construction (see errors.go).
type Exception struct {
	object
	Message   string
	Backtrace *Backtrace
}

// NewException allocates an Exception.
func (rt *Runtime) NewException(class *gc.Header, message string) (*Exception, error) {
	hdr, err := rt.gc.Alloc(gc.TagException, class)
	if err != nil {
		return nil, err
	}
	e := &Exception{object: object{header: hdr}, Message: message}
	gc.SlotOf(hdr).Data = e
	return e, nil
}

func walkException(payload any, mark func(*gc.Header)) int {
	e := payload.(*Exception)
	children := walkIVars(mark, e.ivars)
	if e.Backtrace != nil {
		mark(e.Backtrace.Header())
		children++
	}
	return children
}

func destroyException(payload any, end bool) {}
