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

// Break carries a non-local exit (break/next/return) unwinding through
// the VM: the target proc it is unwinding to, and the value it carries.
type Break struct {
	object
	Target *gc.Header // the proc being broken out of
	Value  Value
}

// NewBreak allocates a Break.
func (rt *Runtime) NewBreak(target *gc.Header, value Value) (*Break, error) {
	hdr, err := rt.gc.Alloc(gc.TagBreak, nil)
	if err != nil {
		return nil, err
	}
	b := &Break{object: object{header: hdr}, Target: target, Value: value}
	gc.SlotOf(hdr).Data = b
	rt.gc.FieldWrite(hdr, target)
	return b, nil
}

func walkBreak(payload any, mark func(*gc.Header)) int {
	b := payload.(*Break)
	mark(b.Target)
	markValue(mark, b.Value)
	return 2
}

func destroyBreak(payload any, end bool) {}
