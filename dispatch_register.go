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

import (
	"github.com/lumirt/lumi/internal/gc"
	"github.com/lumirt/lumi/internal/kind"
)

// registerKinds wires every kind defined in this package into t, so a
// Runtime's collector can walk and destroy every tag it allocates.
func registerKinds(t *kind.Table) {
	t.Register(gc.TagObject, kind.Descriptor{Walk: walkObject, Destroy: destroyObject})
	t.Register(gc.TagClass, kind.Descriptor{Walk: walkClass, Destroy: destroyClass})
	t.Register(gc.TagModule, kind.Descriptor{Walk: walkClass, Destroy: destroyClass})
	t.Register(gc.TagSingletonClass, kind.Descriptor{Walk: walkClass, Destroy: destroyClass})
	t.Register(gc.TagIncludedClass, kind.Descriptor{Walk: walkIncludedClass, Destroy: destroyIncludedClass})
	t.Register(gc.TagEnvironment, kind.Descriptor{Walk: walkEnv, Destroy: destroyEnv})
	t.Register(gc.TagProc, kind.Descriptor{Walk: walkProc, Destroy: destroyProc})
	t.Register(gc.TagFiber, kind.Descriptor{Walk: walkFiber, Destroy: destroyFiber})
	t.Register(gc.TagArray, kind.Descriptor{Walk: walkArray, Destroy: destroyArray})
	t.Register(gc.TagHash, kind.Descriptor{Walk: walkHash, Destroy: destroyHash})
	t.Register(gc.TagString, kind.Descriptor{Walk: walkStr, Destroy: destroyStr})
	t.Register(gc.TagRange, kind.Descriptor{Walk: walkRange, Destroy: destroyRange})
	t.Register(gc.TagBreak, kind.Descriptor{Walk: walkBreak, Destroy: destroyBreak})
	t.Register(gc.TagException, kind.Descriptor{Walk: walkException, Destroy: destroyException})
	t.Register(gc.TagBacktrace, kind.Descriptor{Walk: walkBacktrace, Destroy: destroyBacktrace})
	t.Register(gc.TagCData, kind.Descriptor{Walk: walkCData, Destroy: destroyCData})
	t.Register(gc.TagRational, kind.Descriptor{Walk: walkRational, Destroy: destroyRational})
	t.Register(gc.TagSet, kind.Descriptor{Walk: walkSet, Destroy: destroySet})
}
