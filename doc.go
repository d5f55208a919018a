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

// Package lumi is an embeddable dynamic-language runtime built around a
// tri-color, incremental, generational garbage collector (see
// internal/gc). It supplies the managed value kinds (Object, Class,
// Array, Hash, Str, Range, Proc, Env, Fiber, Exception, Backtrace,
// Break, CData) the collector's marker and sweeper dispatch against
// through internal/kind, and the host-facing Runtime API a VM embedding
// this package drives.
package lumi
