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

package gc

import "github.com/pkg/errors"

// The error kinds of spec §7. ErrArenaOverflow is declared in roots.go,
// next to the component that raises it.
var (
	// ErrOutOfMemory names the out-of-memory error kind. Embedders are
	// expected to have a permanently-live (red) value standing in for this
	// in their own object model. Alloc never returns it: pages come from
	// Go's own allocator, which has no failure return to report.
	ErrOutOfMemory = errors.New("lumi: out of memory")

	// ErrStackOverflow is referenced from roots by the embedding layer; the
	// collector's only responsibility toward it is stripping its
	// instance-variable/message/backtrace references at final-mark (spec
	// §7), which is the embedding layer's job since those fields are
	// kind-specific.
	ErrStackOverflow = errors.New("lumi: stack overflow")

	// ErrTypeMismatch is raised by Alloc before any slot is consumed, when
	// class and tag are an invalid pair (spec §4.4 step 1).
	ErrTypeMismatch = errors.New("lumi: class/type tag mismatch")

	// ErrModeChangeDisallowed is raised when generational mode is toggled
	// while the collector is disabled or mid-iteration (spec §6).
	ErrModeChangeDisallowed = errors.New("lumi: cannot change generational mode while disabled or iterating")
)

// wrapf is a small helper so every raise site gets a stack trace attached
// via github.com/pkg/errors without repeating errors.Wrapf at each call.
func wrapf(err error, format string, args ...any) error {
	return errors.Wrapf(err, format, args...)
}
