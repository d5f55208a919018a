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

// Config holds every tunable in spec §6, plus the arena sizing choice from
// §4.2. The embedding lumi package owns loading these from YAML/flags; this
// package only consumes the resolved values.
type Config struct {
	IntervalRatio   int // percent, default 200
	StepRatio       int // percent, default 200
	Generational    bool
	Disabled        bool
	HeapPageSize    int // slots per page, default 1024
	ArenaSize       int // entries, default 100
	ArenaGrowable   bool
	MajorGCIncRatio int // percent, default 120
	MajorGCTooMany  int // default 10000
	Stress          bool // force a full GC before every allocation
}

// DefaultConfig returns the defaults from spec §6.
func DefaultConfig() Config {
	return Config{
		IntervalRatio:   200,
		StepRatio:       200,
		Generational:    true,
		Disabled:        false,
		HeapPageSize:    1024,
		ArenaSize:       100,
		ArenaGrowable:   false,
		MajorGCIncRatio: 120,
		MajorGCTooMany:  10000,
		Stress:          false,
	}
}

// gcStepSize is GC_STEP_SIZE from spec §4.7: the unit the step budget and
// the post-cycle threshold floor are both expressed in.
const gcStepSize = 1024
