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

// Color is the tri-color-plus-red coloring of an object, packed into three
// bits per spec §3. There are exactly five colors in play at once: gray, the
// two whites (which swap roles every cycle), black, and the immortal red.
type Color uint8

const (
	ColorWhiteA Color = iota
	ColorWhiteB
	ColorGray
	ColorBlack
	ColorRed
)

func (c Color) String() string {
	switch c {
	case ColorWhiteA:
		return "white-A"
	case ColorWhiteB:
		return "white-B"
	case ColorGray:
		return "gray"
	case ColorBlack:
		return "black"
	case ColorRed:
		return "red"
	default:
		return "invalid-color"
	}
}

// otherWhite returns the white that is not w. Panics if w is not a white
// color; callers only ever call this with current_white_part or its
// complement, both of which are always one of the two whites.
func otherWhite(w Color) Color {
	switch w {
	case ColorWhiteA:
		return ColorWhiteB
	case ColorWhiteB:
		return ColorWhiteA
	default:
		panic("lumi: otherWhite called with a non-white color")
	}
}

// isWhite reports whether c is either white, regardless of which one is
// "current" this cycle.
func isWhite(c Color) bool { return c == ColorWhiteA || c == ColorWhiteB }
