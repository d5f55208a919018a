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

import "fmt"

// Tag identifies the concrete kind of a managed object. It is a closed enum:
// new kinds are added here, not discovered dynamically, because the marker
// and sweeper both dispatch on it through a fixed-size table (see
// [Dispatch]).
type Tag uint8

// FREE is reserved: it may appear only in a [Header] sitting on a page's
// free-list (spec invariant 1). No live object ever carries it.
const FREE Tag = 0

// The closed set of managed kinds. Values start at 1 so the zero value of
// Tag is always FREE.
const (
	TagObject Tag = iota + 1
	TagClass
	TagModule
	TagSingletonClass
	TagIncludedClass
	TagEnvironment
	TagProc
	TagFiber
	TagArray
	TagHash
	TagString
	TagRange
	TagBreak
	TagException
	TagBacktrace
	TagCData
	TagRational
	TagSet

	numTags
)

var tagNames = [numTags]string{
	FREE:              "FREE",
	TagObject:         "Object",
	TagClass:          "Class",
	TagModule:         "Module",
	TagSingletonClass: "SingletonClass",
	TagIncludedClass:  "IncludedClass",
	TagEnvironment:    "Environment",
	TagProc:           "Proc",
	TagFiber:          "Fiber",
	TagArray:          "Array",
	TagHash:           "Hash",
	TagString:         "String",
	TagRange:          "Range",
	TagBreak:          "Break",
	TagException:      "Exception",
	TagBacktrace:      "Backtrace",
	TagCData:          "CData",
	TagRational:       "Rational",
	TagSet:            "Set",
}

func (t Tag) String() string {
	if int(t) < len(tagNames) && tagNames[t] != "" {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// classKinds is the set of tags a non-nil class pointer passed to Alloc is
// allowed to have (spec §4.4 step 1).
var classKinds = map[Tag]bool{
	TagClass:          true,
	TagSingletonClass: true,
	TagModule:         true,
	TagEnvironment:    true,
}

// IsClassLike reports whether tag is one of the kinds permitted to sit in
// Header.Class.
func IsClassLike(tag Tag) bool { return classKinds[tag] }

// NumTags returns the number of entries a Tag-indexed dispatch table
// needs (one past the highest valid Tag value), so an embedding layer
// can size its own table without reaching into this package's internals.
func NumTags() int { return int(numTags) }
