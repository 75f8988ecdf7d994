// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package model

import "errors"

// ErrUnknownElementType is returned when a relation member (or other
// type-tagged field) carries a value outside the closed NODE/WAY/RELATION
// set. A malformed or forward-incompatible block can contain this; it is a
// decode error, not a programming error, and must never panic.
var ErrUnknownElementType = errors.New("unknown element type")

// ErrStringTableIndexOutOfRange is returned when a key, value, role, or user
// reference names a string-table index beyond the table decoded for that
// block. This signals an internally inconsistent block rather than a
// programming error, and must never panic.
var ErrStringTableIndexOutOfRange = errors.New("string table index out of range")
