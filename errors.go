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

package pbf

import (
	"errors"

	"github.com/rosmosis/pbf/model"
)

// ErrCreateTempFile is returned by NewEncoder when the temporary store used
// to buffer encoded entities before the header is known cannot be created.
var ErrCreateTempFile = errors.New("cannot create temporary store")

// ErrEntityNotFound is returned by indexed lookups when the requested
// element does not exist in the underlying PBF file.
var ErrEntityNotFound = errors.New("entity not found")

// ErrIndexStale is returned when a sidecar index does not match the size and
// modification time recorded for the PBF file it was built from.
var ErrIndexStale = errors.New("index is stale")

// ErrWriterFinalized is returned by Encode/EncodeBatch once Close has been
// called; the header and trailing blocks have already been written and the
// entity stream cannot be reopened.
var ErrWriterFinalized = errors.New("encoder is closed")

// ErrUnknownElementType is returned when decoding encounters a relation
// member (or other type-tagged field) outside the closed NODE/WAY/RELATION
// set. Aliased from model so decode code and callers can share one sentinel
// without an import cycle back through this package.
var ErrUnknownElementType = model.ErrUnknownElementType

// ErrStringTableIndexOutOfRange is returned when decoding encounters a
// string-table reference beyond the bounds of the block's string table.
// Aliased from model for the same reason as ErrUnknownElementType.
var ErrStringTableIndexOutOfRange = model.ErrStringTableIndexOutOfRange
