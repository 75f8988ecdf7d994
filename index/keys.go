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

package index

import (
	"encoding/binary"
	"fmt"

	"github.com/rosmosis/pbf/model"
)

// freshnessKey is a single reserved badger key, chosen outside the
// elementType(1)||id(8) key space (element types only ever occupy 0-2) so it
// can never collide with a real entity key.
var freshnessKey = []byte{0xFF}

// location records where an element lives: the byte offset of the blob
// header that starts its blob, and its position once that blob is decoded
// into a flat, group-concatenated entity list.
type location struct {
	offset       uint64
	group        uint32
	elementIndex uint32
}

// encodeKey builds the sidecar key for an element, sorting the index into
// three contiguous runs (one per element type) ordered by id within each
// run.
func encodeKey(t model.EntityType, id model.ID) []byte {
	key := make([]byte, 9)
	key[0] = byte(t)
	binary.BigEndian.PutUint64(key[1:], uint64(id))

	return key
}

func encodeLocation(l location) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], l.offset)
	binary.BigEndian.PutUint32(b[8:12], l.group)
	binary.BigEndian.PutUint32(b[12:16], l.elementIndex)

	return b
}

func decodeLocation(b []byte) (location, error) {
	if len(b) != 16 {
		return location{}, fmt.Errorf("index: malformed location record (%d bytes)", len(b))
	}

	return location{
		offset:       binary.BigEndian.Uint64(b[0:8]),
		group:        binary.BigEndian.Uint32(b[8:12]),
		elementIndex: binary.BigEndian.Uint32(b[12:16]),
	}, nil
}

// freshness is the reserved record checked against the PBF file's current
// size and modification time before trusting an on-disk sidecar.
type freshness struct {
	pbfSize    uint64
	pbfModTime int64
}

func encodeFreshness(f freshness) []byte {
	b := make([]byte, 16)
	binary.BigEndian.PutUint64(b[0:8], f.pbfSize)
	binary.BigEndian.PutUint64(b[8:16], uint64(f.pbfModTime))

	return b
}

func decodeFreshness(b []byte) (freshness, error) {
	if len(b) != 16 {
		return freshness{}, fmt.Errorf("index: malformed freshness record (%d bytes)", len(b))
	}

	return freshness{
		pbfSize:    binary.BigEndian.Uint64(b[0:8]),
		pbfModTime: int64(binary.BigEndian.Uint64(b[8:16])),
	}, nil
}

// entityType reports the element type of a decoded entity, for use as the
// leading byte of its sidecar key.
func entityType(e model.Entity) (model.EntityType, error) {
	switch e.(type) {
	case *model.Node:
		return model.NODE, nil
	case *model.Way:
		return model.WAY, nil
	case *model.Relation:
		return model.RELATION, nil
	default:
		return 0, fmt.Errorf("index: unknown element type %T", e)
	}
}
