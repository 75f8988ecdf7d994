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

package decoder

import (
	"io"

	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

// ReadBlobAt reads one length-prefixed BlobHeader+Blob pair starting at the
// reader's current position. It is exported so the indexed reader can seek
// to a byte offset recorded in its sidecar and read exactly the blob stored
// there, without re-scanning the file from the beginning.
func ReadBlobAt(r io.Reader) (*pb.Blob, error) {
	return readBlob(r)
}

// DecodeSingleBlob unpacks and parses an already-read blob into its
// entities, in the same flattened, group-concatenated order that
// GenerateBlobReader's consumers see. The indexed reader relies on that
// ordering to translate a stored elementIndex back into an entity.
func DecodeSingleBlob(blob *pb.Blob) ([]model.Entity, error) {
	var (
		entities []model.Entity
		err      error
	)

	for res := range DecodeBatch([]*pb.Blob{blob}) {
		entities, err = res.Value, res.Error
	}

	return entities, err
}
