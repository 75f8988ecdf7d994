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

package encoder

import (
	"fmt"
	"io"

	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

func SaveHeader(wrtr io.Writer, hdr model.Header, compression BlobCompression) error {
	bbox := hdr.BoundingBox
	top, left, bottom, right := bbox.RawNanodegrees()
	hb := &pb.HeaderBlock{
		Bbox: &pb.HeaderBBox{
			Top:    pb.Int64(top),
			Left:   pb.Int64(left),
			Bottom: pb.Int64(bottom),
			Right:  pb.Int64(right),
		},
		RequiredFeatures:                 hdr.RequiredFeatures,
		OptionalFeatures:                 hdr.OptionalFeatures,
		Writingprogram:                   pb.String(hdr.WritingProgram),
		Source:                           pb.String(hdr.Source),
		OsmosisReplicationTimestamp:      pb.Int64(fromTimestamp(DateGranularityMs, hdr.OsmosisReplicationTimestamp)),
		OsmosisReplicationSequenceNumber: pb.Int64(hdr.OsmosisReplicationSequenceNumber),
		OsmosisReplicationBaseUrl:        pb.String(hdr.OsmosisReplicationBaseURL),
	}

	if err := writeBlob(wrtr, hb, compression); err != nil {
		return fmt.Errorf("could not write header: %w", err)
	}

	return nil
}
