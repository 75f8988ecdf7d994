// Copyright 2017-25 the original author or authors.
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
	"fmt"
	"io"

	"github.com/rosmosis/pbf/internal/core"
	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

// LoadHeader reads and parses the OSMHeader blob that must be the first
// blob in every PBF file.
func LoadHeader(reader io.Reader) (model.Header, error) {
	blob, err := readBlob(reader)
	if err != nil {
		return model.Header{}, fmt.Errorf("unable to read header blob: %w", err)
	}

	buf := core.NewPooledBuffer()
	defer buf.Close()

	unpacked, err := unpack(buf, blob)
	if err != nil {
		return model.Header{}, fmt.Errorf("unable to unpack header blob: %w", err)
	}

	hb := &pb.HeaderBlock{}
	if err := pb.Unmarshal(unpacked, hb); err != nil {
		return model.Header{}, fmt.Errorf("unable to unmarshal header block: %w", err)
	}

	hdr := toHeader(hb)
	if err := hdr.CheckRequiredFeatures(); err != nil {
		return model.Header{}, err
	}

	return hdr, nil
}

func toHeader(hb *pb.HeaderBlock) model.Header {
	hdr := model.Header{
		RequiredFeatures:                 hb.GetRequiredFeatures(),
		OptionalFeatures:                 hb.GetOptionalFeatures(),
		WritingProgram:                   hb.GetWritingprogram(),
		Source:                           hb.GetSource(),
		OsmosisReplicationSequenceNumber: hb.GetOsmosisReplicationSequenceNumber(),
		OsmosisReplicationBaseURL:        hb.GetOsmosisReplicationBaseUrl(),
	}

	if ts := hb.GetOsmosisReplicationTimestamp(); ts != 0 {
		hdr.OsmosisReplicationTimestamp = toTimestamp(1000, ts)
	}

	if bbox := hb.GetBbox(); bbox != nil {
		hdr.BoundingBox = &model.BoundingBox{
			Top:    model.ToDegrees(0, 1, bbox.GetTop()),
			Left:   model.ToDegrees(0, 1, bbox.GetLeft()),
			Bottom: model.ToDegrees(0, 1, bbox.GetBottom()),
			Right:  model.ToDegrees(0, 1, bbox.GetRight()),
		}
	}

	return hdr
}
