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

package model

import (
	"fmt"
	"time"
)

// SupportedFeatures lists the OSMHeader required_features values this
// package knows how to decode. OsmSchema-V0.6 is the baseline PBF schema;
// DenseNodes is the columnar node encoding this package always understands.
// A file whose header lists anything else, such as HistoricalInformation,
// needs a reader this package does not provide.
var SupportedFeatures = map[string]bool{
	"OsmSchema-V0.6": true,
	"DenseNodes":     true,
}

// Header is the contents of the OpenStreetMap PBF data file.
type Header struct {
	BoundingBox                      *BoundingBox `json:"bounding_box,omitempty"`
	RequiredFeatures                 []string     `json:"required_features,omitempty"`
	OptionalFeatures                 []string     `json:"optional_features,omitempty"`
	WritingProgram                   string       `json:"writing_program,omitempty"`
	Source                           string       `json:"source,omitempty"`
	OsmosisReplicationTimestamp      time.Time    `json:"osmosis_replication_timestamp,omitempty"`
	OsmosisReplicationSequenceNumber int64        `json:"osmosis_replication_sequence_number,omitempty"`
	OsmosisReplicationBaseURL        string       `json:"osmosis_replication_base_url,omitempty"`
}

// CheckRequiredFeatures returns an error naming the first required_features
// entry this package cannot decode. A conformant reader must refuse a file
// that requires a feature it doesn't implement rather than silently produce
// incomplete data.
func (h Header) CheckRequiredFeatures() error {
	for _, feature := range h.RequiredFeatures {
		if !SupportedFeatures[feature] {
			return fmt.Errorf("model: unsupported required feature %q", feature)
		}
	}

	return nil
}

// HasReplicationInfo reports whether the header carries Osmosis replication
// metadata, which is only present on extracts produced by a replication
// pipeline rather than a one-off planet dump.
func (h Header) HasReplicationInfo() bool {
	return h.OsmosisReplicationSequenceNumber != 0 || h.OsmosisReplicationBaseURL != ""
}
