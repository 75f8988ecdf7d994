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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDegreesToCoordinateRoundTrip(t *testing.T) {
	cases := []struct {
		name        string
		offset      int64
		granularity int32
		degrees     Degrees
	}{
		{"zero", 0, 100, 0},
		{"london-lat", 0, 100, 51.5074},
		{"london-lon", 0, 100, -0.1278},
		{"max-lat", 0, 100, MaxLat},
		{"min-lon", 0, 100, MinLon},
		{"with-offset", 51_000_000_000, 100, 51.5074},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			coord := ToCoordinate(c.offset, c.granularity, c.degrees)
			got := ToDegrees(c.offset, c.granularity, coord)

			assert.True(t, got.EqualWithin(c.degrees, E7),
				"round trip %v -> %d -> %v", c.degrees, coord, got)
		})
	}
}

func TestDegreesEqualWithin(t *testing.T) {
	assert.True(t, Degrees(1.0000001).EqualWithin(1.0000002, E6))
	assert.False(t, Degrees(1.00001).EqualWithin(1.00002, E6))
}

func TestParseDegrees(t *testing.T) {
	d, err := ParseDegrees("51.5074")
	assert.NoError(t, err)
	assert.True(t, d.EqualWithin(51.5074, E9))

	_, err = ParseDegrees("not-a-number")
	assert.Error(t, err)
}
