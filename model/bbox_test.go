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

func TestInitialBoundingBoxExpandsToFirstPoint(t *testing.T) {
	bbox := InitialBoundingBox()
	bbox.ExpandWithLatLng(51.5, -0.1)

	assert.True(t, bbox.EqualWithin(&BoundingBox{Top: 51.5, Left: -0.1, Bottom: 51.5, Right: -0.1}, E6))
}

func TestExpandWithLatLngGrowsEnvelope(t *testing.T) {
	bbox := InitialBoundingBox()
	bbox.ExpandWithLatLng(51.5, -0.1)
	bbox.ExpandWithLatLng(52.0, 0.3)
	bbox.ExpandWithLatLng(51.0, -0.5)

	assert.True(t, bbox.EqualWithin(&BoundingBox{Top: 52.0, Left: -0.5, Bottom: 51.0, Right: 0.3}, E6))
}

func TestExpandWithBoundingBox(t *testing.T) {
	a := &BoundingBox{Top: 10, Left: -10, Bottom: -10, Right: 10}
	b := &BoundingBox{Top: 20, Left: -5, Bottom: -5, Right: 5}

	a.ExpandWithBoundingBox(b)

	assert.True(t, a.EqualWithin(&BoundingBox{Top: 20, Left: -10, Bottom: -10, Right: 10}, E6))
}

func TestContains(t *testing.T) {
	bbox := &BoundingBox{Top: 10, Left: -10, Bottom: -10, Right: 10}

	assert.True(t, bbox.Contains(0, 0))
	assert.True(t, bbox.Contains(10, 10))
	assert.False(t, bbox.Contains(11, 0))
	assert.False(t, bbox.Contains(0, -11))
}
