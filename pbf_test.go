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
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosmosis/pbf/model"
)

func encodeSample(t *testing.T, entities ...model.Entity) []byte {
	t.Helper()

	var out bytes.Buffer

	enc, err := NewEncoder(&out)
	require.NoError(t, err)

	for _, e := range entities {
		require.NoError(t, enc.Encode(e))
	}

	enc.Close()

	return out.Bytes()
}

func drain(t *testing.T, dec *Decoder) []model.Entity {
	t.Helper()

	var all []model.Entity

	for {
		batch, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return all
		}

		require.NoError(t, err)

		all = append(all, batch...)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	node := &model.Node{
		ID:   1,
		Lat:  model.Degrees(51.5074),
		Lon:  model.Degrees(-0.1278),
		Tags: map[string]string{"amenity": "cafe"},
		Info: &model.Info{Version: 1, Visible: true},
	}
	way := &model.Way{
		ID:      2,
		NodeIDs: []model.ID{1},
		Tags:    map[string]string{"highway": "residential"},
		Info:    &model.Info{Version: 1, Visible: true},
	}
	relation := &model.Relation{
		ID:      3,
		Members: []model.Member{{ID: 2, Type: model.WAY, Role: "outer"}},
		Tags:    map[string]string{"type": "multipolygon"},
		Info:    &model.Info{Version: 1, Visible: true},
	}

	data := encodeSample(t, node, way, relation)

	dec, err := NewDecoder(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	got := drain(t, dec)
	require.NoError(t, dec.Close())

	require.Len(t, got, 3)

	var gotNode *model.Node

	var gotWay *model.Way

	var gotRelation *model.Relation

	for _, e := range got {
		switch v := e.(type) {
		case *model.Node:
			gotNode = v
		case *model.Way:
			gotWay = v
		case *model.Relation:
			gotRelation = v
		}
	}

	require.NotNil(t, gotNode)
	require.NotNil(t, gotWay)
	require.NotNil(t, gotRelation)

	assert.Equal(t, model.ID(1), gotNode.ID)
	assert.True(t, gotNode.Lat.EqualWithin(node.Lat, model.E7))
	assert.True(t, gotNode.Lon.EqualWithin(node.Lon, model.E7))
	assert.Equal(t, "cafe", gotNode.Tags["amenity"])

	assert.Equal(t, model.ID(2), gotWay.ID)
	assert.Equal(t, []model.ID{1}, gotWay.NodeIDs)

	assert.Equal(t, model.ID(3), gotRelation.ID)
	require.Len(t, gotRelation.Members, 1)
	assert.Equal(t, model.WAY, gotRelation.Members[0].Type)
	assert.Equal(t, "outer", gotRelation.Members[0].Role)
}

func TestEncodeDecodeEmptyFile(t *testing.T) {
	data := encodeSample(t)

	dec, err := NewDecoder(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)

	got := drain(t, dec)
	require.NoError(t, dec.Close())

	assert.Empty(t, got)
}

func TestEncodeDecodeHeaderRoundTrip(t *testing.T) {
	var out bytes.Buffer

	enc, err := NewEncoder(&out,
		WithWritingProgram("rosmosis-test"),
		WithSource("test-fixture"),
		WithRequiredFeatures("OsmSchema-V0.6", "DenseNodes"),
	)
	require.NoError(t, err)

	node := &model.Node{
		ID:   1,
		Lat:  model.Degrees(1),
		Lon:  model.Degrees(2),
		Info: &model.Info{},
	}
	require.NoError(t, enc.Encode(node))
	enc.Close()

	dec, err := NewDecoder(context.Background(), bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	defer dec.Close()

	assert.Equal(t, "rosmosis-test", dec.Header.WritingProgram)
	assert.Equal(t, "test-fixture", dec.Header.Source)
	assert.Equal(t, []string{"OsmSchema-V0.6", "DenseNodes"}, dec.Header.RequiredFeatures)
}

func TestFindByTag(t *testing.T) {
	data := encodeSample(t,
		&model.Node{ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{"amenity": "cafe"}, Info: &model.Info{}},
		&model.Node{ID: 2, Lat: 2, Lon: 2, Tags: map[string]string{"amenity": "bar"}, Info: &model.Info{}},
	)

	e, err := FindByTag(context.Background(), bytes.NewReader(data), "amenity", "bar")
	require.NoError(t, err)
	assert.Equal(t, model.ID(2), e.GetID())

	_, err = FindByTag(context.Background(), bytes.NewReader(data), "amenity", "restaurant")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestFindAllByTagReturnsEveryMatchInFileOrder(t *testing.T) {
	data := encodeSample(t,
		&model.Node{ID: 1, Lat: 1, Lon: 1, Tags: map[string]string{"amenity": "cafe"}, Info: &model.Info{}},
		&model.Node{ID: 2, Lat: 2, Lon: 2, Tags: map[string]string{"amenity": "bar"}, Info: &model.Info{}},
		&model.Node{ID: 3, Lat: 3, Lon: 3, Tags: map[string]string{"amenity": "bar"}, Info: &model.Info{}},
	)

	matches, err := FindAllByTag(context.Background(), bytes.NewReader(data), "amenity", "bar")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, model.ID(2), matches[0].GetID())
	assert.Equal(t, model.ID(3), matches[1].GetID())

	matches, err = FindAllByTag(context.Background(), bytes.NewReader(data), "amenity", "restaurant")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestParFindMatchesPredicate(t *testing.T) {
	data := encodeSample(t,
		&model.Way{ID: 10, NodeIDs: []model.ID{1, 2}, Info: &model.Info{}},
		&model.Way{ID: 11, NodeIDs: []model.ID{3, 4}, Info: &model.Info{}},
	)

	e, err := ParFind(context.Background(), bytes.NewReader(data), func(e model.Entity) bool {
		w, ok := e.(*model.Way)

		return ok && w.ID == 11
	})
	require.NoError(t, err)
	assert.Equal(t, model.ID(11), e.GetID())
}
