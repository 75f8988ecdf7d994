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

package index_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosmosis/pbf"
	"github.com/rosmosis/pbf/index"
	"github.com/rosmosis/pbf/model"
)

func buildSamplePBF(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.osm.pbf")

	f, err := os.Create(path)
	require.NoError(t, err)

	enc, err := pbf.NewEncoder(f)
	require.NoError(t, err)

	require.NoError(t, enc.Encode(&model.Node{
		ID: 1, Lat: 51.5, Lon: -0.1, Info: &model.Info{},
	}))
	require.NoError(t, enc.Encode(&model.Way{
		ID: 2, NodeIDs: []model.ID{1}, Info: &model.Info{},
	}))
	require.NoError(t, enc.Encode(&model.Relation{
		ID:      3,
		Members: []model.Member{{ID: 2, Type: model.WAY, Role: "outer"}},
		Info:    &model.Info{},
	}))

	enc.Close()
	require.NoError(t, f.Close())

	return path
}

func TestBuildAndFind(t *testing.T) {
	path := buildSamplePBF(t)

	r, err := index.Open(path)
	require.NoError(t, err)
	defer r.Close()

	e, err := r.Find(model.NODE, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), e.GetID())

	_, err = r.Find(model.NODE, 999)
	assert.ErrorIs(t, err, index.ErrNotFound)
}

func TestGetWithDepsResolvesClosure(t *testing.T) {
	path := buildSamplePBF(t)

	r, err := index.Open(path)
	require.NoError(t, err)
	defer r.Close()

	entities, err := r.GetWithDeps(model.RELATION, 3)
	require.NoError(t, err)

	ids := make(map[model.ID]bool, len(entities))
	for _, e := range entities {
		ids[e.GetID()] = true
	}

	assert.True(t, ids[1], "expected node 1 in closure")
	assert.True(t, ids[2], "expected way 2 in closure")
	assert.True(t, ids[3], "expected relation 3 in closure")
}

func TestOpenRebuildsStaleIndex(t *testing.T) {
	path := buildSamplePBF(t)

	r, err := index.Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Close())

	// Touching the pbf file after the sidecar was built makes it stale;
	// Open must detect that and rebuild rather than serve bad offsets.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	r2, err := index.Open(path)
	require.NoError(t, err)
	defer r2.Close()

	e, err := r2.Find(model.NODE, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ID(1), e.GetID())
}
