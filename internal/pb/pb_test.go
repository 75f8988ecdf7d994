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

package pb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZigzagRoundTrip64(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 2, -2, 1<<62 - 1, -(1 << 62)} {
		assert.Equal(t, v, zigzagDecode64(zigzagEncode64(v)), "value %d", v)
	}
}

func TestZigzagRoundTrip32(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2, -2, 1<<30 - 1, -(1 << 30)} {
		assert.Equal(t, v, zigzagDecode32(zigzagEncode32(v)), "value %d", v)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 40, ^uint64(0)} {
		buf := appendVarint(nil, v)
		d := newDecoder(buf)

		got, err := d.varint()
		assert.NoError(t, err)
		assert.Equal(t, v, got)
		assert.True(t, d.done())
	}
}

func TestMalformedVarintErrors(t *testing.T) {
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80}
	d := newDecoder(buf)

	_, err := d.varint()
	assert.ErrorIs(t, err, ErrMalformedVarint)
}

func TestBlobHeaderRoundTrip(t *testing.T) {
	h := &BlobHeader{
		Type:     String("OSMData"),
		Datasize: Int32(12345),
	}

	buf, err := h.Marshal()
	assert.NoError(t, err)

	got := &BlobHeader{}
	assert.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, "OSMData", got.GetType())
	assert.Equal(t, int32(12345), got.GetDatasize())
}

func TestBlobRoundTripEachCompressionVariant(t *testing.T) {
	tests := []struct {
		name string
		blob *Blob
	}{
		{"raw", &Blob{RawSize: Int32(3), Data: &Blob_Raw{Raw: []byte("abc")}}},
		{"zlib", &Blob{RawSize: Int32(3), Data: &Blob_ZlibData{ZlibData: []byte("xyz")}}},
		{"lzma", &Blob{RawSize: Int32(3), Data: &Blob_LzmaData{LzmaData: []byte("xyz")}}},
		{"lz4", &Blob{RawSize: Int32(3), Data: &Blob_Lz4Data{Lz4Data: []byte("xyz")}}},
		{"zstd", &Blob{RawSize: Int32(3), Data: &Blob_ZstdData{ZstdData: []byte("xyz")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := tt.blob.Marshal()
			assert.NoError(t, err)

			got := &Blob{}
			assert.NoError(t, got.Unmarshal(buf))
			assert.Equal(t, tt.blob.GetRawSize(), got.GetRawSize())
			assert.Equal(t, rawDataOf(tt.blob), rawDataOf(got))
		})
	}
}

func TestPrimitiveBlockRoundTrip(t *testing.T) {
	blk := &PrimitiveBlock{
		Stringtable:     &StringTable{S: []string{"", "highway", "motorway"}},
		Granularity:     Int32(100),
		DateGranularity: Int32(1000),
		LatOffset:       Int64(0),
		LonOffset:       Int64(0),
		Primitivegroup: []*PrimitiveGroup{
			{
				Dense: &DenseNodes{
					Id:  []int64{1, 1, 1},
					Lat: []int64{100, -50, 50},
					Lon: []int64{200, -100, 100},
					Denseinfo: &DenseInfo{
						Version:   []int32{1, 0, 0},
						Timestamp: []int64{10, 5, 5},
						Changeset: []int64{1, 0, 0},
						Uid:       []int32{7, 0, 0},
						UserSid:   []int32{0, 0, 0},
					},
					KeysVals: []int32{1, 2, 0, 0, 0},
				},
			},
		},
	}

	buf, err := blk.Marshal()
	assert.NoError(t, err)

	got := &PrimitiveBlock{}
	assert.NoError(t, got.Unmarshal(buf))

	assert.Equal(t, blk.GetStringtable().GetS(), got.GetStringtable().GetS())
	assert.Equal(t, blk.GetGranularity(), got.GetGranularity())

	dn := got.GetPrimitivegroup()[0].GetDense()
	assert.Equal(t, []int64{1, 1, 1}, dn.GetId())
	assert.Equal(t, []int64{100, -50, 50}, dn.GetLat())
	assert.Equal(t, []int32{1, 0, 0}, dn.GetDenseinfo().GetVersion())
}

func TestWayRoundTrip(t *testing.T) {
	w := &Way{
		Id:   Int64(42),
		Keys: []uint32{1, 2},
		Vals: []uint32{3, 4},
		Refs: []int64{100, -50, 25},
		Info: &Info{Version: Int32(3), Visible: Bool(true)},
	}

	buf, err := w.Marshal()
	assert.NoError(t, err)

	got := &Way{}
	assert.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, int64(42), got.GetId())
	assert.Equal(t, []int64{100, -50, 25}, got.GetRefs())
	assert.True(t, got.GetInfo().GetVisible())
}

func TestRelationRoundTripWithMemberTypes(t *testing.T) {
	r := &Relation{
		Id:       Int64(7),
		RolesSid: []int32{1, 2},
		Memids:   []int64{5, -2},
		Types:    []Relation_MemberType{Relation_NODE, Relation_WAY},
	}

	buf, err := r.Marshal()
	assert.NoError(t, err)

	got := &Relation{}
	assert.NoError(t, got.Unmarshal(buf))
	assert.Equal(t, r.Types, got.GetTypes())
	assert.Equal(t, []int64{5, -2}, got.GetMemids())
}

func TestUnknownFieldsAreSkipped(t *testing.T) {
	buf := appendTag(nil, 99, wireVarint)
	buf = appendVarint(buf, 12345)
	buf = appendTag(buf, 1, wireBytes)
	buf = appendBytes(buf, []byte("OSMHeader"))
	buf = appendTag(buf, 3, wireVarint)
	buf = appendVarint(buf, 7)

	h := &BlobHeader{}
	err := h.Unmarshal(buf)
	assert.NoError(t, err)
	assert.Equal(t, "OSMHeader", h.GetType())
	assert.Equal(t, int32(7), h.GetDatasize())
}
