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

// HeaderBBox is the bounding box of the data contained in the file, always
// expressed in nanodegrees regardless of the PrimitiveBlock granularity.
type HeaderBBox struct {
	Left   *int64
	Right  *int64
	Top    *int64
	Bottom *int64
}

func (h *HeaderBBox) GetLeft() int64   { return getInt64(h.Left) }
func (h *HeaderBBox) GetRight() int64  { return getInt64(h.Right) }
func (h *HeaderBBox) GetTop() int64    { return getInt64(h.Top) }
func (h *HeaderBBox) GetBottom() int64 { return getInt64(h.Bottom) }

func (h *HeaderBBox) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 40)

	buf = appendTag(buf, 1, wireVarint)
	buf = appendZigzag64(buf, getInt64(h.Left))
	buf = appendTag(buf, 2, wireVarint)
	buf = appendZigzag64(buf, getInt64(h.Right))
	buf = appendTag(buf, 3, wireVarint)
	buf = appendZigzag64(buf, getInt64(h.Top))
	buf = appendTag(buf, 4, wireVarint)
	buf = appendZigzag64(buf, getInt64(h.Bottom))

	return buf, nil
}

func (h *HeaderBBox) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1, 2, 3, 4:
			v, err := d.varint()
			if err != nil {
				return err
			}

			val := zigzagDecode64(v)

			switch fieldNum {
			case 1:
				h.Left = Int64(val)
			case 2:
				h.Right = Int64(val)
			case 3:
				h.Top = Int64(val)
			case 4:
				h.Bottom = Int64(val)
			}
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}

// HeaderBlock is the first blob in every PBF file, describing the data
// that follows.
type HeaderBlock struct {
	Bbox                             *HeaderBBox
	RequiredFeatures                 []string
	OptionalFeatures                 []string
	Writingprogram                   *string
	Source                           *string
	OsmosisReplicationTimestamp      *int64
	OsmosisReplicationSequenceNumber *int64
	OsmosisReplicationBaseUrl        *string
}

func (h *HeaderBlock) GetBbox() *HeaderBBox            { return h.Bbox }
func (h *HeaderBlock) GetRequiredFeatures() []string   { return h.RequiredFeatures }
func (h *HeaderBlock) GetOptionalFeatures() []string   { return h.OptionalFeatures }
func (h *HeaderBlock) GetWritingprogram() string       { return getString(h.Writingprogram) }
func (h *HeaderBlock) GetSource() string               { return getString(h.Source) }
func (h *HeaderBlock) GetOsmosisReplicationTimestamp() int64 {
	return getInt64(h.OsmosisReplicationTimestamp)
}
func (h *HeaderBlock) GetOsmosisReplicationSequenceNumber() int64 {
	return getInt64(h.OsmosisReplicationSequenceNumber)
}
func (h *HeaderBlock) GetOsmosisReplicationBaseUrl() string {
	return getString(h.OsmosisReplicationBaseUrl)
}

func (h *HeaderBlock) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 128)

	if h.Bbox != nil {
		bb, err := h.Bbox.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 1, wireBytes)
		buf = appendBytes(buf, bb)
	}

	for _, s := range h.RequiredFeatures {
		buf = appendTag(buf, 4, wireBytes)
		buf = appendBytes(buf, []byte(s))
	}

	for _, s := range h.OptionalFeatures {
		buf = appendTag(buf, 5, wireBytes)
		buf = appendBytes(buf, []byte(s))
	}

	if h.Writingprogram != nil {
		buf = appendTag(buf, 16, wireBytes)
		buf = appendBytes(buf, []byte(getString(h.Writingprogram)))
	}

	if h.Source != nil {
		buf = appendTag(buf, 17, wireBytes)
		buf = appendBytes(buf, []byte(getString(h.Source)))
	}

	if h.OsmosisReplicationTimestamp != nil {
		buf = appendTag(buf, 32, wireVarint)
		buf = appendVarint(buf, uint64(getInt64(h.OsmosisReplicationTimestamp)))
	}

	if h.OsmosisReplicationSequenceNumber != nil {
		buf = appendTag(buf, 33, wireVarint)
		buf = appendVarint(buf, uint64(getInt64(h.OsmosisReplicationSequenceNumber)))
	}

	if h.OsmosisReplicationBaseUrl != nil {
		buf = appendTag(buf, 34, wireBytes)
		buf = appendBytes(buf, []byte(getString(h.OsmosisReplicationBaseUrl)))
	}

	return buf, nil
}

func (h *HeaderBlock) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.Bbox = &HeaderBBox{}
			if err := h.Bbox.Unmarshal(b); err != nil {
				return err
			}
		case 4:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.RequiredFeatures = append(h.RequiredFeatures, string(b))
		case 5:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.OptionalFeatures = append(h.OptionalFeatures, string(b))
		case 16:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.Writingprogram = String(string(b))
		case 17:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.Source = String(string(b))
		case 32:
			v, err := d.varint()
			if err != nil {
				return err
			}

			h.OsmosisReplicationTimestamp = Int64(int64(v))
		case 33:
			v, err := d.varint()
			if err != nil {
				return err
			}

			h.OsmosisReplicationSequenceNumber = Int64(int64(v))
		case 34:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.OsmosisReplicationBaseUrl = String(string(b))
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}
