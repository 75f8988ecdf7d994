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

// BlobHeader precedes every Blob on the wire and tells the reader the
// blob's type and encoded size.
type BlobHeader struct {
	Type      *string
	Indexdata []byte
	Datasize  *int32
}

func (h *BlobHeader) GetType() string     { return getString(h.Type) }
func (h *BlobHeader) GetDatasize() int32  { return getInt32(h.Datasize) }
func (h *BlobHeader) GetIndexdata() []byte { return h.Indexdata }

func (h *BlobHeader) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 32)

	buf = appendTag(buf, 1, wireBytes)
	buf = appendBytes(buf, []byte(getString(h.Type)))

	if h.Indexdata != nil {
		buf = appendTag(buf, 2, wireBytes)
		buf = appendBytes(buf, h.Indexdata)
	}

	buf = appendTag(buf, 3, wireVarint)
	buf = appendVarint(buf, uint64(uint32(getInt32(h.Datasize))))

	return buf, nil
}

func (h *BlobHeader) Unmarshal(buf []byte) error {
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

			h.Type = String(string(b))
		case 2:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			h.Indexdata = append([]byte(nil), b...)
		case 3:
			v, err := d.varint()
			if err != nil {
				return err
			}

			h.Datasize = Int32(int32(v))
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}

// Blob holds the (possibly compressed) payload named by a preceding
// BlobHeader. Exactly one of the Data variants is populated.
type Blob struct {
	RawSize *int32
	Data    isBlobData
}

type isBlobData interface {
	isBlobData()
}

type Blob_Raw struct{ Raw []byte }
type Blob_ZlibData struct{ ZlibData []byte }
type Blob_LzmaData struct{ LzmaData []byte }
type Blob_Lz4Data struct{ Lz4Data []byte }
type Blob_ZstdData struct{ ZstdData []byte }

func (*Blob_Raw) isBlobData()      {}
func (*Blob_ZlibData) isBlobData() {}
func (*Blob_LzmaData) isBlobData() {}
func (*Blob_Lz4Data) isBlobData()  {}
func (*Blob_ZstdData) isBlobData() {}

func (b *Blob) GetRawSize() int32 { return getInt32(b.RawSize) }

func (b *Blob) GetRaw() []byte {
	if v, ok := b.Data.(*Blob_Raw); ok {
		return v.Raw
	}

	return nil
}

func (b *Blob) GetZlibData() []byte {
	if v, ok := b.Data.(*Blob_ZlibData); ok {
		return v.ZlibData
	}

	return nil
}

func (b *Blob) GetLzmaData() []byte {
	if v, ok := b.Data.(*Blob_LzmaData); ok {
		return v.LzmaData
	}

	return nil
}

func (b *Blob) GetLz4Data() []byte {
	if v, ok := b.Data.(*Blob_Lz4Data); ok {
		return v.Lz4Data
	}

	return nil
}

func (b *Blob) GetZstdData() []byte {
	if v, ok := b.Data.(*Blob_ZstdData); ok {
		return v.ZstdData
	}

	return nil
}

func (b *Blob) Marshal() ([]byte, error) {
	buf := make([]byte, 0, len(rawDataOf(b))+16)

	switch v := b.Data.(type) {
	case *Blob_Raw:
		buf = appendTag(buf, 1, wireBytes)
		buf = appendBytes(buf, v.Raw)
	case nil:
	default:
	}

	if b.RawSize != nil {
		buf = appendTag(buf, 2, wireVarint)
		buf = appendZigzagFreeInt32(buf, getInt32(b.RawSize))
	}

	switch v := b.Data.(type) {
	case *Blob_ZlibData:
		buf = appendTag(buf, 3, wireBytes)
		buf = appendBytes(buf, v.ZlibData)
	case *Blob_LzmaData:
		buf = appendTag(buf, 4, wireBytes)
		buf = appendBytes(buf, v.LzmaData)
	case *Blob_Lz4Data:
		buf = appendTag(buf, 6, wireBytes)
		buf = appendBytes(buf, v.Lz4Data)
	case *Blob_ZstdData:
		buf = appendTag(buf, 7, wireBytes)
		buf = appendBytes(buf, v.ZstdData)
	}

	return buf, nil
}

func rawDataOf(b *Blob) []byte {
	switch v := b.Data.(type) {
	case *Blob_Raw:
		return v.Raw
	case *Blob_ZlibData:
		return v.ZlibData
	case *Blob_LzmaData:
		return v.LzmaData
	case *Blob_Lz4Data:
		return v.Lz4Data
	case *Blob_ZstdData:
		return v.ZstdData
	default:
		return nil
	}
}

// appendZigzagFreeInt32 encodes a plain (non-zigzag) int32 field, matching
// protobuf's handling of the int32 type: negative values sign-extend to a
// 10-byte varint.
func appendZigzagFreeInt32(buf []byte, v int32) []byte {
	return appendVarint(buf, uint64(int64(v)))
}

func (b *Blob) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			v, err := d.bytesField()
			if err != nil {
				return err
			}

			b.Data = &Blob_Raw{Raw: append([]byte(nil), v...)}
		case 2:
			v, err := d.varint()
			if err != nil {
				return err
			}

			b.RawSize = Int32(int32(int64(v)))
		case 3:
			v, err := d.bytesField()
			if err != nil {
				return err
			}

			b.Data = &Blob_ZlibData{ZlibData: append([]byte(nil), v...)}
		case 4:
			v, err := d.bytesField()
			if err != nil {
				return err
			}

			b.Data = &Blob_LzmaData{LzmaData: append([]byte(nil), v...)}
		case 6:
			v, err := d.bytesField()
			if err != nil {
				return err
			}

			b.Data = &Blob_Lz4Data{Lz4Data: append([]byte(nil), v...)}
		case 7:
			v, err := d.bytesField()
			if err != nil {
				return err
			}

			b.Data = &Blob_ZstdData{ZstdData: append([]byte(nil), v...)}
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}
