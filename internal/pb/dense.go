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

// DenseInfo carries per-node metadata for a DenseNodes group, matching the
// order of DenseNodes.Id. Every numeric slice is delta-encoded across the
// group; Visible is not.
type DenseInfo struct {
	Version   []int32
	Timestamp []int64
	Changeset []int64
	Uid       []int32
	UserSid   []int32
	Visible   []bool
}

func (d *DenseInfo) GetVersion() []int32   { return d.Version }
func (d *DenseInfo) GetTimestamp() []int64 { return d.Timestamp }
func (d *DenseInfo) GetChangeset() []int64 { return d.Changeset }
func (d *DenseInfo) GetUid() []int32       { return d.Uid }
func (d *DenseInfo) GetUserSid() []int32   { return d.UserSid }
func (d *DenseInfo) GetVisible() []bool    { return d.Visible }

func (d *DenseInfo) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 64)

	buf = appendPackedInt32(buf, 1, d.Version)
	buf = appendPackedZigzag64(buf, 2, d.Timestamp)
	buf = appendPackedZigzag64(buf, 3, d.Changeset)
	buf = appendPackedZigzag32(buf, 4, d.Uid)
	buf = appendPackedZigzag32(buf, 5, d.UserSid)
	buf = appendPackedBool(buf, 6, d.Visible)

	return buf, nil
}

func (d *DenseInfo) Unmarshal(buf []byte) error {
	dec := newDecoder(buf)

	for !dec.done() {
		fieldNum, wireType, err := dec.tag()
		if err != nil {
			return err
		}

		if wireType != wireBytes {
			if err := dec.skip(wireType); err != nil {
				return err
			}

			continue
		}

		payload, err := dec.bytesField()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			d.Version, err = decodePackedInt32(payload)
		case 2:
			d.Timestamp, err = decodePackedZigzag64(payload)
		case 3:
			d.Changeset, err = decodePackedZigzag64(payload)
		case 4:
			d.Uid, err = decodePackedZigzag32(payload)
		case 5:
			d.UserSid, err = decodePackedZigzag32(payload)
		case 6:
			d.Visible, err = decodePackedBool(payload)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// DenseNodes is the compact, columnar encoding of a run of nodes: Id, Lat
// and Lon are delta-encoded relative to the previous entry; KeysVals is a
// plain interleaved, zero-terminated column.
type DenseNodes struct {
	Id        []int64
	Denseinfo *DenseInfo
	Lat       []int64
	Lon       []int64
	KeysVals  []int32
}

func (n *DenseNodes) GetId() []int64            { return n.Id }
func (n *DenseNodes) GetDenseinfo() *DenseInfo  { return n.Denseinfo }
func (n *DenseNodes) GetLat() []int64           { return n.Lat }
func (n *DenseNodes) GetLon() []int64           { return n.Lon }
func (n *DenseNodes) GetKeysVals() []int32      { return n.KeysVals }

func (n *DenseNodes) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 128)

	buf = appendPackedZigzag64(buf, 1, n.Id)

	if n.Denseinfo != nil {
		ib, err := n.Denseinfo.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 5, wireBytes)
		buf = appendBytes(buf, ib)
	}

	buf = appendPackedZigzag64(buf, 8, n.Lat)
	buf = appendPackedZigzag64(buf, 9, n.Lon)
	buf = appendPackedInt32(buf, 10, n.KeysVals)

	return buf, nil
}

func (n *DenseNodes) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		if wireType != wireBytes {
			if err := d.skip(wireType); err != nil {
				return err
			}

			continue
		}

		payload, err := d.bytesField()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			n.Id, err = decodePackedZigzag64(payload)
		case 5:
			n.Denseinfo = &DenseInfo{}
			err = n.Denseinfo.Unmarshal(payload)
		case 8:
			n.Lat, err = decodePackedZigzag64(payload)
		case 9:
			n.Lon, err = decodePackedZigzag64(payload)
		case 10:
			n.KeysVals, err = decodePackedInt32(payload)
		}

		if err != nil {
			return err
		}
	}

	return nil
}
