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

// Info carries per-entity metadata: edit history, authorship, and
// visibility.
type Info struct {
	Version   *int32
	Timestamp *int64
	Changeset *int64
	Uid       *int32
	UserSid   *int32
	Visible   *bool
}

func (i *Info) GetVersion() int32   { return getInt32(i.Version) }
func (i *Info) GetTimestamp() int64 { return getInt64(i.Timestamp) }
func (i *Info) GetChangeset() int64 { return getInt64(i.Changeset) }
func (i *Info) GetUid() int32       { return getInt32(i.Uid) }
func (i *Info) GetUserSid() int32   { return getInt32(i.UserSid) }
func (i *Info) GetVisible() bool    { return getBool(i.Visible) }

func (i *Info) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 32)

	if i.Version != nil {
		buf = appendTag(buf, 1, wireVarint)
		buf = appendVarint(buf, uint64(int64(getInt32(i.Version))))
	}

	if i.Timestamp != nil {
		buf = appendTag(buf, 2, wireVarint)
		buf = appendVarint(buf, uint64(getInt64(i.Timestamp)))
	}

	if i.Changeset != nil {
		buf = appendTag(buf, 3, wireVarint)
		buf = appendVarint(buf, uint64(getInt64(i.Changeset)))
	}

	if i.Uid != nil {
		buf = appendTag(buf, 4, wireVarint)
		buf = appendVarint(buf, uint64(int64(getInt32(i.Uid))))
	}

	if i.UserSid != nil {
		buf = appendTag(buf, 5, wireVarint)
		buf = appendVarint(buf, uint64(int64(getInt32(i.UserSid))))
	}

	if i.Visible != nil {
		buf = appendTag(buf, 6, wireVarint)

		if getBool(i.Visible) {
			buf = appendVarint(buf, 1)
		} else {
			buf = appendVarint(buf, 0)
		}
	}

	return buf, nil
}

func (i *Info) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		if wireType != wireVarint {
			if err := d.skip(wireType); err != nil {
				return err
			}

			continue
		}

		v, err := d.varint()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			i.Version = Int32(int32(int64(v)))
		case 2:
			i.Timestamp = Int64(int64(v))
		case 3:
			i.Changeset = Int64(int64(v))
		case 4:
			i.Uid = Int32(int32(int64(v)))
		case 5:
			i.UserSid = Int32(int32(int64(v)))
		case 6:
			i.Visible = Bool(v != 0)
		}
	}

	return nil
}

// Node is a standalone, non-dense encoding of a single point. Real-world
// data almost always uses DenseNodes instead.
type Node struct {
	Id   *int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Lat  *int64
	Lon  *int64
}

func (n *Node) GetId() int64      { return getInt64(n.Id) }
func (n *Node) GetKeys() []uint32 { return n.Keys }
func (n *Node) GetVals() []uint32 { return n.Vals }
func (n *Node) GetInfo() *Info    { return n.Info }
func (n *Node) GetLat() int64     { return getInt64(n.Lat) }
func (n *Node) GetLon() int64     { return getInt64(n.Lon) }

func (n *Node) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 32)

	buf = appendTag(buf, 1, wireVarint)
	buf = appendZigzag64(buf, getInt64(n.Id))
	buf = appendPackedUint32(buf, 2, n.Keys)
	buf = appendPackedUint32(buf, 3, n.Vals)

	if n.Info != nil {
		ib, err := n.Info.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 4, wireBytes)
		buf = appendBytes(buf, ib)
	}

	buf = appendTag(buf, 8, wireVarint)
	buf = appendZigzag64(buf, getInt64(n.Lat))
	buf = appendTag(buf, 9, wireVarint)
	buf = appendZigzag64(buf, getInt64(n.Lon))

	return buf, nil
}

func (n *Node) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			v, err := d.varint()
			if err != nil {
				return err
			}

			n.Id = Int64(zigzagDecode64(v))
		case 2:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			n.Keys, err = decodePackedUint32(p)
			if err != nil {
				return err
			}
		case 3:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			n.Vals, err = decodePackedUint32(p)
			if err != nil {
				return err
			}
		case 4:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			n.Info = &Info{}
			if err := n.Info.Unmarshal(p); err != nil {
				return err
			}
		case 8:
			v, err := d.varint()
			if err != nil {
				return err
			}

			n.Lat = Int64(zigzagDecode64(v))
		case 9:
			v, err := d.varint()
			if err != nil {
				return err
			}

			n.Lon = Int64(zigzagDecode64(v))
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}

// Way is an ordered list of node references, encoded as deltas.
type Way struct {
	Id   *int64
	Keys []uint32
	Vals []uint32
	Info *Info
	Refs []int64
}

func (w *Way) GetId() int64      { return getInt64(w.Id) }
func (w *Way) GetKeys() []uint32 { return w.Keys }
func (w *Way) GetVals() []uint32 { return w.Vals }
func (w *Way) GetInfo() *Info    { return w.Info }
func (w *Way) GetRefs() []int64  { return w.Refs }

func (w *Way) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 32)

	buf = appendTag(buf, 1, wireVarint)
	buf = appendVarint(buf, uint64(getInt64(w.Id)))
	buf = appendPackedUint32(buf, 2, w.Keys)
	buf = appendPackedUint32(buf, 3, w.Vals)

	if w.Info != nil {
		ib, err := w.Info.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 4, wireBytes)
		buf = appendBytes(buf, ib)
	}

	buf = appendPackedZigzag64(buf, 8, w.Refs)

	return buf, nil
}

func (w *Way) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			v, err := d.varint()
			if err != nil {
				return err
			}

			w.Id = Int64(int64(v))
		case 2:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			w.Keys, err = decodePackedUint32(p)
			if err != nil {
				return err
			}
		case 3:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			w.Vals, err = decodePackedUint32(p)
			if err != nil {
				return err
			}
		case 4:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			w.Info = &Info{}
			if err := w.Info.Unmarshal(p); err != nil {
				return err
			}
		case 8:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			w.Refs, err = decodePackedZigzag64(p)
			if err != nil {
				return err
			}
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}

// Relation_MemberType enumerates the kinds of entity a relation Member can
// point at.
type Relation_MemberType int32

const (
	Relation_NODE     Relation_MemberType = 0
	Relation_WAY      Relation_MemberType = 1
	Relation_RELATION Relation_MemberType = 2
)

// Relation is a group of member entities identified by delta-encoded ids,
// string-table role indices, and member types.
type Relation struct {
	Id       *int64
	Keys     []uint32
	Vals     []uint32
	Info     *Info
	RolesSid []int32
	Memids   []int64
	Types    []Relation_MemberType
}

func (r *Relation) GetId() int64                       { return getInt64(r.Id) }
func (r *Relation) GetKeys() []uint32                  { return r.Keys }
func (r *Relation) GetVals() []uint32                  { return r.Vals }
func (r *Relation) GetInfo() *Info                     { return r.Info }
func (r *Relation) GetRolesSid() []int32               { return r.RolesSid }
func (r *Relation) GetMemids() []int64                 { return r.Memids }
func (r *Relation) GetTypes() []Relation_MemberType    { return r.Types }

func (r *Relation) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 32)

	buf = appendTag(buf, 1, wireVarint)
	buf = appendVarint(buf, uint64(getInt64(r.Id)))
	buf = appendPackedUint32(buf, 2, r.Keys)
	buf = appendPackedUint32(buf, 3, r.Vals)

	if r.Info != nil {
		ib, err := r.Info.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 4, wireBytes)
		buf = appendBytes(buf, ib)
	}

	buf = appendPackedInt32(buf, 8, r.RolesSid)
	buf = appendPackedZigzag64(buf, 9, r.Memids)

	if len(r.Types) > 0 {
		types := make([]int32, len(r.Types))
		for i, t := range r.Types {
			types[i] = int32(t)
		}

		buf = appendPackedInt32(buf, 10, types)
	}

	return buf, nil
}

func (r *Relation) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		switch fieldNum {
		case 1:
			v, err := d.varint()
			if err != nil {
				return err
			}

			r.Id = Int64(int64(v))
		case 2:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			r.Keys, err = decodePackedUint32(p)
			if err != nil {
				return err
			}
		case 3:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			r.Vals, err = decodePackedUint32(p)
			if err != nil {
				return err
			}
		case 4:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			r.Info = &Info{}
			if err := r.Info.Unmarshal(p); err != nil {
				return err
			}
		case 8:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			r.RolesSid, err = decodePackedInt32(p)
			if err != nil {
				return err
			}
		case 9:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			r.Memids, err = decodePackedZigzag64(p)
			if err != nil {
				return err
			}
		case 10:
			p, err := d.bytesField()
			if err != nil {
				return err
			}

			types, err := decodePackedInt32(p)
			if err != nil {
				return err
			}

			r.Types = make([]Relation_MemberType, len(types))
			for i, t := range types {
				r.Types[i] = Relation_MemberType(t)
			}
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}
