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

// StringTable is the shared pool of strings referenced by index from every
// entity in a PrimitiveBlock. Index 0 is reserved.
type StringTable struct {
	S []string
}

func (t *StringTable) GetS() []string { return t.S }

func (t *StringTable) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 64*len(t.S))

	for _, s := range t.S {
		buf = appendTag(buf, 1, wireBytes)
		buf = appendBytes(buf, []byte(s))
	}

	return buf, nil
}

func (t *StringTable) Unmarshal(buf []byte) error {
	d := newDecoder(buf)

	for !d.done() {
		fieldNum, wireType, err := d.tag()
		if err != nil {
			return err
		}

		if fieldNum != 1 {
			if err := d.skip(wireType); err != nil {
				return err
			}

			continue
		}

		b, err := d.bytesField()
		if err != nil {
			return err
		}

		t.S = append(t.S, string(b))
	}

	return nil
}

// PrimitiveGroup is a homogeneous collection of entities: nodes, a single
// DenseNodes block, ways, or relations, never mixed.
type PrimitiveGroup struct {
	Nodes     []*Node
	Dense     *DenseNodes
	Ways      []*Way
	Relations []*Relation
}

func (g *PrimitiveGroup) GetNodes() []*Node         { return g.Nodes }
func (g *PrimitiveGroup) GetDense() *DenseNodes     { return g.Dense }
func (g *PrimitiveGroup) GetWays() []*Way           { return g.Ways }
func (g *PrimitiveGroup) GetRelations() []*Relation { return g.Relations }

func (g *PrimitiveGroup) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 256)

	for _, n := range g.Nodes {
		b, err := n.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 1, wireBytes)
		buf = appendBytes(buf, b)
	}

	if g.Dense != nil {
		b, err := g.Dense.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 2, wireBytes)
		buf = appendBytes(buf, b)
	}

	for _, w := range g.Ways {
		b, err := w.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 3, wireBytes)
		buf = appendBytes(buf, b)
	}

	for _, r := range g.Relations {
		b, err := r.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 4, wireBytes)
		buf = appendBytes(buf, b)
	}

	return buf, nil
}

func (g *PrimitiveGroup) Unmarshal(buf []byte) error {
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

			n := &Node{}
			if err := n.Unmarshal(b); err != nil {
				return err
			}

			g.Nodes = append(g.Nodes, n)
		case 2:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			dn := &DenseNodes{}
			if err := dn.Unmarshal(b); err != nil {
				return err
			}

			g.Dense = dn
		case 3:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			w := &Way{}
			if err := w.Unmarshal(b); err != nil {
				return err
			}

			g.Ways = append(g.Ways, w)
		case 4:
			b, err := d.bytesField()
			if err != nil {
				return err
			}

			r := &Relation{}
			if err := r.Unmarshal(b); err != nil {
				return err
			}

			g.Relations = append(g.Relations, r)
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}

// PrimitiveBlock is the unit of encoding within an OSMData blob: a shared
// string table, coordinate quantization parameters, and one or more
// PrimitiveGroups.
type PrimitiveBlock struct {
	Stringtable     *StringTable
	Primitivegroup  []*PrimitiveGroup
	Granularity     *int32
	DateGranularity *int32
	LatOffset       *int64
	LonOffset       *int64
}

func (b *PrimitiveBlock) GetStringtable() *StringTable      { return b.Stringtable }
func (b *PrimitiveBlock) GetPrimitivegroup() []*PrimitiveGroup { return b.Primitivegroup }

func (b *PrimitiveBlock) GetGranularity() int32 {
	if b.Granularity == nil {
		return 100
	}

	return *b.Granularity
}

func (b *PrimitiveBlock) GetDateGranularity() int32 {
	if b.DateGranularity == nil {
		return 1000
	}

	return *b.DateGranularity
}

func (b *PrimitiveBlock) GetLatOffset() int64 { return getInt64(b.LatOffset) }
func (b *PrimitiveBlock) GetLonOffset() int64 { return getInt64(b.LonOffset) }

func (b *PrimitiveBlock) Marshal() ([]byte, error) {
	buf := make([]byte, 0, 1024)

	if b.Stringtable != nil {
		sb, err := b.Stringtable.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 1, wireBytes)
		buf = appendBytes(buf, sb)
	}

	for _, g := range b.Primitivegroup {
		gb, err := g.Marshal()
		if err != nil {
			return nil, err
		}

		buf = appendTag(buf, 2, wireBytes)
		buf = appendBytes(buf, gb)
	}

	if b.Granularity != nil {
		buf = appendTag(buf, 17, wireVarint)
		buf = appendVarint(buf, uint64(int64(getInt32(b.Granularity))))
	}

	if b.DateGranularity != nil {
		buf = appendTag(buf, 18, wireVarint)
		buf = appendVarint(buf, uint64(int64(getInt32(b.DateGranularity))))
	}

	if b.LatOffset != nil {
		buf = appendTag(buf, 19, wireVarint)
		buf = appendVarint(buf, uint64(getInt64(b.LatOffset)))
	}

	if b.LonOffset != nil {
		buf = appendTag(buf, 20, wireVarint)
		buf = appendVarint(buf, uint64(getInt64(b.LonOffset)))
	}

	return buf, nil
}

func (b *PrimitiveBlock) Unmarshal(buf []byte) error {
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

			b.Stringtable = &StringTable{}
			if err := b.Stringtable.Unmarshal(v); err != nil {
				return err
			}
		case 2:
			v, err := d.bytesField()
			if err != nil {
				return err
			}

			g := &PrimitiveGroup{}
			if err := g.Unmarshal(v); err != nil {
				return err
			}

			b.Primitivegroup = append(b.Primitivegroup, g)
		case 17:
			v, err := d.varint()
			if err != nil {
				return err
			}

			b.Granularity = Int32(int32(int64(v)))
		case 18:
			v, err := d.varint()
			if err != nil {
				return err
			}

			b.DateGranularity = Int32(int32(int64(v)))
		case 19:
			v, err := d.varint()
			if err != nil {
				return err
			}

			b.LatOffset = Int64(int64(v))
		case 20:
			v, err := d.varint()
			if err != nil {
				return err
			}

			b.LonOffset = Int64(int64(v))
		default:
			if err := d.skip(wireType); err != nil {
				return err
			}
		}
	}

	return nil
}
