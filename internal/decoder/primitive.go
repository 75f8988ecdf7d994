// Copyright 2017-25 the original author or authors.
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

package decoder

import (
	"fmt"
	"time"

	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

// parsePrimitiveBlock unmarshals one decompressed OSMData payload and
// decodes every node, dense node, way, and relation found in its
// PrimitiveGroups into this package's model types. An internally
// inconsistent block (a dangling string-table index, an unrecognized
// relation member type) is reported as an error rather than a panic, so a
// single malformed block never brings down a caller decoding many blocks
// concurrently.
func parsePrimitiveBlock(raw []byte) ([]model.Entity, error) {
	block := &pb.PrimitiveBlock{}
	if err := pb.Unmarshal(raw, block); err != nil {
		return nil, fmt.Errorf("unable to unmarshal primitive block: %w", err)
	}

	c := newBlockContext(block)

	var entities []model.Entity

	for _, group := range block.GetPrimitivegroup() {
		nodes, err := c.decodeNodes(group.GetNodes())
		if err != nil {
			return nil, err
		}

		dense, err := c.decodeDenseNodes(group.GetDense())
		if err != nil {
			return nil, err
		}

		ways, err := c.decodeWays(group.GetWays())
		if err != nil {
			return nil, err
		}

		relations, err := c.decodeRelations(group.GetRelations())
		if err != nil {
			return nil, err
		}

		entities = append(entities, nodes...)
		entities = append(entities, dense...)
		entities = append(entities, ways...)
		entities = append(entities, relations...)
	}

	return entities, nil
}

// blockContext carries the per-block settings needed to interpret every
// entity within one PrimitiveBlock: its string table and its coordinate and
// timestamp quantization parameters.
type blockContext struct {
	strings         []string
	granularity     int32
	latOffset       int64
	lonOffset       int64
	dateGranularity int32
}

func newBlockContext(block *pb.PrimitiveBlock) *blockContext {
	return &blockContext{
		strings:         block.GetStringtable().GetS(),
		granularity:     block.GetGranularity(),
		latOffset:       block.GetLatOffset(),
		lonOffset:       block.GetLonOffset(),
		dateGranularity: block.GetDateGranularity(),
	}
}

// stringAt resolves a string-table index, reporting
// model.ErrStringTableIndexOutOfRange rather than panicking when idx names a
// position beyond the table decoded for this block.
func (c *blockContext) stringAt(idx int) (string, error) {
	if idx < 0 || idx >= len(c.strings) {
		return "", fmt.Errorf("%w: index %d, table has %d entries",
			model.ErrStringTableIndexOutOfRange, idx, len(c.strings))
	}

	return c.strings[idx], nil
}

// decodeNodes decodes the (rarely used) plain Node array of a
// PrimitiveGroup. Real-world extracts almost always carry nodes as
// DenseNodes instead; this path exists because the format allows both.
func (c *blockContext) decodeNodes(nodes []*pb.Node) ([]model.Entity, error) {
	entities := make([]model.Entity, len(nodes))

	for i, n := range nodes {
		tags, err := c.decodeTags(n.GetKeys(), n.GetVals())
		if err != nil {
			return nil, err
		}

		info, err := c.decodeInfo(n.GetInfo())
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Node{
			ID:   model.ID(n.GetId()),
			Tags: tags,
			Info: info,
			Lat:  model.ToDegrees(c.latOffset, c.granularity, n.GetLat()),
			Lon:  model.ToDegrees(c.lonOffset, c.granularity, n.GetLon()),
		}
	}

	return entities, nil
}

// decodeDenseNodes decodes a PrimitiveGroup's DenseNodes: parallel
// delta-encoded columns for id, lat, lon, and metadata, plus a single
// interleaved, zero-terminated key/value column shared across all nodes in
// the group.
func (c *blockContext) decodeDenseNodes(dense *pb.DenseNodes) ([]model.Entity, error) {
	if dense == nil {
		return nil, nil
	}

	ids := dense.GetId()
	entities := make([]model.Entity, len(ids))

	tags := c.newTagsContext(dense.GetKeysVals())
	info := c.newDenseInfoContext(dense.GetDenseinfo())
	lats := dense.GetLat()
	lons := dense.GetLon()

	var id, lat, lon int64

	for i := range ids {
		id += ids[i]
		lat += lats[i]
		lon += lons[i]

		nodeTags, err := tags.decodeTags()
		if err != nil {
			return nil, err
		}

		nodeInfo, err := info.decodeInfo(i)
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Node{
			ID:   model.ID(id),
			Tags: nodeTags,
			Info: nodeInfo,
			Lat:  model.ToDegrees(c.latOffset, c.granularity, lat),
			Lon:  model.ToDegrees(c.lonOffset, c.granularity, lon),
		}
	}

	return entities, nil
}

// decodeWays decodes a PrimitiveGroup's Way array, reconstructing each
// way's ordered node references from their delta-encoded form.
func (c *blockContext) decodeWays(ways []*pb.Way) ([]model.Entity, error) {
	entities := make([]model.Entity, len(ways))

	for i, w := range ways {
		deltas := w.GetRefs()
		refs := make([]model.ID, len(deltas))

		var ref int64

		for j, delta := range deltas {
			ref += delta
			refs[j] = model.ID(ref)
		}

		tags, err := c.decodeTags(w.GetKeys(), w.GetVals())
		if err != nil {
			return nil, err
		}

		info, err := c.decodeInfo(w.GetInfo())
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Way{
			ID:      model.ID(w.GetId()),
			Tags:    tags,
			NodeIDs: refs,
			Info:    info,
		}
	}

	return entities, nil
}

// decodeRelations decodes a PrimitiveGroup's Relation array.
func (c *blockContext) decodeRelations(relations []*pb.Relation) ([]model.Entity, error) {
	entities := make([]model.Entity, len(relations))

	for i, r := range relations {
		tags, err := c.decodeTags(r.GetKeys(), r.GetVals())
		if err != nil {
			return nil, err
		}

		info, err := c.decodeInfo(r.GetInfo())
		if err != nil {
			return nil, err
		}

		members, err := c.decodeMembers(r)
		if err != nil {
			return nil, err
		}

		entities[i] = &model.Relation{
			ID:      model.ID(r.GetId()),
			Tags:    tags,
			Info:    info,
			Members: members,
		}
	}

	return entities, nil
}

// decodeMembers reconstructs a relation's ordered member list from its
// three parallel arrays: delta-encoded member ids, member types, and
// string-table indices for each member's role.
func (c *blockContext) decodeMembers(r *pb.Relation) ([]model.Member, error) {
	deltas := r.GetMemids()
	types := r.GetTypes()
	roleIDs := r.GetRolesSid()
	members := make([]model.Member, len(deltas))

	var id int64

	for i := range deltas {
		id += deltas[i]

		t, err := decodeMemberType(types[i])
		if err != nil {
			return nil, err
		}

		role, err := c.stringAt(int(roleIDs[i]))
		if err != nil {
			return nil, err
		}

		members[i] = model.Member{
			ID:   model.ID(id),
			Type: t,
			Role: role,
		}
	}

	return members, nil
}

// decodeTags pairs up a plain Node/Way/Relation's parallel key/value index
// arrays into a tag map.
func (c *blockContext) decodeTags(keyIDs, valIDs []uint32) (map[string]string, error) {
	tags := make(map[string]string, len(keyIDs))

	for i, keyID := range keyIDs {
		key, err := c.stringAt(int(keyID))
		if err != nil {
			return nil, err
		}

		val, err := c.stringAt(int(valIDs[i]))
		if err != nil {
			return nil, err
		}

		tags[key] = val
	}

	return tags, nil
}

// decodeInfo decodes a plain Node/Way/Relation's optional metadata. A nil
// info (the field is optional on the wire) decodes to defaults with
// Visible true, matching the format's convention that an absent Info
// implies a visible, versionless entity.
func (c *blockContext) decodeInfo(info *pb.Info) (*model.Info, error) {
	out := &model.Info{Visible: true}
	if info == nil {
		return out, nil
	}

	user, err := c.stringAt(int(info.GetUserSid()))
	if err != nil {
		return nil, err
	}

	out.Version = info.GetVersion()
	out.Timestamp = toTimestamp(c.dateGranularity, info.GetTimestamp())
	out.Changeset = info.GetChangeset()
	out.UID = model.UID(info.GetUid())
	out.User = user

	if info.Visible != nil {
		out.Visible = info.GetVisible()
	}

	return out, nil
}

// newDenseInfoContext prepares a running-total decoder over a DenseNodes
// group's DenseInfo columns. The columns themselves stay delta-encoded;
// denseInfoContext.decodeInfo accumulates them one row at a time.
func (c *blockContext) newDenseInfoContext(di *pb.DenseInfo) *denseInfoContext {
	uids := make([]model.UID, len(di.GetUid()))
	for i, uid := range di.GetUid() {
		uids[i] = model.UID(uid)
	}

	visibilities := di.GetVisible()
	if len(visibilities) == 0 {
		// An absent or empty visibility column means every node in the
		// group is visible; decodeInfo treats a nil slice as that default.
		visibilities = nil
	}

	return &denseInfoContext{
		c:            c,
		versions:     di.GetVersion(),
		uids:         uids,
		timestamps:   di.GetTimestamp(),
		changesets:   di.GetChangeset(),
		userSids:     di.GetUserSid(),
		visibilities: visibilities,
	}
}

// denseInfoContext accumulates the running totals of a DenseInfo's
// delta-encoded columns as decodeInfo is called once per node, in order.
type denseInfoContext struct {
	version   int32
	timestamp int64
	changeset int64
	uid       model.UID
	userSid   int32

	c            *blockContext
	versions     []int32
	uids         []model.UID
	timestamps   []int64
	changesets   []int64
	userSids     []int32
	visibilities []bool
}

// decodeInfo applies row i's deltas and returns the metadata for that dense
// node. Calls must be made in increasing order of i, since each call
// depends on the running totals left by the previous one.
func (dic *denseInfoContext) decodeInfo(i int) (*model.Info, error) {
	dic.version += dic.versions[i]
	dic.uid += dic.uids[i]
	dic.timestamp += dic.timestamps[i]
	dic.changeset += dic.changesets[i]
	dic.userSid += dic.userSids[i]

	user, err := dic.c.stringAt(int(dic.userSid))
	if err != nil {
		return nil, err
	}

	info := &model.Info{
		Version:   dic.version,
		UID:       dic.uid,
		Timestamp: toTimestamp(dic.c.dateGranularity, dic.timestamp),
		Changeset: dic.changeset,
		User:      user,
		Visible:   true,
	}

	if dic.visibilities != nil {
		info.Visible = dic.visibilities[i]
	}

	return info, nil
}

// tagsContext walks a DenseNodes group's single, shared, zero-terminated
// key/value column, handing back one node's worth of tags per call.
type tagsContext struct {
	c       *blockContext
	pos     int
	keyVals []int32
}

func (c *blockContext) newTagsContext(keyVals []int32) *tagsContext {
	tc := &tagsContext{c: c}

	if len(keyVals) != 0 {
		tc.keyVals = keyVals
	}

	return tc
}

// decodeTags returns the next node's tags, advancing past its terminating
// zero. The DenseNodes format omits the column entirely when no node in the
// group carries tags.
func (tic *tagsContext) decodeTags() (map[string]string, error) {
	if tic.keyVals == nil {
		return map[string]string{}, nil
	}

	tags := make(map[string]string)
	i := tic.pos

	for tic.keyVals[i] > 0 {
		key, err := tic.c.stringAt(int(tic.keyVals[i]))
		if err != nil {
			return nil, err
		}

		val, err := tic.c.stringAt(int(tic.keyVals[i+1]))
		if err != nil {
			return nil, err
		}

		tags[key] = val
		i += 2
	}

	tic.pos = i + 1

	return tags, nil
}

// decodeMemberType converts protobuf enum Relation_MemberType to a
// EntityType, reporting model.ErrUnknownElementType for any value outside
// the closed NODE/WAY/RELATION set rather than panicking.
func decodeMemberType(mt pb.Relation_MemberType) (model.EntityType, error) {
	switch mt {
	case pb.Relation_NODE:
		return model.NODE, nil
	case pb.Relation_WAY:
		return model.WAY, nil
	case pb.Relation_RELATION:
		return model.RELATION, nil
	default:
		return 0, fmt.Errorf("%w: %d", model.ErrUnknownElementType, mt)
	}
}

// toTimestamp converts a timestamp with a specific granularity, in units of
// milliseconds, to a UTC timestamp of type Time.
func toTimestamp(granularity int32, timestamp int64) time.Time {
	return time.UnixMilli(timestamp * int64(granularity)).UTC()
}
