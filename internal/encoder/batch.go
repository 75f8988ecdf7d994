package encoder

import (
	"io"

	"github.com/destel/rill"

	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

// Coalesce fans the incoming stream of mixed-type entity slices out into
// three same-type batches of up to size elements each — nodes, ways, and
// relations — then merges those three batch streams back into one. This
// regroups entities by kind because PBF requires every PrimitiveGroup to
// hold entities of a single type; a caller can encode nodes as DenseNodes
// and ways/relations as their own arrays only once they arrive segregated
// like this.
func Coalesce(in <-chan []model.Entity, size int) <-chan rill.Try[[]model.Entity] {
	toNodes := make(chan rill.Try[model.Entity])
	toWays := make(chan rill.Try[model.Entity])
	toRelations := make(chan rill.Try[model.Entity])

	go func() {
		defer close(toNodes)
		defer close(toWays)
		defer close(toRelations)

		for entities := range in {
			for _, e := range entities {
				o := rill.Try[model.Entity]{Value: e}
				toNodes <- o
				toWays <- o
				toRelations <- o
			}
		}
	}()

	nodeBatches := batchEntities[*model.Node](toNodes, size)
	wayBatches := batchEntities[*model.Way](toWays, size)
	relationBatches := batchEntities[*model.Relation](toRelations, size)

	return rill.Merge(nodeBatches, relationBatches, wayBatches)
}

// ExtractBoundingBoxes taps the entity-batch stream, forwarding every batch
// unchanged while also emitting, per batch, the envelope of every node it
// contains. The caller reduces those per-batch envelopes into the file-wide
// bounding box written to the OSMHeader block; ways and relations don't
// contribute directly since their coordinates are reachable only through
// the nodes they reference.
func ExtractBoundingBoxes(
	in <-chan rill.Try[[]model.Entity],
) (
	<-chan rill.Try[[]model.Entity],
	<-chan rill.Try[*model.BoundingBox],
) {
	entities := make(chan rill.Try[[]model.Entity])
	bboxes := make(chan rill.Try[*model.BoundingBox])

	go func() {
		defer close(entities)
		defer close(bboxes)

		for batch := range in {
			entities <- batch

			bbox := model.InitialBoundingBox()

			for _, e := range batch.Value {
				if n, ok := e.(*model.Node); ok {
					bbox.ExpandWithLatLng(n.Lat, n.Lon)
				}
			}

			bboxes <- rill.Wrap(bbox, nil)
		}
	}()

	return entities, bboxes
}

// batchEntities filters in down to the entities of type T and groups them
// into batches, preserving arrival order within each batch. A batch flushes
// once it reaches maxCount entities or its estimated serialized size would
// exceed ByteLimit, whichever comes first.
func batchEntities[T model.Entity](in <-chan rill.Try[model.Entity], maxCount int) <-chan rill.Try[[]model.Entity] {
	filtered := rill.OrderedFilter(in, 1, func(e model.Entity) (bool, error) {
		_, ok := e.(T)

		return ok, nil
	})

	return sizeBoundedBatch(filtered, maxCount, ByteLimit)
}

// sizeBoundedBatch groups in into batches bounded by both element count and
// estimated byte size. rill.Batch only supports a count/timeout trigger, so
// this is hand-rolled to add the byte-size trigger SPEC_FULL.md §4.D
// requires alongside it.
func sizeBoundedBatch(in <-chan rill.Try[model.Entity], maxCount, maxBytes int) <-chan rill.Try[[]model.Entity] {
	out := make(chan rill.Try[[]model.Entity])

	go func() {
		defer close(out)

		var batch []model.Entity

		var batchBytes int

		flush := func() {
			if len(batch) == 0 {
				return
			}

			out <- rill.Try[[]model.Entity]{Value: batch}
			batch = nil
			batchBytes = 0
		}

		for item := range in {
			if item.Error != nil {
				flush()
				out <- rill.Try[[]model.Entity]{Error: item.Error}

				return
			}

			est := EstimateSize(item.Value)
			if len(batch) > 0 && (len(batch) >= maxCount || batchBytes+est > maxBytes) {
				flush()
			}

			batch = append(batch, item.Value)
			batchBytes += est
		}

		flush()
	}()

	return out
}

// EncodeBatch builds the PrimitiveBlock for one same-type batch of entities,
// encoding nodes as DenseNodes. Equivalent to GenerateBatchEncoder(true).
func EncodeBatch(batch []model.Entity) (*pb.PrimitiveBlock, error) {
	return GenerateBatchEncoder(true)(batch)
}

// GenerateBatchEncoder returns a batch encoder that emits nodes as
// DenseNodes when useDense is true, or as a plain Node array otherwise,
// suitable for use as a pipeline stage.
func GenerateBatchEncoder(useDense bool) func(batch []model.Entity) (*pb.PrimitiveBlock, error) {
	return func(batch []model.Entity) (*pb.PrimitiveBlock, error) {
		return newBlockContext(batch, useDense).extractPrimitiveBlock(), nil
	}
}

// SavePacked writes each packed blob in ch to w, in order, signalling
// completion (or the first write error) per blob on the returned channel.
func SavePacked(w io.Writer, ch <-chan rill.Try[[]byte]) <-chan rill.Try[struct{}] {
	out := make(chan rill.Try[struct{}])

	go func() {
		defer close(out)

		for buf := range ch {
			out <- rill.Wrap(struct{}{}, SaveBlock(w, buf))
		}
	}()

	return out
}

// GenerateBatchPacker returns a packer that compresses a PrimitiveBlock
// with the given compression, suitable for use as a pipeline stage.
func GenerateBatchPacker(c BlobCompression) func(block *pb.PrimitiveBlock) ([]byte, error) {
	return func(block *pb.PrimitiveBlock) ([]byte, error) {
		return Pack(block, c)
	}
}
