package decoder

import (
	"fmt"
	"log/slog"

	"github.com/destel/rill"

	"github.com/rosmosis/pbf/internal/core"
	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

// DecodeBatch decompresses and parses one batch of OSMData blobs on a
// background goroutine, streaming decoded entities out as they become
// available rather than waiting for the whole batch. All blobs in a batch
// share a single scratch buffer, reset between blobs, since the decode
// pipeline processes batches sequentially within a worker.
func DecodeBatch(blobs []*pb.Blob) <-chan rill.Try[[]model.Entity] {
	out := make(chan rill.Try[[]model.Entity])

	scratch := core.NewPooledBuffer()

	go func() {
		defer close(out)
		defer scratch.Close()

		for i, blob := range blobs {
			scratch.Reset()

			raw, err := unpack(scratch, blob)
			if err != nil {
				err = fmt.Errorf("blob %d in batch: %w", i, err)
				slog.Error("unable to unpack blob", "error", err)
				out <- rill.Try[[]model.Entity]{Error: err}

				return
			}

			entities, err := parsePrimitiveBlock(raw)
			if err != nil {
				err = fmt.Errorf("blob %d in batch: %w", i, err)
				slog.Error("unable to parse primitive block", "error", err)
				out <- rill.Try[[]model.Entity]{Error: err}

				return
			}

			out <- rill.Try[[]model.Entity]{Value: entities}
		}
	}()

	return out
}
