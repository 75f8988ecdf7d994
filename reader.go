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

package pbf

import (
	"context"
	"errors"
	"io"

	"github.com/destel/rill"

	"github.com/rosmosis/pbf/internal/decoder"
	"github.com/rosmosis/pbf/internal/pb"
	"github.com/rosmosis/pbf/model"
)

// Decoder reads a stream of OSM entities out of a PBF file, forwarding
// through the OSMHeader block first.
type Decoder struct {
	Header model.Header

	cancel context.CancelFunc
	out    <-chan rill.Try[[]model.Entity]
	closed bool
}

// NewDecoder returns a new decoder, configured with opts, that reads from r.
// The header block is read and parsed eagerly; the remaining blocks are
// decoded lazily, in the background, as Decode is called.
func NewDecoder(ctx context.Context, r io.Reader, opts ...DecoderOption) (*Decoder, error) {
	cfg := defaultDecoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	header, err := decoder.LoadHeader(r)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)

	batches := blobBatches(decoder.GenerateBlobReader(ctx, r), cfg.protoBatchSize)
	out := rill.OrderedMap(batches, int(cfg.nCPU), decodeBlobBatch)

	return &Decoder{
		Header: header,
		cancel: cancel,
		out:    out,
	}, nil
}

// Decode returns the next batch of decoded entities. It returns io.EOF once
// the stream is exhausted, and it stops the background pipeline before
// returning any other error.
func (d *Decoder) Decode() ([]model.Entity, error) {
	res, ok := <-d.out
	if !ok {
		return nil, io.EOF
	}

	if res.Error != nil {
		d.cancel()

		return nil, res.Error
	}

	return res.Value, nil
}

// Close cancels the background decoding pipeline and releases its
// resources. It is safe to call more than once.
func (d *Decoder) Close() error {
	if d.closed {
		return nil
	}

	d.closed = true
	d.cancel()

	for range d.out {
	}

	return nil
}

// blobBatches groups the blobs produced by iter into batches of size, so
// that the decode pipeline can be fanned out across multiple goroutines
// without decoding one blob per goroutine spin-up.
func blobBatches(iter func(yield func(*pb.Blob, error) bool), size int) <-chan rill.Try[[]*pb.Blob] {
	if size <= 0 {
		size = DefaultBatchSize
	}

	ch := make(chan rill.Try[[]*pb.Blob])

	go func() {
		defer close(ch)

		batch := make([]*pb.Blob, 0, size)

		iter(func(blob *pb.Blob, err error) bool {
			if err != nil {
				ch <- rill.Try[[]*pb.Blob]{Error: err}

				return false
			}

			batch = append(batch, blob)
			if len(batch) < size {
				return true
			}

			ch <- rill.Try[[]*pb.Blob]{Value: batch}
			batch = make([]*pb.Blob, 0, size)

			return true
		})

		if len(batch) > 0 {
			ch <- rill.Try[[]*pb.Blob]{Value: batch}
		}
	}()

	return ch
}

// decodeBlobBatch unpacks and parses every blob in batch, draining
// decoder.DecodeBatch's per-blob channel into a single slice.
func decodeBlobBatch(batch []*pb.Blob) ([]model.Entity, error) {
	var entities []model.Entity

	for res := range decoder.DecodeBatch(batch) {
		if res.Error != nil {
			return nil, res.Error
		}

		entities = append(entities, res.Value...)
	}

	return entities, nil
}

// ParFind scans r in parallel, calling predicate on every decoded entity
// until it returns true. The scan is unordered: workers race to find a
// match and the first one found cancels the rest. It returns
// ErrEntityNotFound if no entity satisfies predicate before the stream is
// exhausted.
func ParFind(ctx context.Context, r io.Reader, predicate func(model.Entity) bool, opts ...DecoderOption) (model.Entity, error) {
	cfg := defaultDecoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := decoder.LoadHeader(r); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches := blobBatches(decoder.GenerateBlobReader(ctx, r), cfg.protoBatchSize)
	decoded := rill.Map(batches, int(cfg.nCPU), decodeBlobBatch)

	var (
		found model.Entity
		ferr  error
	)

	for res := range decoded {
		if res.Error != nil {
			if ferr == nil && !errors.Is(res.Error, context.Canceled) {
				ferr = res.Error
			}

			cancel()

			continue
		}

		if found != nil {
			continue
		}

		for _, e := range res.Value {
			if predicate(e) {
				found = e

				break
			}
		}

		if found != nil {
			cancel()
		}
	}

	if ferr != nil {
		return nil, ferr
	}

	if found == nil {
		return nil, ErrEntityNotFound
	}

	return found, nil
}

// FindByTag scans r for the first entity carrying the tag key=value. It is
// a thin, tag-oriented convenience wrapper around ParFind: not an index
// lookup, just a linear scan with a predicate. Because the scan is
// unordered, "first" means first found, not first in file order; use
// FindAllByTag when every match, in file order, is needed.
func FindByTag(ctx context.Context, r io.Reader, key, value string, opts ...DecoderOption) (model.Entity, error) {
	return ParFind(ctx, r, func(e model.Entity) bool {
		v, ok := e.GetTags()[key]

		return ok && v == value
	}, opts...)
}

// FindAllByTag scans r for every entity carrying the tag key=value,
// returning matches in file order. Unlike ParFind/FindByTag it cannot stop
// early, and it decodes with an ordered pipeline stage so that batch results
// are consumed in the same order blobs appear in the file.
func FindAllByTag(ctx context.Context, r io.Reader, key, value string, opts ...DecoderOption) ([]model.Entity, error) {
	cfg := defaultDecoderConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := decoder.LoadHeader(r); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches := blobBatches(decoder.GenerateBlobReader(ctx, r), cfg.protoBatchSize)
	decoded := rill.OrderedMap(batches, int(cfg.nCPU), decodeBlobBatch)

	var matches []model.Entity

	for res := range decoded {
		if res.Error != nil {
			return nil, res.Error
		}

		for _, e := range res.Value {
			if v, ok := e.GetTags()[key]; ok && v == value {
				matches = append(matches, e)
			}
		}
	}

	return matches, nil
}
