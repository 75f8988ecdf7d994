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

package index

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/rosmosis/pbf/internal/decoder"
	"github.com/rosmosis/pbf/model"
)

// Reader provides id-addressable random access into a PBF file, backed by a
// badger sidecar database and an in-memory LRU cache of decoded blobs.
type Reader struct {
	pbfPath string
	file    *os.File
	db      *badger.DB
	cache   *LRUCache
}

// Open opens the PBF file at pbfPath and its sidecar at pbfPath+SidecarSuffix,
// building the sidecar first if it is missing or stale. It uses
// DefaultCacheCapacity for the block cache; use OpenWithCache to size it
// explicitly.
func Open(pbfPath string) (*Reader, error) {
	return OpenWithCache(pbfPath, DefaultCacheCapacity)
}

// OpenWithCache is Open with an explicit block cache capacity, mirroring
// the original implementation's from_path_with_cache constructor.
func OpenWithCache(pbfPath string, cacheCapacity int) (*Reader, error) {
	indexPath := pbfPath + SidecarSuffix

	f, err := os.Open(pbfPath)
	if err != nil {
		return nil, fmt.Errorf("index: cannot open pbf file: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()

		return nil, fmt.Errorf("index: cannot stat pbf file: %w", err)
	}

	if _, err := os.Stat(indexPath); err != nil {
		if err := Build(pbfPath, indexPath); err != nil {
			f.Close()

			return nil, err
		}
	}

	opts := badger.DefaultOptions(indexPath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		f.Close()

		return nil, fmt.Errorf("index: cannot open sidecar: %w", err)
	}

	if err := checkFreshness(db, fi); err != nil {
		db.Close()

		if !errors.Is(err, ErrStale) {
			f.Close()

			return nil, err
		}

		if err := Build(pbfPath, indexPath); err != nil {
			f.Close()

			return nil, err
		}

		db, err = badger.Open(opts)
		if err != nil {
			f.Close()

			return nil, fmt.Errorf("index: cannot reopen sidecar: %w", err)
		}
	}

	return &Reader{
		pbfPath: pbfPath,
		file:    f,
		db:      db,
		cache:   NewLRUCache(cacheCapacity),
	}, nil
}

// Close releases the sidecar database and the underlying PBF file handle.
func (r *Reader) Close() error {
	dbErr := r.db.Close()
	fileErr := r.file.Close()

	if dbErr != nil {
		return dbErr
	}

	return fileErr
}

// Find returns the single element of type t with the given id.
func (r *Reader) Find(t model.EntityType, id model.ID) (model.Entity, error) {
	loc, err := r.lookup(t, id)
	if err != nil {
		return nil, err
	}

	entities, err := r.decodeAt(loc.offset)
	if err != nil {
		return nil, err
	}

	if int(loc.elementIndex) >= len(entities) {
		return nil, fmt.Errorf("index: %w: element index %d out of range for blob at offset %d",
			ErrNotFound, loc.elementIndex, loc.offset)
	}

	return entities[loc.elementIndex], nil
}

// GetWithDeps returns the element of type t with the given id, together
// with the full transitive closure of the elements it depends on: a way's
// nodes, and a relation's members (recursively, for relation members).
// Cyclic relations terminate via a visited set rather than looping forever.
// Requests are grouped by the blob they live in, so a blob holding several
// needed elements is only decoded once, but blobs are still visited in the
// order their elements were first requested, so the root and its
// dependencies come back in a stable, discovery-derived order even when a
// root's dependencies span more than one blob.
func (r *Reader) GetWithDeps(t model.EntityType, id model.ID) ([]model.Entity, error) {
	type want struct {
		t  model.EntityType
		id model.ID
	}

	visited := make(map[want]bool)
	pending := []want{{t, id}}
	result := make([]model.Entity, 0)

	for len(pending) > 0 {
		// Resolve locations for everything queued, then group by blob
		// offset so each blob is decoded at most once per round. offsets
		// records the order offsets were first seen so results come out in
		// discovery order rather than in the random order map iteration
		// would otherwise produce.
		byOffset := make(map[uint64][]location)

		var offsets []uint64

		for _, w := range pending {
			if visited[w] {
				continue
			}

			visited[w] = true

			loc, err := r.lookup(w.t, w.id)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}

				return nil, err
			}

			if _, seen := byOffset[loc.offset]; !seen {
				offsets = append(offsets, loc.offset)
			}

			byOffset[loc.offset] = append(byOffset[loc.offset], loc)
		}

		pending = pending[:0]

		for _, offset := range offsets {
			locs := byOffset[offset]

			entities, err := r.decodeAt(offset)
			if err != nil {
				return nil, err
			}

			for _, loc := range locs {
				if int(loc.elementIndex) >= len(entities) {
					continue
				}

				e := entities[loc.elementIndex]
				result = append(result, e)

				switch v := e.(type) {
				case *model.Way:
					for _, ref := range v.NodeIDs {
						pending = append(pending, want{model.NODE, ref})
					}
				case *model.Relation:
					for _, m := range v.Members {
						pending = append(pending, want{m.Type, m.ID})
					}
				}
			}
		}
	}

	return result, nil
}

func (r *Reader) lookup(t model.EntityType, id model.ID) (location, error) {
	var loc location

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(encodeKey(t, id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}

			return err
		}

		return item.Value(func(val []byte) error {
			loc, err = decodeLocation(val)

			return err
		})
	})

	return loc, err
}

// decodeAt decodes the blob at offset, going through the cache first.
// Decompression and parsing happen outside of any cache lock: a miss reads
// and decodes the blob, then a short-lived lock records the result. The
// loser of a race between two concurrent misses simply overwrites the
// cache entry with an equal value.
func (r *Reader) decodeAt(offset uint64) ([]model.Entity, error) {
	if entities, ok := r.cache.Get(offset); ok {
		return entities, nil
	}

	sr := io.NewSectionReader(r.file, int64(offset), math.MaxInt64-int64(offset))

	blob, err := decoder.ReadBlobAt(sr)
	if err != nil {
		return nil, fmt.Errorf("index: cannot read blob at offset %d: %w", offset, err)
	}

	entities, err := decoder.DecodeSingleBlob(blob)
	if err != nil {
		return nil, fmt.Errorf("index: cannot decode blob at offset %d: %w", offset, err)
	}

	r.cache.Put(offset, entities)

	return entities, nil
}
