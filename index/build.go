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

// Package index implements a persistent, id-addressable sidecar over a PBF
// file: a badger-backed offset table plus an LRU cache of decoded blobs,
// enabling O(1)-ish random access and dependency-closure retrieval without
// re-scanning the file.
package index

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/rosmosis/pbf/internal/decoder"
)

// SidecarSuffix names the badger database directory built alongside a PBF
// file: "<path>" + SidecarSuffix.
const SidecarSuffix = ".idx"

// Build scans the PBF file at pbfPath from front to back and writes a fresh
// sidecar database at indexPath, replacing anything already there.
func Build(pbfPath, indexPath string) error {
	f, err := os.Open(pbfPath)
	if err != nil {
		return fmt.Errorf("index: cannot open pbf file: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("index: cannot stat pbf file: %w", err)
	}

	if err := os.RemoveAll(indexPath); err != nil {
		return fmt.Errorf("index: cannot clear stale sidecar: %w", err)
	}

	opts := badger.DefaultOptions(indexPath)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("index: cannot open sidecar: %w", err)
	}
	defer db.Close()

	if _, err := decoder.LoadHeader(f); err != nil {
		return fmt.Errorf("index: cannot read pbf header: %w", err)
	}

	wb := db.NewWriteBatch()
	defer wb.Cancel()

	for {
		offset, err := f.Seek(0, io.SeekCurrent)
		if err != nil {
			return fmt.Errorf("index: cannot determine offset: %w", err)
		}

		blob, err := decoder.ReadBlobAt(f)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return fmt.Errorf("index: cannot read blob at offset %d: %w", offset, err)
		}

		entities, err := decoder.DecodeSingleBlob(blob)
		if err != nil {
			return fmt.Errorf("index: cannot decode blob at offset %d: %w", offset, err)
		}

		for i, e := range entities {
			t, err := entityType(e)
			if err != nil {
				return err
			}

			loc := location{offset: uint64(offset), elementIndex: uint32(i)}

			if err := wb.Set(encodeKey(t, e.GetID()), encodeLocation(loc)); err != nil {
				return fmt.Errorf("index: cannot write entry: %w", err)
			}
		}
	}

	entry := badger.NewEntry(freshnessKey, encodeFreshness(freshness{
		pbfSize:    uint64(fi.Size()),
		pbfModTime: fi.ModTime().UnixNano(),
	}))

	if err := wb.SetEntry(entry); err != nil {
		return fmt.Errorf("index: cannot write freshness record: %w", err)
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("index: cannot flush sidecar: %w", err)
	}

	slog.Info("built pbf index", "pbf", pbfPath, "index", indexPath)

	return nil
}

// checkFreshness reports whether the sidecar's recorded (size, modTime) for
// the source PBF still matches the file on disk.
func checkFreshness(db *badger.DB, fi os.FileInfo) error {
	var recorded freshness

	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(freshnessKey)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			recorded, err = decodeFreshness(val)

			return err
		})
	})
	if err != nil {
		return fmt.Errorf("index: cannot read freshness record: %w", err)
	}

	if recorded.pbfSize != uint64(fi.Size()) || recorded.pbfModTime != fi.ModTime().UnixNano() {
		return ErrStale
	}

	return nil
}
