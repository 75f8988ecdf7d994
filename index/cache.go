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
	"container/list"
	"sync"

	"github.com/rosmosis/pbf/model"
)

// DefaultCacheCapacity is the number of decoded blobs an LRUCache holds by
// default. Callers who know their working set is larger — e.g. many
// concurrent GetWithDeps calls whose dependency closures span more blobs
// than this — should size the cache explicitly with OpenWithCache.
const DefaultCacheCapacity = 16

// blockCacheEntry is the value stored per cached blob: its fully decoded,
// flattened entity list, addressable by the elementIndex recorded in the
// sidecar.
type blockCacheEntry struct {
	offset   uint64
	entities []model.Entity
}

// LRUCache caches decoded blobs keyed by their file offset. It exists
// because GetWithDeps commonly needs several entities that live in the same
// blob (a way and the nodes it references, in particular); decoding a
// 32MiB-capped blob is far more expensive than a map lookup.
//
// No LRU library appears anywhere in the retrieval pack, so this is built
// the way every Go LRU is: a doubly linked list for recency order plus a map
// for O(1) lookup, guarded by a single mutex.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	items    map[uint64]*list.Element
	order    *list.List
}

// NewLRUCache returns a cache holding up to capacity decoded blobs.
func NewLRUCache(capacity int) *LRUCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}

	return &LRUCache{
		capacity: capacity,
		items:    make(map[uint64]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get returns the decoded entities for offset, if cached.
func (c *LRUCache) Get(offset uint64) ([]model.Entity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[offset]
	if !ok {
		return nil, false
	}

	c.order.MoveToFront(el)

	return el.Value.(*blockCacheEntry).entities, true
}

// Put inserts or refreshes the decoded entities for offset. Decompression
// and parsing must have already happened outside of any lock the caller
// holds: Put only ever touches the cache's own bookkeeping, so a miss never
// blocks other readers while a blob is being decoded.
func (c *LRUCache) Put(offset uint64, entities []model.Entity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[offset]; ok {
		el.Value.(*blockCacheEntry).entities = entities
		c.order.MoveToFront(el)

		return
	}

	el := c.order.PushFront(&blockCacheEntry{offset: offset, entities: entities})
	c.items[offset] = el

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*blockCacheEntry).offset)
		}
	}
}
