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

// Package core contains support types shared by the encoder and decoder
// pipelines that are not otherwise part of the public API.
package core

import (
	"bytes"
	"io"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// PooledBuffer is a bytes.Buffer borrowed from a shared pool.  Blob
// decoding is dominated by allocation churn on the scratch buffer used to
// hold decompressed bytes; pooling it keeps repeated calls to Decode cheap.
//
// A PooledBuffer must be returned to the pool with Close once it is no
// longer needed. It is not safe for concurrent use.
type PooledBuffer struct {
	buf *bytes.Buffer
}

// NewPooledBuffer borrows a buffer from the pool.
func NewPooledBuffer() *PooledBuffer {
	buf, _ := bufferPool.Get().(*bytes.Buffer)

	return &PooledBuffer{buf: buf}
}

// Close returns the underlying buffer to the pool.  The buffer must not be
// used again after Close is called.
func (p *PooledBuffer) Close() error {
	if p.buf == nil {
		return nil
	}

	p.buf.Reset()
	bufferPool.Put(p.buf)
	p.buf = nil

	return nil
}

// Reset clears the buffer's contents without releasing the backing array.
func (p *PooledBuffer) Reset() {
	p.buf.Reset()
}

// Grow grows the buffer's capacity to guarantee space for n more bytes.
func (p *PooledBuffer) Grow(n int) {
	p.buf.Grow(n)
}

// Cap returns the capacity of the buffer's underlying byte slice.
func (p *PooledBuffer) Cap() int {
	return p.buf.Cap()
}

// Len returns the number of bytes currently held in the buffer.
func (p *PooledBuffer) Len() int {
	return p.buf.Len()
}

// Bytes returns a slice of the buffer's unread portion.
func (p *PooledBuffer) Bytes() []byte {
	return p.buf.Bytes()
}

// Write implements io.Writer.
func (p *PooledBuffer) Write(b []byte) (int, error) {
	return p.buf.Write(b)
}

// ReadFrom implements io.ReaderFrom.
func (p *PooledBuffer) ReadFrom(r io.Reader) (int64, error) {
	return p.buf.ReadFrom(r)
}
