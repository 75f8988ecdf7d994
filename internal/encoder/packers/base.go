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

package packers

import "io"

// base forwards Write and Close to an underlying compressing io.WriteCloser.
// Concrete packers embed *base and add a SaveTo method that copies the
// compressed bytes into the right oneof field of a pb.Blob.
type base struct {
	wrtr io.WriteCloser
}

func newBasePacker(wrtr io.WriteCloser) *base {
	return &base{wrtr: wrtr}
}

func (b *base) Write(p []byte) (int, error) {
	return b.wrtr.Write(p)
}

func (b *base) Close() error {
	return b.wrtr.Close()
}
