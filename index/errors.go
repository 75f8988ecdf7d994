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

import "github.com/rosmosis/pbf"

// ErrStale is returned by Open when an on-disk sidecar's freshness record
// does not match its source PBF file's current size and modification time.
var ErrStale = pbf.ErrIndexStale

// ErrNotFound is returned when a requested element does not appear in the
// sidecar.
var ErrNotFound = pbf.ErrEntityNotFound
