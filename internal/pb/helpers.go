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

package pb

// Message is implemented by every hand-written OSM PBF message type in this
// package.
type Message interface {
	Marshal() ([]byte, error)
	Unmarshal([]byte) error
}

// Marshal encodes m using the wire format described by fileformat.proto and
// osmformat.proto.
func Marshal(m Message) ([]byte, error) {
	return m.Marshal()
}

// Unmarshal decodes buf into m.
func Unmarshal(buf []byte, m Message) error {
	return m.Unmarshal(buf)
}

// Int32 returns a pointer to the int32 value v.
func Int32(v int32) *int32 { return &v }

// Int64 returns a pointer to the int64 value v.
func Int64(v int64) *int64 { return &v }

// String returns a pointer to the string value v.
func String(v string) *string { return &v }

// Bool returns a pointer to the bool value v.
func Bool(v bool) *bool { return &v }

func getInt32(p *int32) int32 {
	if p == nil {
		return 0
	}

	return *p
}

func getInt64(p *int64) int64 {
	if p == nil {
		return 0
	}

	return *p
}

func getString(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func getBool(p *bool) bool {
	if p == nil {
		return false
	}

	return *p
}
