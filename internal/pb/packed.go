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

// appendPackedInt64 appends a packed-repeated field of plain (non-zigzag)
// int64/int32 values.
func appendPackedInt64(buf []byte, fieldNum int, values []int64) []byte {
	if len(values) == 0 {
		return buf
	}

	payload := make([]byte, 0, len(values)*2)
	for _, v := range values {
		payload = appendVarint(payload, uint64(v))
	}

	buf = appendTag(buf, fieldNum, wireBytes)

	return appendBytes(buf, payload)
}

// appendPackedZigzag64 appends a packed-repeated field of sint64 values.
func appendPackedZigzag64(buf []byte, fieldNum int, values []int64) []byte {
	if len(values) == 0 {
		return buf
	}

	payload := make([]byte, 0, len(values)*2)
	for _, v := range values {
		payload = appendZigzag64(payload, v)
	}

	buf = appendTag(buf, fieldNum, wireBytes)

	return appendBytes(buf, payload)
}

// appendPackedZigzag32 appends a packed-repeated field of sint32 values.
func appendPackedZigzag32(buf []byte, fieldNum int, values []int32) []byte {
	if len(values) == 0 {
		return buf
	}

	payload := make([]byte, 0, len(values)*2)
	for _, v := range values {
		payload = appendZigzag32(payload, v)
	}

	buf = appendTag(buf, fieldNum, wireBytes)

	return appendBytes(buf, payload)
}

// appendPackedUint32 appends a packed-repeated field of plain uint32 values.
func appendPackedUint32(buf []byte, fieldNum int, values []uint32) []byte {
	if len(values) == 0 {
		return buf
	}

	payload := make([]byte, 0, len(values)*2)
	for _, v := range values {
		payload = appendVarint(payload, uint64(v))
	}

	buf = appendTag(buf, fieldNum, wireBytes)

	return appendBytes(buf, payload)
}

// appendPackedInt32 appends a packed-repeated field of plain int32 values.
func appendPackedInt32(buf []byte, fieldNum int, values []int32) []byte {
	if len(values) == 0 {
		return buf
	}

	payload := make([]byte, 0, len(values)*2)
	for _, v := range values {
		payload = appendVarint(payload, uint64(int64(v)))
	}

	buf = appendTag(buf, fieldNum, wireBytes)

	return appendBytes(buf, payload)
}

// appendPackedBool appends a packed-repeated field of bool values.
func appendPackedBool(buf []byte, fieldNum int, values []bool) []byte {
	if len(values) == 0 {
		return buf
	}

	payload := make([]byte, 0, len(values))
	for _, v := range values {
		if v {
			payload = append(payload, 1)
		} else {
			payload = append(payload, 0)
		}
	}

	buf = appendTag(buf, fieldNum, wireBytes)

	return appendBytes(buf, payload)
}

// decodePackedInt64 reads a length-delimited payload as a run of plain
// varints.
func decodePackedInt64(payload []byte) ([]int64, error) {
	d := newDecoder(payload)

	var out []int64

	for !d.done() {
		v, err := d.varint()
		if err != nil {
			return nil, err
		}

		out = append(out, int64(v))
	}

	return out, nil
}

func decodePackedZigzag64(payload []byte) ([]int64, error) {
	d := newDecoder(payload)

	var out []int64

	for !d.done() {
		v, err := d.varint()
		if err != nil {
			return nil, err
		}

		out = append(out, zigzagDecode64(v))
	}

	return out, nil
}

func decodePackedZigzag32(payload []byte) ([]int32, error) {
	d := newDecoder(payload)

	var out []int32

	for !d.done() {
		v, err := d.varint()
		if err != nil {
			return nil, err
		}

		out = append(out, zigzagDecode32(uint32(v)))
	}

	return out, nil
}

func decodePackedUint32(payload []byte) ([]uint32, error) {
	d := newDecoder(payload)

	var out []uint32

	for !d.done() {
		v, err := d.varint()
		if err != nil {
			return nil, err
		}

		out = append(out, uint32(v))
	}

	return out, nil
}

func decodePackedInt32(payload []byte) ([]int32, error) {
	d := newDecoder(payload)

	var out []int32

	for !d.done() {
		v, err := d.varint()
		if err != nil {
			return nil, err
		}

		out = append(out, int32(int64(v)))
	}

	return out, nil
}

func decodePackedBool(payload []byte) ([]bool, error) {
	out := make([]bool, len(payload))
	for i, b := range payload {
		out[i] = b != 0
	}

	return out, nil
}
