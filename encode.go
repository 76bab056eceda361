// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package doris

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// EncodeValue renders a value in the order-preserving byte form shared by
// bloom-filter keys and bitmap-index dictionary entries: for any two values
// of the same type, bytes.Compare on their encodings agrees with
// ComparatorFor. Integers flip the sign bit on a big-endian layout, floats
// use the IEEE-754 total-order transform, strings and binary pass through.
func EncodeValue[T ValueType](v T) []byte {
	switch v := any(v).(type) {
	case bool:
		if v {
			return []byte{1}
		}

		return []byte{0}
	case int8:
		return []byte{uint8(v) ^ 0x80}
	case int16:
		return binary.BigEndian.AppendUint16(nil, uint16(v)^0x8000)
	case int32:
		return binary.BigEndian.AppendUint32(nil, uint32(v)^0x8000_0000)
	case int64:
		return binary.BigEndian.AppendUint64(nil, uint64(v)^0x8000_0000_0000_0000)
	case float32:
		return binary.BigEndian.AppendUint32(nil, orderFloat32(v))
	case float64:
		return binary.BigEndian.AppendUint64(nil, orderFloat64(v))
	case string:
		return []byte(v)
	case []byte:
		return v
	case uuid.UUID:
		return v[:]
	case Decimal:
		raw, err := v.rescaledRaw()
		if err != nil {
			// out-of-range operand, encode saturated so ordering still holds
			raw = maxDecimalRaw
		}
		var buf [17]byte
		raw.FillBytes(buf[1:])
		if raw.Sign() < 0 {
			// big.Int FillBytes stores magnitude; negate to two's complement
			for i := range buf {
				buf[i] = ^buf[i]
			}
			carry(buf[:])
		}
		buf[0] ^= 0x80

		return buf[:]
	}
	panic("unhandled value type")
}

func carry(b []byte) {
	for i := len(b) - 1; i >= 0; i-- {
		b[i]++
		if b[i] != 0 {
			return
		}
	}
}

// orderFloat32 maps a float to an unsigned integer whose natural order
// matches the float order: positive values get the sign bit set, negative
// values are bitwise inverted.
func orderFloat32(f float32) uint32 {
	bits := math.Float32bits(f)
	if bits&0x8000_0000 != 0 {
		return ^bits
	}

	return bits | 0x8000_0000
}

func orderFloat64(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&0x8000_0000_0000_0000 != 0 {
		return ^bits
	}

	return bits | 0x8000_0000_0000_0000
}
