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
	"bytes"
	"cmp"

	"github.com/google/uuid"
)

// ValueType is a generic type constraint for the explicit Go types that a
// column value may take. This is the closed set of primitive types the
// predicate layer understands; complex/nested types never reach it.
type ValueType interface {
	bool | int8 | int16 | int32 | int64 | float32 | float64 |
		string | []byte | uuid.UUID | Decimal
}

// IntegerType is the subset of ValueType usable as bitmap-filter keys.
type IntegerType interface {
	int8 | int16 | int32 | int64
}

// Comparator is a comparison function for specific value types:
//
//	returns 0 if v1 == v2
//	returns <0 if v1 < v2
//	returns >0 if v1 > v2
type Comparator[T ValueType] func(v1, v2 T) int

// ComparatorFor returns the canonical comparator for T. Booleans order
// false before true, strings and binary compare bytewise, UUIDs compare as
// their 16-byte representation and decimals compare by rescaled value.
func ComparatorFor[T ValueType]() Comparator[T] {
	var z T
	switch any(z).(type) {
	case bool:
		return func(v1, v2 T) int {
			b1, b2 := any(v1).(bool), any(v2).(bool)
			switch {
			case b1 == b2:
				return 0
			case b1:
				return 1
			default:
				return -1
			}
		}
	case int8:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(int8), any(v2).(int8)) }
	case int16:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(int16), any(v2).(int16)) }
	case int32:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(int32), any(v2).(int32)) }
	case int64:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(int64), any(v2).(int64)) }
	case float32:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(float32), any(v2).(float32)) }
	case float64:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(float64), any(v2).(float64)) }
	case string:
		return func(v1, v2 T) int { return cmp.Compare(any(v1).(string), any(v2).(string)) }
	case []byte:
		return func(v1, v2 T) int { return bytes.Compare(any(v1).([]byte), any(v2).([]byte)) }
	case uuid.UUID:
		return func(v1, v2 T) int {
			u1, u2 := any(v1).(uuid.UUID), any(v2).(uuid.UUID)

			return bytes.Compare(u1[:], u2[:])
		}
	case Decimal:
		return func(v1, v2 T) int { return any(v1).(Decimal).Cmp(any(v2).(Decimal)) }
	}
	panic("unhandled value type")
}

// PrimitiveType identifies the runtime type of column values without
// resorting to reflection. It mirrors the ValueType constraint one to one.
type PrimitiveType int

const (
	TypeUnknown PrimitiveType = iota
	TypeBoolean
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeString
	TypeBinary
	TypeUUID
	TypeDecimal
)

func (t PrimitiveType) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeInt8:
		return "tinyint"
	case TypeInt16:
		return "smallint"
	case TypeInt32:
		return "int"
	case TypeInt64:
		return "bigint"
	case TypeFloat32:
		return "float"
	case TypeFloat64:
		return "double"
	case TypeString:
		return "string"
	case TypeBinary:
		return "binary"
	case TypeUUID:
		return "uuid"
	case TypeDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// PrimitiveTypeOf returns the PrimitiveType tag for T.
func PrimitiveTypeOf[T ValueType]() PrimitiveType {
	var z T
	switch any(z).(type) {
	case bool:
		return TypeBoolean
	case int8:
		return TypeInt8
	case int16:
		return TypeInt16
	case int32:
		return TypeInt32
	case int64:
		return TypeInt64
	case float32:
		return TypeFloat32
	case float64:
		return TypeFloat64
	case string:
		return TypeString
	case []byte:
		return TypeBinary
	case uuid.UUID:
		return TypeUUID
	case Decimal:
		return TypeDecimal
	}

	return TypeUnknown
}
