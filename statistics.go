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

// ZoneMapStats is the type-erased handle predicates accept for zone-map
// pruning. It is implemented by ZoneMap of every value type; a predicate
// asserts it back to the ZoneMap instantiation matching its own operand type.
type ZoneMapStats interface {
	isZoneMap()

	// NullInfo reports null presence without knowledge of the value type.
	NullInfo() (hasNull, hasNotNull bool)
}

// ZoneMap carries the per-segment summary statistics of one column: the
// minimum and maximum non-null value plus null presence flags. Predicates
// use it to prune whole segments before any row is read.
type ZoneMap[T ValueType] struct {
	Min T
	Max T

	// HasNull reports whether at least one row in the range is null.
	HasNull bool
	// HasNotNull reports whether at least one row in the range is non-null.
	// When false, Min and Max are meaningless and must not be consulted.
	HasNotNull bool
}

// NewZoneMap builds a summary for a range that contains non-null values
// between min and max and, when hasNull is set, null rows as well.
func NewZoneMap[T ValueType](min, max T, hasNull bool) ZoneMap[T] {
	return ZoneMap[T]{Min: min, Max: max, HasNull: hasNull, HasNotNull: true}
}

// NullOnlyZoneMap builds a summary for a range where every row is null.
func NullOnlyZoneMap[T ValueType]() ZoneMap[T] {
	return ZoneMap[T]{HasNull: true}
}

func (ZoneMap[T]) isZoneMap() {}

func (z ZoneMap[T]) NullInfo() (bool, bool) { return z.HasNull, z.HasNotNull }
