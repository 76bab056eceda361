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

// Column is the read surface the predicate layer needs from the engine's
// vectorized column containers. The containers themselves, their encodings
// and their type system belong to the surrounding scan/storage layers.
type Column interface {
	// Size returns the number of rows materialized in the container.
	Size() int
	// IsNullAt reports whether the value at the given row ordinal is null,
	// will panic if row is out of bounds.
	IsNullAt(row int) bool
}

// TypedColumn exposes typed value access at a row ordinal. Predicates
// type-assert the Column they are handed down to this; callers guarantee the
// match via CanApplySafely.
type TypedColumn[T ValueType] interface {
	Column

	// Value returns the value at the given row ordinal. The result is
	// unspecified for null rows.
	Value(row int) T
}

// ColumnVector is a reference TypedColumn backed by plain slices. The scan
// glue and tests use it; production containers only need to satisfy
// TypedColumn.
type ColumnVector[T ValueType] struct {
	values []T
	nulls  []bool
}

// NewColumnVector wraps values in a non-nullable ColumnVector.
func NewColumnVector[T ValueType](values []T) *ColumnVector[T] {
	return &ColumnVector[T]{values: values}
}

// NewNullableColumnVector wraps values with a null map. nulls must either be
// nil or have the same length as values.
func NewNullableColumnVector[T ValueType](values []T, nulls []bool) *ColumnVector[T] {
	if nulls != nil && len(nulls) != len(values) {
		panic(errInvalid("null map length %d does not match %d values",
			len(nulls), len(values)))
	}

	return &ColumnVector[T]{values: values, nulls: nulls}
}

func (c *ColumnVector[T]) Size() int { return len(c.values) }

func (c *ColumnVector[T]) IsNullAt(row int) bool {
	return c.nulls != nil && c.nulls[row]
}

func (c *ColumnVector[T]) Value(row int) T { return c.values[row] }

// Nullable reports whether the vector carries a null map at all.
func (c *ColumnVector[T]) Nullable() bool { return c.nulls != nil }
