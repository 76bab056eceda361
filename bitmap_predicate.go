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
	"math"

	"github.com/RoaringBitmap/roaring"
)

// BitmapFilterPredicate filters integer rows through an exact value bitmap
// shipped down as a runtime filter. Unlike a bloom filter its verdicts are
// exact, so downstream operators may rely on them and the predicate never
// participates in adaptive always-true disabling.
type BitmapFilterPredicate[T IntegerType] struct {
	basePredicate

	filter *roaring.Bitmap
}

// NewBitmapFilterPredicate builds an exact membership predicate over the
// values present in filter.
func NewBitmapFilterPredicate[T IntegerType](field FieldDescriptor, filter *roaring.Bitmap, opts ...PredicateOption) (*BitmapFilterPredicate[T], error) {
	if filter == nil {
		return nil, errInvalid("nil bitmap filter for column %s", field.Name)
	}

	p := &BitmapFilterPredicate[T]{
		basePredicate: newBasePredicate(PredBitmapFilter, field, opts),
		filter:        filter,
	}
	p.neverIgnore = true

	return p, nil
}

func (p *BitmapFilterPredicate[T]) match(v T) bool {
	n := int64(v)

	return n >= 0 && n <= math.MaxUint32 && p.filter.Contains(uint32(n))
}

// CanApplySafely requires an exact integer type match on a non-nullable
// column; the filter carries no null verdict.
func (p *BitmapFilterPredicate[T]) CanApplySafely(t PrimitiveType, nullable bool) bool {
	return t == PrimitiveTypeOf[T]() && !nullable
}

func (p *BitmapFilterPredicate[T]) SupportsZoneMap() bool { return false }

func (p *BitmapFilterPredicate[T]) Evaluate(col Column, sel []uint16, size int) (int, error) {
	return p.trackedEvaluate(p.evaluateInner, col, sel, size)
}

func (p *BitmapFilterPredicate[T]) evaluateInner(col Column, sel []uint16, size int) (int, error) {
	return evaluateSelection(col, sel, size, p.opposite, p.match)
}

func (p *BitmapFilterPredicate[T]) EvaluateAnd(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateAndFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *BitmapFilterPredicate[T]) EvaluateOr(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateOrFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *BitmapFilterPredicate[T]) EvaluateVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, false, p.match)
}

func (p *BitmapFilterPredicate[T]) EvaluateAndVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, true, p.match)
}
