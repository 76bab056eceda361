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
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// NullPredicate evaluates IS_NULL or IS_NOT_NULL. It inspects only the null
// map, so it applies to columns of any value type.
type NullPredicate struct {
	basePredicate
}

// NewNullPredicate builds an IS_NULL test when isNull is set, otherwise an
// IS_NOT_NULL test.
func NewNullPredicate(field FieldDescriptor, isNull bool, opts ...PredicateOption) *NullPredicate {
	t := PredIsNotNull
	if isNull {
		t = PredIsNull
	}

	return &NullPredicate{basePredicate: newBasePredicate(t, field, opts)}
}

// CanApplySafely always holds: a non-nullable column simply never matches
// IS_NULL.
func (p *NullPredicate) CanApplySafely(PrimitiveType, bool) bool { return true }

func (p *NullPredicate) matchRow(col Column, row int) bool {
	m := col.IsNullAt(row) == (p.predType == PredIsNull)

	return m != p.opposite
}

func (p *NullPredicate) Evaluate(col Column, sel []uint16, size int) (int, error) {
	return p.trackedEvaluate(p.evaluateInner, col, sel, size)
}

func (p *NullPredicate) evaluateInner(col Column, sel []uint16, size int) (int, error) {
	newSize := 0
	for i := 0; i < size; i++ {
		if p.matchRow(col, int(sel[i])) {
			sel[newSize] = sel[i]
			newSize++
		}
	}

	return newSize, nil
}

func (p *NullPredicate) EvaluateAnd(col Column, sel []uint16, size int, flags []bool) error {
	for i := 0; i < size; i++ {
		if flags[i] {
			flags[i] = p.matchRow(col, int(sel[i]))
		}
	}

	return nil
}

func (p *NullPredicate) EvaluateOr(col Column, sel []uint16, size int, flags []bool) error {
	for i := 0; i < size; i++ {
		if !flags[i] {
			flags[i] = p.matchRow(col, int(sel[i]))
		}
	}

	return nil
}

func (p *NullPredicate) EvaluateVec(col Column, size int, flags []bool) error {
	for row := 0; row < size; row++ {
		flags[row] = p.matchRow(col, row)
	}

	return nil
}

func (p *NullPredicate) EvaluateAndVec(col Column, size int, flags []bool) error {
	for row := 0; row < size; row++ {
		if flags[row] {
			flags[row] = p.matchRow(col, row)
		}
	}

	return nil
}

func (p *NullPredicate) EvalZoneMap(stats ZoneMapStats) (bool, error) {
	if p.opposite {
		return true, nil
	}

	hasNull, hasNotNull := stats.NullInfo()
	if p.predType == PredIsNull {
		return hasNull, nil
	}

	return hasNotNull, nil
}

func (p *NullPredicate) ZoneMapAlwaysTrue(stats ZoneMapStats) (bool, error) {
	if p.opposite {
		return false, nil
	}

	hasNull, hasNotNull := stats.NullInfo()
	if p.predType == PredIsNull {
		return !hasNotNull, nil
	}

	return !hasNull, nil
}

func (p *NullPredicate) EvalDeleteZoneMap(stats ZoneMapStats) (bool, error) {
	return p.ZoneMapAlwaysTrue(stats)
}

func (p *NullPredicate) CanEvalBloomFilter() bool {
	return p.predType == PredIsNull && !p.opposite
}

func (p *NullPredicate) EvalBloomFilter(bf BloomFilter) (bool, error) {
	if !p.CanEvalBloomFilter() {
		return p.basePredicate.EvalBloomFilter(bf)
	}

	return bf.TestNull(), nil
}

func (p *NullPredicate) EvalBitmapIndex(iter BitmapIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	// without an authoritative null bitmap the index cannot separate null
	// rows from value rows in either direction
	if !iter.HasNullBitmap() {
		return fmt.Errorf("%w: %s against a bitmap index without a null bitmap",
			ErrNotSupported, p.predType.Name())
	}

	nulls := roaring.New()
	if err := iter.ReadNullBitmap(nulls); err != nil {
		return err
	}

	matched := nulls
	if p.predType == PredIsNotNull {
		matched = complement(nulls, numRows)
	}
	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}

func (p *NullPredicate) EvalInvertedIndex(iter InvertedIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	nulls := roaring.New()
	if err := iter.ReadNullBitmap(nulls); err != nil {
		return err
	}

	matched := nulls
	if p.predType == PredIsNotNull {
		matched = complement(nulls, numRows)
	}
	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}
