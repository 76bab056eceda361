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
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// ComparisonPredicate evaluates one of EQ/NE/LT/LE/GT/GE against a constant
// operand. It answers every evidence path: zone maps, bloom filters,
// dictionary pages, bitmap indexes and inverted indexes.
type ComparisonPredicate[T ValueType] struct {
	basePredicate

	value T
	cmp   Comparator[T]
	match func(T) bool
}

// NewComparisonPredicate builds a comparison of the given kind between the
// column and value.
func NewComparisonPredicate[T ValueType](t PredicateType, field FieldDescriptor, value T, opts ...PredicateOption) (*ComparisonPredicate[T], error) {
	if !t.IsComparison() {
		return nil, errInvalid("%s is not a comparison kind", t.Name())
	}

	p := &ComparisonPredicate[T]{
		basePredicate: newBasePredicate(t, field, opts),
		value:         value,
		cmp:           ComparatorFor[T](),
	}
	p.match = comparisonMatcher(t, value, p.cmp)

	return p, nil
}

func comparisonMatcher[T ValueType](t PredicateType, value T, cmp Comparator[T]) func(T) bool {
	switch t {
	case PredEQ:
		return func(v T) bool { return cmp(v, value) == 0 }
	case PredNE:
		return func(v T) bool { return cmp(v, value) != 0 }
	case PredLT:
		return func(v T) bool { return cmp(v, value) < 0 }
	case PredLE:
		return func(v T) bool { return cmp(v, value) <= 0 }
	case PredGT:
		return func(v T) bool { return cmp(v, value) > 0 }
	default:
		return func(v T) bool { return cmp(v, value) >= 0 }
	}
}

// Value returns the constant operand.
func (p *ComparisonPredicate[T]) Value() T { return p.value }

func (p *ComparisonPredicate[T]) String() string {
	return p.describe(fmt.Sprintf("operand=%v", p.value))
}

func (p *ComparisonPredicate[T]) CanApplySafely(t PrimitiveType, nullable bool) bool {
	return t == PrimitiveTypeOf[T]()
}

func (p *ComparisonPredicate[T]) Evaluate(col Column, sel []uint16, size int) (int, error) {
	return p.trackedEvaluate(p.evaluateInner, col, sel, size)
}

func (p *ComparisonPredicate[T]) evaluateInner(col Column, sel []uint16, size int) (int, error) {
	return evaluateSelection(col, sel, size, p.opposite, p.match)
}

func (p *ComparisonPredicate[T]) EvaluateAnd(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateAndFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *ComparisonPredicate[T]) EvaluateOr(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateOrFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *ComparisonPredicate[T]) EvaluateVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, false, p.match)
}

func (p *ComparisonPredicate[T]) EvaluateAndVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, true, p.match)
}

func (p *ComparisonPredicate[T]) zoneMap(stats ZoneMapStats) (ZoneMap[T], error) {
	zm, ok := stats.(ZoneMap[T])
	if !ok {
		return ZoneMap[T]{}, fmt.Errorf("%w: zone map %T does not summarize %s values",
			ErrType, stats, PrimitiveTypeOf[T]())
	}

	return zm, nil
}

// EvalZoneMap prunes a range when min/max prove no row can satisfy the
// comparison. A negated predicate matches null rows, so it never prunes.
func (p *ComparisonPredicate[T]) EvalZoneMap(stats ZoneMapStats) (bool, error) {
	zm, err := p.zoneMap(stats)
	if err != nil {
		return true, err
	}
	if p.opposite {
		return true, nil
	}
	if !zm.HasNotNull {
		return false, nil
	}

	switch p.predType {
	case PredEQ:
		return p.cmp(p.value, zm.Min) >= 0 && p.cmp(p.value, zm.Max) <= 0, nil
	case PredNE:
		allEqual := p.cmp(zm.Min, p.value) == 0 && p.cmp(zm.Max, p.value) == 0
		return !allEqual || zm.HasNull, nil
	case PredLT:
		return p.cmp(zm.Min, p.value) < 0, nil
	case PredLE:
		return p.cmp(zm.Min, p.value) <= 0, nil
	case PredGT:
		return p.cmp(zm.Max, p.value) > 0, nil
	default:
		return p.cmp(zm.Max, p.value) >= 0, nil
	}
}

// ZoneMapAlwaysTrue proves that every row of the range, nulls included,
// satisfies the comparison, letting the caller skip row evaluation.
func (p *ComparisonPredicate[T]) ZoneMapAlwaysTrue(stats ZoneMapStats) (bool, error) {
	zm, err := p.zoneMap(stats)
	if err != nil {
		return false, err
	}
	if p.opposite || zm.HasNull || !zm.HasNotNull {
		return false, nil
	}

	switch p.predType {
	case PredEQ:
		return p.cmp(zm.Min, p.value) == 0 && p.cmp(zm.Max, p.value) == 0, nil
	case PredNE:
		return p.cmp(zm.Max, p.value) < 0 || p.cmp(zm.Min, p.value) > 0, nil
	case PredLT:
		return p.cmp(zm.Max, p.value) < 0, nil
	case PredLE:
		return p.cmp(zm.Max, p.value) <= 0, nil
	case PredGT:
		return p.cmp(zm.Min, p.value) > 0, nil
	default:
		return p.cmp(zm.Min, p.value) >= 0, nil
	}
}

// EvalDeleteZoneMap reports whether the summary proves the whole range
// satisfies the delete condition, which is the same total-coverage question
// ZoneMapAlwaysTrue answers.
func (p *ComparisonPredicate[T]) EvalDeleteZoneMap(stats ZoneMapStats) (bool, error) {
	return p.ZoneMapAlwaysTrue(stats)
}

func (p *ComparisonPredicate[T]) CanEvalBloomFilter() bool {
	return p.predType == PredEQ && !p.opposite
}

func (p *ComparisonPredicate[T]) EvalBloomFilter(bf BloomFilter) (bool, error) {
	if !p.CanEvalBloomFilter() {
		return p.basePredicate.EvalBloomFilter(bf)
	}

	return bf.TestBytes(EncodeValue(p.value)), nil
}

// EvalDictionary checks the page dictionary's encoded words against the
// encoded operand; the encoding preserves value order so byte comparison is
// exact.
func (p *ComparisonPredicate[T]) EvalDictionary(words [][]byte) (bool, error) {
	if p.opposite {
		return true, nil
	}

	encoded := EncodeValue(p.value)
	for _, word := range words {
		c := bytes.Compare(word, encoded)
		var m bool
		switch p.predType {
		case PredEQ:
			m = c == 0
		case PredNE:
			m = c != 0
		case PredLT:
			m = c < 0
		case PredLE:
			m = c <= 0
		case PredGT:
			m = c > 0
		default:
			m = c >= 0
		}
		if m {
			return true, nil
		}
	}

	return false, nil
}

func (p *ComparisonPredicate[T]) EvalBitmapIndex(iter BitmapIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	exact, err := iter.SeekDictionary(EncodeValue(p.value))
	if err != nil {
		return err
	}
	ord, card := iter.CurrentOrdinal(), iter.Cardinality()

	matched := roaring.New()
	if p.predType == PredNE {
		if err := iter.ReadUnion(0, card, matched); err != nil {
			return err
		}
		if exact {
			eq := roaring.New()
			if err := iter.ReadUnion(ord, ord+1, eq); err != nil {
				return err
			}
			matched.AndNot(eq)
		}
	} else {
		from, to := uint32(0), uint32(0)
		switch p.predType {
		case PredEQ:
			if exact {
				from, to = ord, ord+1
			}
		case PredLT:
			to = ord
		case PredLE:
			to = ord
			if exact {
				to++
			}
		case PredGT:
			from, to = ord, card
			if exact {
				from++
			}
		case PredGE:
			from, to = ord, card
		}
		if to > from {
			if err := iter.ReadUnion(from, to, matched); err != nil {
				return err
			}
		}
	}

	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}

func (p *ComparisonPredicate[T]) EvalInvertedIndex(iter InvertedIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	matched := roaring.New()
	err := iter.ReadFromIndex(p.field.Name, EncodeValue(p.value), p.predType, numRows, matched)
	if err != nil {
		return err
	}

	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}

// complement returns [0, numRows) minus b.
func complement(b *roaring.Bitmap, numRows uint32) *roaring.Bitmap {
	full := roaring.New()
	full.AddRange(0, uint64(numRows))
	full.AndNot(b)

	return full
}
