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

// InListPredicate evaluates set membership (IN_LIST) or its complement
// (NOT_IN_LIST) against a constant operand set. Members are deduplicated
// through their canonical encoding, so operands that only differ in
// representation (such as decimal scale) collapse to one entry.
type InListPredicate[T ValueType] struct {
	basePredicate

	// set maps the canonical encoding of each member back to the member.
	set map[string]T
	min T
	max T
	cmp Comparator[T]
}

// NewInListPredicate builds a membership test against values, which must be
// non-empty.
func NewInListPredicate[T ValueType](t PredicateType, field FieldDescriptor, values []T, opts ...PredicateOption) (*InListPredicate[T], error) {
	if !t.IsList() {
		return nil, errInvalid("%s is not a list kind", t.Name())
	}
	if len(values) == 0 {
		return nil, errInvalid("empty operand list for %s on column %s", t.Name(), field.Name)
	}

	p := &InListPredicate[T]{
		basePredicate: newBasePredicate(t, field, opts),
		set:           make(map[string]T, len(values)),
		cmp:           ComparatorFor[T](),
	}
	p.min, p.max = values[0], values[0]
	for _, v := range values {
		p.set[string(EncodeValue(v))] = v
		if p.cmp(v, p.min) < 0 {
			p.min = v
		}
		if p.cmp(v, p.max) > 0 {
			p.max = v
		}
	}

	return p, nil
}

func (p *InListPredicate[T]) contains(v T) bool {
	_, ok := p.set[string(EncodeValue(v))]

	return ok
}

func (p *InListPredicate[T]) match(v T) bool {
	return p.contains(v) == (p.predType == PredInList)
}

func (p *InListPredicate[T]) String() string {
	return p.describe(fmt.Sprintf("operands=%d", len(p.set)))
}

func (p *InListPredicate[T]) CanApplySafely(t PrimitiveType, nullable bool) bool {
	return t == PrimitiveTypeOf[T]()
}

func (p *InListPredicate[T]) Evaluate(col Column, sel []uint16, size int) (int, error) {
	return p.trackedEvaluate(p.evaluateInner, col, sel, size)
}

func (p *InListPredicate[T]) evaluateInner(col Column, sel []uint16, size int) (int, error) {
	return evaluateSelection(col, sel, size, p.opposite, p.match)
}

func (p *InListPredicate[T]) EvaluateAnd(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateAndFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *InListPredicate[T]) EvaluateOr(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateOrFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *InListPredicate[T]) EvaluateVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, false, p.match)
}

func (p *InListPredicate[T]) EvaluateAndVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, true, p.match)
}

func (p *InListPredicate[T]) zoneMap(stats ZoneMapStats) (ZoneMap[T], error) {
	zm, ok := stats.(ZoneMap[T])
	if !ok {
		return ZoneMap[T]{}, fmt.Errorf("%w: zone map %T does not summarize %s values",
			ErrType, stats, PrimitiveTypeOf[T]())
	}

	return zm, nil
}

func (p *InListPredicate[T]) EvalZoneMap(stats ZoneMapStats) (bool, error) {
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

	if p.predType == PredInList {
		for _, v := range p.set {
			if p.cmp(v, zm.Min) >= 0 && p.cmp(v, zm.Max) <= 0 {
				return true, nil
			}
		}

		return false, nil
	}

	// NOT_IN can only be ruled out when the range is one constant value
	// that is a member.
	if p.cmp(zm.Min, zm.Max) == 0 && p.contains(zm.Min) {
		return zm.HasNull, nil
	}

	return true, nil
}

func (p *InListPredicate[T]) ZoneMapAlwaysTrue(stats ZoneMapStats) (bool, error) {
	zm, err := p.zoneMap(stats)
	if err != nil {
		return false, err
	}
	if p.opposite || zm.HasNull || !zm.HasNotNull {
		return false, nil
	}

	if p.predType == PredInList {
		return p.cmp(zm.Min, zm.Max) == 0 && p.contains(zm.Min), nil
	}

	for _, v := range p.set {
		if p.cmp(v, zm.Min) >= 0 && p.cmp(v, zm.Max) <= 0 {
			return false, nil
		}
	}

	return true, nil
}

func (p *InListPredicate[T]) EvalDeleteZoneMap(stats ZoneMapStats) (bool, error) {
	return p.ZoneMapAlwaysTrue(stats)
}

func (p *InListPredicate[T]) CanEvalBloomFilter() bool {
	return p.predType == PredInList && !p.opposite
}

func (p *InListPredicate[T]) EvalBloomFilter(bf BloomFilter) (bool, error) {
	if !p.CanEvalBloomFilter() {
		return p.basePredicate.EvalBloomFilter(bf)
	}

	for encoded := range p.set {
		if bf.TestBytes([]byte(encoded)) {
			return true, nil
		}
	}

	return false, nil
}

func (p *InListPredicate[T]) EvalDictionary(words [][]byte) (bool, error) {
	if p.opposite {
		return true, nil
	}

	in := p.predType == PredInList
	for _, word := range words {
		if _, ok := p.set[string(word)]; ok == in {
			return true, nil
		}
	}

	return false, nil
}

func (p *InListPredicate[T]) EvalBitmapIndex(iter BitmapIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	members := roaring.New()
	for encoded := range p.set {
		exact, err := iter.SeekDictionary([]byte(encoded))
		if err != nil {
			return err
		}
		if !exact {
			continue
		}
		ord := iter.CurrentOrdinal()
		if err := iter.ReadUnion(ord, ord+1, members); err != nil {
			return err
		}
	}

	matched := members
	if p.predType == PredNotInList {
		all := roaring.New()
		if err := iter.ReadUnion(0, iter.Cardinality(), all); err != nil {
			return err
		}
		all.AndNot(members)
		matched = all
	}

	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}

func (p *InListPredicate[T]) EvalInvertedIndex(iter InvertedIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	members := roaring.New()
	for encoded := range p.set {
		err := iter.ReadFromIndex(p.field.Name, []byte(encoded), PredEQ, numRows, members)
		if err != nil {
			return err
		}
	}

	matched := members
	if p.predType == PredNotInList {
		matched = complement(members, numRows)
		nulls := roaring.New()
		if err := iter.ReadNullBitmap(nulls); err != nil {
			return err
		}
		matched.AndNot(nulls)
	}

	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}
