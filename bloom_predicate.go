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

// BloomPredicate filters rows through a bloom filter built on the build
// side of a join and shipped down as a runtime filter. Its verdicts are
// probabilistic in one direction only: a kept row may still be a false
// positive, a dropped row is proven absent from the build side.
type BloomPredicate[T ValueType] struct {
	basePredicate

	filter BloomFilter
}

// NewBloomPredicate builds a bloom-filter membership predicate. Pass
// WithRuntimeFilter to enable the adaptive selectivity tracking these
// predicates rely on to get out of the way when they stop filtering.
func NewBloomPredicate[T ValueType](field FieldDescriptor, filter BloomFilter, opts ...PredicateOption) (*BloomPredicate[T], error) {
	if filter == nil {
		return nil, errInvalid("nil bloom filter for column %s", field.Name)
	}

	return &BloomPredicate[T]{
		basePredicate: newBasePredicate(PredBloomFilter, field, opts),
		filter:        filter,
	}, nil
}

func (p *BloomPredicate[T]) match(v T) bool {
	return p.filter.TestBytes(EncodeValue(v))
}

// CanApplySafely requires an exact type match on a non-nullable column;
// the filter was built from non-null join keys and has no null verdict.
func (p *BloomPredicate[T]) CanApplySafely(t PrimitiveType, nullable bool) bool {
	return t == PrimitiveTypeOf[T]() && !nullable
}

func (p *BloomPredicate[T]) SupportsZoneMap() bool { return false }

func (p *BloomPredicate[T]) Evaluate(col Column, sel []uint16, size int) (int, error) {
	return p.trackedEvaluate(p.evaluateInner, col, sel, size)
}

func (p *BloomPredicate[T]) evaluateInner(col Column, sel []uint16, size int) (int, error) {
	return evaluateSelection(col, sel, size, p.opposite, p.match)
}

func (p *BloomPredicate[T]) EvaluateAnd(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateAndFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *BloomPredicate[T]) EvaluateOr(col Column, sel []uint16, size int, flags []bool) error {
	return evaluateOrFlags(col, sel, size, flags, p.opposite, p.match)
}

func (p *BloomPredicate[T]) EvaluateVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, false, p.match)
}

func (p *BloomPredicate[T]) EvaluateAndVec(col Column, size int, flags []bool) error {
	return evaluateDense(col, size, flags, p.opposite, true, p.match)
}

// EvalDictionary probes each dictionary word directly; words already use
// the filter's key encoding.
func (p *BloomPredicate[T]) EvalDictionary(words [][]byte) (bool, error) {
	if p.opposite {
		return true, nil
	}

	for _, word := range words {
		if p.filter.TestBytes(word) {
			return true, nil
		}
	}

	return false, nil
}
