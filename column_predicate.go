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

	"github.com/luna-seek/doris/profile"
)

// ColumnPredicate is a single-column filter condition pushed down into the
// scan. One instance serves one scan task and is not safe for concurrent
// use; the profile counters it reports into are the only shared state.
//
// The row-level entry points share a contract: sel holds the ordinals of
// the size candidate rows, evaluation compacts the survivors to the front
// of sel preserving order, and nothing beyond the returned count may be
// read. The flag variants combine per-row verdicts into an existing flag
// array instead of compacting.
//
// The evidence entry points (zone map, bloom filter, dictionary, bitmap
// index, inverted index) answer from segment metadata without touching row
// data. Every one of them errs toward keeping rows: ErrNotSupported tells
// the caller to fall back to a more general path, never to drop anything.
type ColumnPredicate interface {
	fmt.Stringer

	// Type returns the condition kind this predicate evaluates.
	Type() PredicateType
	// Field returns the descriptor of the bound column.
	Field() FieldDescriptor
	// Opposite reports whether the row-level verdicts are negated.
	Opposite() bool

	// RuntimeFilterID returns the id of the runtime filter this predicate
	// was generated from, or -1 for planner predicates.
	RuntimeFilterID() int
	// IsRuntimeFilter reports whether RuntimeFilterID is a real id.
	IsRuntimeFilter() bool

	// CanApplySafely reports whether the predicate may evaluate against a
	// column of the given type and nullability without risk of a wrong
	// answer. Callers must check it once per scan before any Evaluate.
	CanApplySafely(t PrimitiveType, nullable bool) bool

	// Evaluate filters the selection in place and returns the number of
	// surviving rows.
	Evaluate(col Column, sel []uint16, size int) (int, error)
	// EvaluateAnd ANDs per-row verdicts into flags; rows already false
	// are not inspected.
	EvaluateAnd(col Column, sel []uint16, size int, flags []bool) error
	// EvaluateOr ORs per-row verdicts into flags; rows already true are
	// not inspected.
	EvaluateOr(col Column, sel []uint16, size int, flags []bool) error
	// EvaluateVec writes per-row verdicts for the dense rows [0, size)
	// into flags, overwriting prior contents.
	EvaluateVec(col Column, size int, flags []bool) error
	// EvaluateAndVec ANDs per-row verdicts for the dense rows [0, size)
	// into flags.
	EvaluateAndVec(col Column, size int, flags []bool) error

	// SupportsZoneMap reports whether zone-map evidence can answer this
	// predicate at all.
	SupportsZoneMap() bool
	// EvalZoneMap reports whether any row in the summarized range might
	// satisfy the predicate. False proves the range empty of matches.
	EvalZoneMap(stats ZoneMapStats) (bool, error)
	// ZoneMapAlwaysTrue reports whether every row in the summarized range
	// is proven to satisfy the predicate.
	ZoneMapAlwaysTrue(stats ZoneMapStats) (bool, error)
	// EvalDeleteZoneMap is the pruning check for delete-condition
	// predicates; unlike EvalZoneMap it must never claim emptiness unless
	// the summary alone proves it, so defaults stay pessimistic.
	EvalDeleteZoneMap(stats ZoneMapStats) (bool, error)

	// CanEvalBloomFilter reports whether bloom-filter evidence can answer
	// this predicate, which requires an equality-shaped condition.
	CanEvalBloomFilter() bool
	// EvalBloomFilter reports whether the segment might contain matches.
	EvalBloomFilter(bf BloomFilter) (bool, error)

	// EvalDictionary reports whether any of a dictionary page's encoded
	// words can satisfy the predicate.
	EvalDictionary(words [][]byte) (bool, error)

	// EvalBitmapIndex restricts result to the rows the index proves might
	// match, intersecting it with the matching-row bitmap.
	EvalBitmapIndex(iter BitmapIndexIterator, numRows uint32, result *roaring.Bitmap) error
	// EvalInvertedIndex restricts result to the rows the index proves
	// might match, intersecting it with the matching-row bitmap.
	EvalInvertedIndex(iter InvertedIndexIterator, numRows uint32, result *roaring.Bitmap) error

	// AlwaysTrue reports whether the predicate is currently disabled by
	// the adaptive selectivity tracker and passes rows through unchecked.
	AlwaysTrue() bool
	// AttachProfileCounters wires the shared counters this instance
	// reports evaluation statistics into. Attaching nil panics.
	AttachProfileCounters(c *profile.PredicateCounters)
}

// PredicateOption configures optional predicate behavior at construction.
type PredicateOption func(*basePredicate)

// WithOpposite negates every row-level verdict, null rows included.
func WithOpposite() PredicateOption {
	return func(b *basePredicate) { b.opposite = true }
}

// WithRuntimeFilter marks the predicate as generated from the runtime
// filter with the given id and enables adaptive selectivity tracking under
// the given policy.
func WithRuntimeFilter(id int, policy SelectivityPolicy) PredicateOption {
	return func(b *basePredicate) {
		b.runtimeFilterID = id
		b.policy = policy
	}
}

// basePredicate carries the state and the conservative default behavior
// shared by every predicate kind. Concrete predicates embed it and override
// the entry points they can answer better.
type basePredicate struct {
	predType        PredicateType
	field           FieldDescriptor
	opposite        bool
	runtimeFilterID int

	// neverIgnore pins the predicate active regardless of observed
	// selectivity; set by kinds whose verdicts downstream operators rely
	// on being exact.
	neverIgnore bool

	selectivityTracker
	counters *profile.PredicateCounters
}

func newBasePredicate(t PredicateType, field FieldDescriptor, opts []PredicateOption) basePredicate {
	b := basePredicate{predType: t, field: field, runtimeFilterID: -1}
	for _, opt := range opts {
		opt(&b)
	}

	return b
}

func (b *basePredicate) Type() PredicateType    { return b.predType }
func (b *basePredicate) Field() FieldDescriptor { return b.field }
func (b *basePredicate) Opposite() bool         { return b.opposite }
func (b *basePredicate) RuntimeFilterID() int   { return b.runtimeFilterID }
func (b *basePredicate) IsRuntimeFilter() bool  { return b.runtimeFilterID >= 0 }
func (b *basePredicate) AlwaysTrue() bool       { return b.alwaysTrue }

func (b *basePredicate) AttachProfileCounters(c *profile.PredicateCounters) {
	if c == nil {
		panic(errInvalid("nil profile counters for %s on column %s",
			b.predType.Name(), b.field.Name))
	}
	b.counters = c
}

func (b *basePredicate) String() string { return b.describe("") }

func (b *basePredicate) describe(operand string) string {
	s := fmt.Sprintf("%s(column=%s, id=%d", b.predType, b.field.Name, b.field.ColumnID)
	if b.opposite {
		s += ", opposite"
	}
	if b.IsRuntimeFilter() {
		s += fmt.Sprintf(", rf=%d", b.runtimeFilterID)
	}
	s += fmt.Sprintf(", canIgnore=%t", b.trackingEnabled())
	if operand != "" {
		s += ", " + operand
	}

	return s + ")"
}

func (b *basePredicate) Evaluate(Column, []uint16, int) (int, error) {
	panic(fmt.Errorf("%w: %s row evaluation", ErrNotImplemented, b.predType.Name()))
}

func (b *basePredicate) EvaluateAnd(Column, []uint16, int, []bool) error {
	panic(fmt.Errorf("%w: %s flag evaluation", ErrNotImplemented, b.predType.Name()))
}

func (b *basePredicate) EvaluateOr(Column, []uint16, int, []bool) error {
	panic(fmt.Errorf("%w: %s flag evaluation", ErrNotImplemented, b.predType.Name()))
}

func (b *basePredicate) EvaluateVec(Column, int, []bool) error {
	panic(fmt.Errorf("%w: %s dense evaluation", ErrNotImplemented, b.predType.Name()))
}

func (b *basePredicate) EvaluateAndVec(Column, int, []bool) error {
	panic(fmt.Errorf("%w: %s dense evaluation", ErrNotImplemented, b.predType.Name()))
}

func (b *basePredicate) SupportsZoneMap() bool { return true }

func (b *basePredicate) EvalZoneMap(ZoneMapStats) (bool, error) { return true, nil }

func (b *basePredicate) ZoneMapAlwaysTrue(ZoneMapStats) (bool, error) { return false, nil }

func (b *basePredicate) EvalDeleteZoneMap(ZoneMapStats) (bool, error) { return false, nil }

func (b *basePredicate) CanEvalBloomFilter() bool { return false }

func (b *basePredicate) EvalBloomFilter(BloomFilter) (bool, error) {
	return true, fmt.Errorf("%w: %s against bloom filter", ErrNotSupported, b.predType.Name())
}

func (b *basePredicate) EvalDictionary([][]byte) (bool, error) {
	return true, fmt.Errorf("%w: %s against dictionary", ErrNotSupported, b.predType.Name())
}

func (b *basePredicate) EvalBitmapIndex(BitmapIndexIterator, uint32, *roaring.Bitmap) error {
	return fmt.Errorf("%w: %s against bitmap index", ErrNotSupported, b.predType.Name())
}

func (b *basePredicate) EvalInvertedIndex(InvertedIndexIterator, uint32, *roaring.Bitmap) error {
	return fmt.Errorf("%w: %s against inverted index", ErrNotSupported, b.predType.Name())
}

type evalInnerFunc func(col Column, sel []uint16, size int) (int, error)

// trackedEvaluate wraps a concrete row-evaluation routine with profile
// accounting and, for runtime-filter predicates, the adaptive always-true
// machinery.
func (b *basePredicate) trackedEvaluate(inner evalInnerFunc, col Column, sel []uint16, size int) (int, error) {
	if !b.trackingEnabled() {
		selected, err := inner(col, sel, size)
		if err != nil {
			return 0, err
		}
		b.tally(size, selected, false)

		return selected, nil
	}

	b.countdown()
	if b.alwaysTrue {
		b.tally(size, size, true)

		return size, nil
	}

	selected, err := inner(col, sel, size)
	if err != nil {
		return 0, err
	}
	b.observe(size, selected)
	b.tally(size, selected, false)

	return selected, nil
}

func (b *basePredicate) trackingEnabled() bool {
	return b.runtimeFilterID >= 0 && !b.neverIgnore && b.policy.JudgeFrequency > 0
}

func (b *basePredicate) tally(input, selected int, passedThrough bool) {
	if b.counters == nil {
		return
	}

	b.counters.InputRows.Add(int64(input))
	b.counters.FilteredRows.Add(int64(input - selected))
	if passedThrough {
		b.counters.PassedThroughRows.Add(int64(input))
	}
}

func typeMismatch[T ValueType](col Column) error {
	return fmt.Errorf("%w: column %T does not carry %s values", ErrType, col, PrimitiveTypeOf[T]())
}

// evaluateSelection compacts the surviving row ordinals to the front of sel
// and returns how many there are. Null rows never match before negation.
func evaluateSelection[T ValueType](col Column, sel []uint16, size int, opposite bool, match func(T) bool) (int, error) {
	tc, ok := col.(TypedColumn[T])
	if !ok {
		return 0, typeMismatch[T](col)
	}

	newSize := 0
	for i := 0; i < size; i++ {
		row := int(sel[i])
		m := !tc.IsNullAt(row) && match(tc.Value(row))
		if m != opposite {
			sel[newSize] = sel[i]
			newSize++
		}
	}

	return newSize, nil
}

func evaluateAndFlags[T ValueType](col Column, sel []uint16, size int, flags []bool, opposite bool, match func(T) bool) error {
	tc, ok := col.(TypedColumn[T])
	if !ok {
		return typeMismatch[T](col)
	}

	for i := 0; i < size; i++ {
		if !flags[i] {
			continue
		}
		row := int(sel[i])
		m := !tc.IsNullAt(row) && match(tc.Value(row))
		flags[i] = m != opposite
	}

	return nil
}

func evaluateOrFlags[T ValueType](col Column, sel []uint16, size int, flags []bool, opposite bool, match func(T) bool) error {
	tc, ok := col.(TypedColumn[T])
	if !ok {
		return typeMismatch[T](col)
	}

	for i := 0; i < size; i++ {
		if flags[i] {
			continue
		}
		row := int(sel[i])
		m := !tc.IsNullAt(row) && match(tc.Value(row))
		flags[i] = m != opposite
	}

	return nil
}

func evaluateDense[T ValueType](col Column, size int, flags []bool, opposite, and bool, match func(T) bool) error {
	tc, ok := col.(TypedColumn[T])
	if !ok {
		return typeMismatch[T](col)
	}

	for row := 0; row < size; row++ {
		if and && !flags[row] {
			continue
		}
		m := !tc.IsNullAt(row) && match(tc.Value(row))
		flags[row] = m != opposite
	}

	return nil
}
