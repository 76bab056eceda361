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

// MatchPredicate is a full-text term match. It has no row-level evaluation
// at all: tokenization lives in the inverted index, so the index is the
// only evidence source that can answer it. Scans must route it through
// EvalInvertedIndex and treat ErrNotSupported from the row paths as a
// missing-index error.
type MatchPredicate struct {
	basePredicate

	term string
}

// NewMatchPredicate builds a full-text match of term against the column.
func NewMatchPredicate(field FieldDescriptor, term string, opts ...PredicateOption) (*MatchPredicate, error) {
	if term == "" {
		return nil, errInvalid("empty match term for column %s", field.Name)
	}

	return &MatchPredicate{
		basePredicate: newBasePredicate(PredMatch, field, opts),
		term:          term,
	}, nil
}

// Term returns the query term.
func (p *MatchPredicate) Term() string { return p.term }

func (p *MatchPredicate) String() string {
	return p.describe(fmt.Sprintf("term=%q", p.term))
}

func (p *MatchPredicate) CanApplySafely(t PrimitiveType, nullable bool) bool {
	return t == TypeString
}

func (p *MatchPredicate) SupportsZoneMap() bool { return false }

func (p *MatchPredicate) rowsNotSupported() error {
	return fmt.Errorf("%w: MATCH requires an inverted index on column %s",
		ErrNotSupported, p.field.Name)
}

func (p *MatchPredicate) Evaluate(Column, []uint16, int) (int, error) {
	return 0, p.rowsNotSupported()
}

func (p *MatchPredicate) EvaluateAnd(Column, []uint16, int, []bool) error {
	return p.rowsNotSupported()
}

func (p *MatchPredicate) EvaluateOr(Column, []uint16, int, []bool) error {
	return p.rowsNotSupported()
}

func (p *MatchPredicate) EvaluateVec(Column, int, []bool) error {
	return p.rowsNotSupported()
}

func (p *MatchPredicate) EvaluateAndVec(Column, int, []bool) error {
	return p.rowsNotSupported()
}

func (p *MatchPredicate) EvalInvertedIndex(iter InvertedIndexIterator, numRows uint32, result *roaring.Bitmap) error {
	matched := roaring.New()
	err := iter.ReadFromIndex(p.field.Name, []byte(p.term), PredMatch, numRows, matched)
	if err != nil {
		return err
	}

	if p.opposite {
		matched = complement(matched, numRows)
	}
	result.And(matched)

	return nil
}
