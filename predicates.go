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

// PredicateType is an enum used for constants to define which condition a
// ColumnPredicate evaluates against its column.
type PredicateType int

const (
	PredUnknown PredicateType = iota
	PredEQ
	PredNE
	PredLT
	PredLE
	PredGT
	PredGE
	PredInList
	PredNotInList
	PredIsNull
	PredIsNotNull
	// PredBloomFilter matches rows against a runtime-filter bloom filter.
	PredBloomFilter
	// PredBitmapFilter matches rows against a runtime-filter bitmap of values.
	PredBitmapFilter
	// PredMatch is a full-text match resolved through an inverted index.
	PredMatch
)

// IsRange reports whether the type is one of the ordered comparisons
// LT/LE/GT/GE.
func (t PredicateType) IsRange() bool {
	return t == PredLT || t == PredLE || t == PredGT || t == PredGE
}

// IsList reports whether the type is IN_LIST or NOT_IN_LIST.
func (t PredicateType) IsList() bool {
	return t == PredInList || t == PredNotInList
}

// IsComparison reports whether the type compares against a single operand,
// i.e. EQ/NE/LT/LE/GT/GE.
func (t PredicateType) IsComparison() bool {
	return t == PredEQ || t == PredNE || t.IsRange()
}

// IsEqualOrList reports whether the type is EQ or IN_LIST, the two kinds
// that can be answered by point lookups.
func (t PredicateType) IsEqualOrList() bool {
	return t == PredEQ || t == PredInList
}

// IsBloomFilter reports whether the type is the bloom-filter membership kind.
func (t PredicateType) IsBloomFilter() bool {
	return t == PredBloomFilter
}

// String returns the canonical short display form used in logs and debug
// output, e.g. "eq" or "not_in". Unknown values degrade to "unknown".
func (t PredicateType) String() string {
	switch t {
	case PredEQ:
		return "eq"
	case PredNE:
		return "ne"
	case PredLT:
		return "lt"
	case PredLE:
		return "le"
	case PredGT:
		return "gt"
	case PredGE:
		return "ge"
	case PredInList:
		return "in"
	case PredNotInList:
		return "not_in"
	case PredIsNull:
		return "is_null"
	case PredIsNotNull:
		return "is_not_null"
	case PredBloomFilter:
		return "bf"
	case PredBitmapFilter:
		return "bitmap"
	case PredMatch:
		return "match"
	default:
		return "unknown"
	}
}

// Name returns the canonical textual name used in debug dumps. Unknown or
// out-of-range values degrade to the empty string.
func (t PredicateType) Name() string {
	switch t {
	case PredUnknown:
		return "UNKNOWN"
	case PredEQ:
		return "EQ"
	case PredNE:
		return "NE"
	case PredLT:
		return "LT"
	case PredLE:
		return "LE"
	case PredGT:
		return "GT"
	case PredGE:
		return "GE"
	case PredInList:
		return "IN_LIST"
	case PredNotInList:
		return "NOT_IN_LIST"
	case PredIsNull:
		return "IS_NULL"
	case PredIsNotNull:
		return "IS_NOT_NULL"
	case PredBloomFilter:
		return "BLOOM_FILTER"
	case PredBitmapFilter:
		return "BITMAP_FILTER"
	case PredMatch:
		return "MATCH"
	default:
		return ""
	}
}
