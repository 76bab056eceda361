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

import "github.com/RoaringBitmap/roaring"

// BloomFilter is the probe surface of a segment-level bloom filter.
// TestBytes may return false positives but never false negatives, so a
// negative answer proves the key is absent from the segment.
type BloomFilter interface {
	// TestBytes reports whether the encoded key may be present.
	TestBytes(key []byte) bool
	// TestNull reports whether any null value was inserted.
	TestNull() bool
}

// BitmapIndexIterator walks a sorted-dictionary bitmap index: each distinct
// encoded value owns a roaring bitmap of the row ordinals holding it.
type BitmapIndexIterator interface {
	// SeekDictionary positions the iterator at the first dictionary entry
	// >= the encoded value and reports whether that entry equals it.
	SeekDictionary(encoded []byte) (exact bool, err error)

	// CurrentOrdinal returns the dictionary ordinal the iterator points at.
	// After seeking past the largest entry it equals Cardinality.
	CurrentOrdinal() uint32

	// ReadUnion ORs the bitmaps of the dictionary entries with ordinals in
	// [from, to) into result.
	ReadUnion(from, to uint32, result *roaring.Bitmap) error

	// Cardinality returns the number of distinct non-null values indexed.
	Cardinality() uint32

	// HasNullBitmap reports whether the index tracks null rows separately.
	HasNullBitmap() bool
	// ReadNullBitmap ORs the null-row bitmap into result.
	ReadNullBitmap(result *roaring.Bitmap) error
}

// InvertedIndexIterator resolves term queries against an inverted index.
type InvertedIndexIterator interface {
	// ReadFromIndex unions the row ordinals matching the term under the
	// given predicate kind into result. ErrNotSupported means this index
	// cannot answer the kind and evaluation must fall back to row data.
	ReadFromIndex(field string, term []byte, kind PredicateType, numRows uint32, result *roaring.Bitmap) error

	// ReadNullBitmap unions the ordinals of null rows into result.
	ReadNullBitmap(result *roaring.Bitmap) error
}

// FieldDescriptor describes the column a predicate binds to, as recorded in
// the segment footer. Predicates use it for apply-safety checks.
type FieldDescriptor struct {
	ColumnID int
	Name     string
	Type     PrimitiveType
	Nullable bool
}
