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

package index

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"github.com/luna-seek/doris"
)

// MemInvertedIndex is an in-memory inverted index over a string column. It
// keeps two postings maps: whole values for the comparison kinds and
// lowercased whitespace tokens for MATCH.
type MemInvertedIndex struct {
	field  string
	terms  map[string]*roaring.Bitmap
	tokens map[string]*roaring.Bitmap
	sorted [][]byte
	nulls  *roaring.Bitmap
}

// BuildInvertedIndex indexes every row of the column under the given field
// name.
func BuildInvertedIndex(field string, col *doris.ColumnVector[string]) *MemInvertedIndex {
	idx := &MemInvertedIndex{
		field:  field,
		terms:  make(map[string]*roaring.Bitmap),
		tokens: make(map[string]*roaring.Bitmap),
		nulls:  roaring.New(),
	}

	for row := 0; row < col.Size(); row++ {
		if col.IsNullAt(row) {
			idx.nulls.Add(uint32(row))

			continue
		}
		value := col.Value(row)
		idx.post(idx.terms, value, uint32(row))
		for _, tok := range strings.Fields(strings.ToLower(value)) {
			idx.post(idx.tokens, tok, uint32(row))
		}
	}

	for term := range idx.terms {
		idx.sorted = append(idx.sorted, []byte(term))
	}
	sort.Slice(idx.sorted, func(i, j int) bool {
		return bytes.Compare(idx.sorted[i], idx.sorted[j]) < 0
	})

	return idx
}

func (x *MemInvertedIndex) post(m map[string]*roaring.Bitmap, key string, row uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.New()
		m[key] = bm
	}
	bm.Add(row)
}

// Iterator returns the query surface of the index.
func (x *MemInvertedIndex) Iterator() doris.InvertedIndexIterator {
	return &invertedIndexIterator{idx: x}
}

type invertedIndexIterator struct {
	idx *MemInvertedIndex
}

func (it *invertedIndexIterator) ReadFromIndex(field string, term []byte, kind doris.PredicateType, numRows uint32, result *roaring.Bitmap) error {
	if field != it.idx.field {
		return fmt.Errorf("%w: index covers column %s, not %s",
			doris.ErrInvalidArgument, it.idx.field, field)
	}

	switch {
	case kind == doris.PredMatch:
		if bm, ok := it.idx.tokens[strings.ToLower(string(term))]; ok {
			result.Or(bm)
		}
	case kind == doris.PredEQ:
		if bm, ok := it.idx.terms[string(term)]; ok {
			result.Or(bm)
		}
	case kind == doris.PredNE || kind.IsRange():
		for _, indexed := range it.idx.sorted {
			c := bytes.Compare(indexed, term)
			var m bool
			switch kind {
			case doris.PredNE:
				m = c != 0
			case doris.PredLT:
				m = c < 0
			case doris.PredLE:
				m = c <= 0
			case doris.PredGT:
				m = c > 0
			default:
				m = c >= 0
			}
			if m {
				result.Or(it.idx.terms[string(indexed)])
			}
		}
	default:
		return fmt.Errorf("%w: %s against inverted index",
			doris.ErrNotSupported, kind.Name())
	}

	return nil
}

func (it *invertedIndexIterator) ReadNullBitmap(result *roaring.Bitmap) error {
	result.Or(it.idx.nulls)

	return nil
}
