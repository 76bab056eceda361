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
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

func testBitmapFilter(values ...uint32) *roaring.Bitmap {
	return roaring.BitmapOf(values...)
}

type fakeBloom struct {
	keys map[string]bool
	null bool
}

func (f fakeBloom) TestBytes(key []byte) bool { return f.keys[string(key)] }
func (f fakeBloom) TestNull() bool            { return f.null }

// fakeBitmapIndex is a tiny sorted-dictionary bitmap index for exercising
// the EvalBitmapIndex paths without a real segment reader.
type fakeBitmapIndex struct {
	dict    [][]byte
	bitmaps []*roaring.Bitmap
	nulls   *roaring.Bitmap
	pos     int
}

func buildFakeBitmapIndex(rowsByValue map[int32][]uint32, nullRows []uint32) *fakeBitmapIndex {
	idx := &fakeBitmapIndex{nulls: roaring.BitmapOf(nullRows...)}

	values := make([]int32, 0, len(rowsByValue))
	for v := range rowsByValue {
		values = append(values, v)
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for _, v := range values {
		idx.dict = append(idx.dict, EncodeValue(v))
		idx.bitmaps = append(idx.bitmaps, roaring.BitmapOf(rowsByValue[v]...))
	}

	return idx
}

func (f *fakeBitmapIndex) SeekDictionary(encoded []byte) (bool, error) {
	f.pos = sort.Search(len(f.dict), func(i int) bool {
		return bytes.Compare(f.dict[i], encoded) >= 0
	})

	return f.pos < len(f.dict) && bytes.Equal(f.dict[f.pos], encoded), nil
}

func (f *fakeBitmapIndex) CurrentOrdinal() uint32 { return uint32(f.pos) }

func (f *fakeBitmapIndex) ReadUnion(from, to uint32, result *roaring.Bitmap) error {
	for ord := from; ord < to; ord++ {
		result.Or(f.bitmaps[ord])
	}

	return nil
}

func (f *fakeBitmapIndex) Cardinality() uint32 { return uint32(len(f.dict)) }

func (f *fakeBitmapIndex) HasNullBitmap() bool { return !f.nulls.IsEmpty() }

func (f *fakeBitmapIndex) ReadNullBitmap(result *roaring.Bitmap) error {
	result.Or(f.nulls)

	return nil
}

// fakeInvertedIndex answers EQ by whole value and MATCH by lowercased
// token.
type fakeInvertedIndex struct {
	field  string
	terms  map[string]*roaring.Bitmap
	tokens map[string]*roaring.Bitmap
	nulls  *roaring.Bitmap
}

func buildFakeInvertedIndex(field string, values []string, nullRows []uint32) *fakeInvertedIndex {
	idx := &fakeInvertedIndex{
		field:  field,
		terms:  make(map[string]*roaring.Bitmap),
		tokens: make(map[string]*roaring.Bitmap),
		nulls:  roaring.BitmapOf(nullRows...),
	}
	post := func(m map[string]*roaring.Bitmap, key string, row uint32) {
		if m[key] == nil {
			m[key] = roaring.New()
		}
		m[key].Add(row)
	}
	for row, v := range values {
		post(idx.terms, v, uint32(row))
		for _, tok := range strings.Fields(strings.ToLower(v)) {
			post(idx.tokens, tok, uint32(row))
		}
	}

	return idx
}

func (f *fakeInvertedIndex) ReadFromIndex(field string, term []byte, kind PredicateType, numRows uint32, result *roaring.Bitmap) error {
	if field != f.field {
		return errInvalid("index covers %s, not %s", f.field, field)
	}

	var bm *roaring.Bitmap
	switch kind {
	case PredMatch:
		bm = f.tokens[strings.ToLower(string(term))]
	case PredEQ:
		bm = f.terms[string(term)]
	default:
		return ErrNotSupported
	}
	if bm != nil {
		result.Or(bm)
	}

	return nil
}

func (f *fakeInvertedIndex) ReadNullBitmap(result *roaring.Bitmap) error {
	result.Or(f.nulls)

	return nil
}
