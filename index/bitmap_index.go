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

	"github.com/RoaringBitmap/roaring"

	"github.com/luna-seek/doris"
)

// MemBitmapIndex is a sorted-dictionary bitmap index held in memory: one
// roaring bitmap of row ordinals per distinct encoded value, plus an
// optional bitmap of null rows.
type MemBitmapIndex struct {
	dict    [][]byte
	bitmaps []*roaring.Bitmap
	nulls   *roaring.Bitmap
}

// BuildBitmapIndex indexes every row of the column.
func BuildBitmapIndex[T doris.ValueType](col *doris.ColumnVector[T]) *MemBitmapIndex {
	byKey := make(map[string]*roaring.Bitmap)
	nulls := roaring.New()
	for row := 0; row < col.Size(); row++ {
		if col.IsNullAt(row) {
			nulls.Add(uint32(row))

			continue
		}
		key := string(doris.EncodeValue(col.Value(row)))
		bm, ok := byKey[key]
		if !ok {
			bm = roaring.New()
			byKey[key] = bm
		}
		bm.Add(uint32(row))
	}

	idx := &MemBitmapIndex{nulls: nulls}
	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		idx.dict = append(idx.dict, []byte(key))
		idx.bitmaps = append(idx.bitmaps, byKey[key])
	}

	return idx
}

// Iterator returns a fresh iterator positioned at ordinal zero.
func (x *MemBitmapIndex) Iterator() doris.BitmapIndexIterator {
	return &bitmapIndexIterator{idx: x}
}

type bitmapIndexIterator struct {
	idx *MemBitmapIndex
	pos int
}

func (it *bitmapIndexIterator) SeekDictionary(encoded []byte) (bool, error) {
	it.pos = sort.Search(len(it.idx.dict), func(i int) bool {
		return bytes.Compare(it.idx.dict[i], encoded) >= 0
	})

	return it.pos < len(it.idx.dict) && bytes.Equal(it.idx.dict[it.pos], encoded), nil
}

func (it *bitmapIndexIterator) CurrentOrdinal() uint32 { return uint32(it.pos) }

func (it *bitmapIndexIterator) ReadUnion(from, to uint32, result *roaring.Bitmap) error {
	if to > uint32(len(it.idx.bitmaps)) || from > to {
		return fmt.Errorf("%w: ordinal range [%d, %d) outside dictionary of %d entries",
			doris.ErrInvalidArgument, from, to, len(it.idx.bitmaps))
	}

	for ord := from; ord < to; ord++ {
		result.Or(it.idx.bitmaps[ord])
	}

	return nil
}

func (it *bitmapIndexIterator) Cardinality() uint32 { return uint32(len(it.idx.dict)) }

func (it *bitmapIndexIterator) HasNullBitmap() bool { return !it.idx.nulls.IsEmpty() }

func (it *bitmapIndexIterator) ReadNullBitmap(result *roaring.Bitmap) error {
	result.Or(it.idx.nulls)

	return nil
}
