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
	"fmt"
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luna-seek/doris"
)

func TestBloomFilterMembership(t *testing.T) {
	f := NewBlockBloomFilter(1000, 0.01)
	for i := int64(0); i < 1000; i++ {
		f.AddBytes(doris.EncodeValue(i))
	}

	for i := int64(0); i < 1000; i++ {
		assert.True(t, f.TestBytes(doris.EncodeValue(i)), "inserted key %d must test positive", i)
	}

	falsePositives := 0
	for i := int64(10_000); i < 11_000; i++ {
		if f.TestBytes(doris.EncodeValue(i)) {
			falsePositives++
		}
	}
	assert.Less(t, falsePositives, 50, "false positive rate far above configured bound")
}

func TestBloomFilterNullMarker(t *testing.T) {
	f := NewBlockBloomFilter(10, 0.05)
	assert.False(t, f.TestNull())
	f.AddNull()
	assert.True(t, f.TestNull())
}

func TestBuildBloomFilter(t *testing.T) {
	f := BuildBloomFilter([]string{"apple", "banana"}, 0.01)
	assert.True(t, f.TestBytes(doris.EncodeValue("apple")))
	assert.False(t, f.TestBytes(doris.EncodeValue("definitely-absent-key")))
}

func TestBitmapIndexSeek(t *testing.T) {
	col := doris.NewNullableColumnVector(
		[]int32{5, 3, 5, 7, 0},
		[]bool{false, false, false, false, true},
	)
	it := BuildBitmapIndex(col).Iterator()

	// dictionary holds 3, 5, 7 in encoded order
	assert.Equal(t, uint32(3), it.Cardinality())

	exact, err := it.SeekDictionary(doris.EncodeValue(int32(5)))
	require.NoError(t, err)
	assert.True(t, exact)
	assert.Equal(t, uint32(1), it.CurrentOrdinal())

	exact, err = it.SeekDictionary(doris.EncodeValue(int32(4)))
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, uint32(1), it.CurrentOrdinal())

	exact, err = it.SeekDictionary(doris.EncodeValue(int32(100)))
	require.NoError(t, err)
	assert.False(t, exact)
	assert.Equal(t, it.Cardinality(), it.CurrentOrdinal())
}

func TestBitmapIndexReadUnion(t *testing.T) {
	col := doris.NewNullableColumnVector(
		[]int32{5, 3, 5, 7, 0},
		[]bool{false, false, false, false, true},
	)
	it := BuildBitmapIndex(col).Iterator()

	result := roaring.New()
	require.NoError(t, it.ReadUnion(0, 2, result))
	assert.Equal(t, []uint32{0, 1, 2}, result.ToArray())

	require.True(t, it.HasNullBitmap())
	nulls := roaring.New()
	require.NoError(t, it.ReadNullBitmap(nulls))
	assert.Equal(t, []uint32{4}, nulls.ToArray())

	err := it.ReadUnion(0, 99, roaring.New())
	assert.ErrorIs(t, err, doris.ErrInvalidArgument)
}

func TestBitmapIndexWithPredicate(t *testing.T) {
	col := doris.NewColumnVector([]int32{5, 3, 5, 7})
	it := BuildBitmapIndex(col).Iterator()
	field := doris.FieldDescriptor{ColumnID: 1, Name: "price", Type: doris.TypeInt32}

	pred, err := doris.NewComparisonPredicate(doris.PredGE, field, int32(5))
	require.NoError(t, err)

	result := roaring.New()
	result.AddRange(0, 4)
	require.NoError(t, pred.EvalBitmapIndex(it, 4, result))
	assert.Equal(t, []uint32{0, 2, 3}, result.ToArray())
}

func TestInvertedIndexMatch(t *testing.T) {
	col := doris.NewNullableColumnVector(
		[]string{"quick brown fox", "lazy dog", "Brown bear", ""},
		[]bool{false, false, false, true},
	)
	it := BuildInvertedIndex("title", col).Iterator()

	result := roaring.New()
	require.NoError(t, it.ReadFromIndex("title", []byte("Brown"), doris.PredMatch, 4, result))
	assert.Equal(t, []uint32{0, 2}, result.ToArray(), "match is case-insensitive on tokens")

	result = roaring.New()
	require.NoError(t, it.ReadFromIndex("title", []byte("lazy dog"), doris.PredEQ, 4, result))
	assert.Equal(t, []uint32{1}, result.ToArray())

	nulls := roaring.New()
	require.NoError(t, it.ReadNullBitmap(nulls))
	assert.Equal(t, []uint32{3}, nulls.ToArray())
}

func TestInvertedIndexRange(t *testing.T) {
	col := doris.NewColumnVector([]string{"apple", "banana", "cherry"})
	it := BuildInvertedIndex("fruit", col).Iterator()

	result := roaring.New()
	require.NoError(t, it.ReadFromIndex("fruit", []byte("banana"), doris.PredGE, 3, result))
	assert.Equal(t, []uint32{1, 2}, result.ToArray())

	result = roaring.New()
	require.NoError(t, it.ReadFromIndex("fruit", []byte("banana"), doris.PredNE, 3, result))
	assert.Equal(t, []uint32{0, 2}, result.ToArray())

	err := it.ReadFromIndex("fruit", []byte("x"), doris.PredBloomFilter, 3, roaring.New())
	assert.ErrorIs(t, err, doris.ErrNotSupported)

	err = it.ReadFromIndex("other", []byte("x"), doris.PredEQ, 3, roaring.New())
	assert.ErrorIs(t, err, doris.ErrInvalidArgument)
}

func TestInvertedIndexWithMatchPredicate(t *testing.T) {
	col := doris.NewColumnVector([]string{"big data engine", "small tool", "data plane"})
	idx := BuildInvertedIndex("desc", col)
	field := doris.FieldDescriptor{ColumnID: 9, Name: "desc", Type: doris.TypeString}

	pred, err := doris.NewMatchPredicate(field, "data")
	require.NoError(t, err)

	result := roaring.New()
	result.AddRange(0, 3)
	require.NoError(t, pred.EvalInvertedIndex(idx.Iterator(), 3, result))
	assert.Equal(t, []uint32{0, 2}, result.ToArray())
}

func TestBloomFilterSizing(t *testing.T) {
	for _, entries := range []int{0, 1, 100, 100_000} {
		t.Run(fmt.Sprintf("entries=%d", entries), func(t *testing.T) {
			f := NewBlockBloomFilter(entries, 0.05)
			f.AddBytes([]byte("k"))
			assert.True(t, f.TestBytes([]byte("k")))
		})
	}
}
