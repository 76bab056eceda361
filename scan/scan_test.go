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

package scan

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luna-seek/doris"
	"github.com/luna-seek/doris/index"
	"github.com/luna-seek/doris/profile"
)

var (
	priceField = doris.FieldDescriptor{ColumnID: 1, Name: "price", Type: doris.TypeInt64}
	nameField  = doris.FieldDescriptor{ColumnID: 2, Name: "name", Type: doris.TypeString}
)

func mustPred[T doris.ValueType](t *testing.T, typ doris.PredicateType, field doris.FieldDescriptor, v T) doris.ColumnPredicate {
	t.Helper()
	pred, err := doris.NewComparisonPredicate(typ, field, v)
	require.NoError(t, err)

	return pred
}

func testChunk(t *testing.T, prices []int64, names []string) *Chunk {
	t.Helper()
	chunk := NewChunk(len(prices))
	require.NoError(t, chunk.AddColumn(1, doris.NewColumnVector(prices)))
	require.NoError(t, chunk.AddColumn(2, doris.NewColumnVector(names)))

	return chunk
}

func TestChunkColumnSizeMismatch(t *testing.T) {
	chunk := NewChunk(3)
	err := chunk.AddColumn(1, doris.NewColumnVector([]int64{1, 2}))
	assert.ErrorIs(t, err, doris.ErrInvalidArgument)
}

func TestFilterChunk(t *testing.T) {
	chunk := testChunk(t,
		[]int64{10, 25, 30, 5, 25},
		[]string{"a", "b", "c", "d", "b"},
	)

	preds := []doris.ColumnPredicate{
		mustPred(t, doris.PredGE, priceField, int64(20)),
		mustPred(t, doris.PredEQ, nameField, "b"),
	}

	sel, err := FilterChunk(chunk, preds)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 4}, sel)
}

func TestFilterChunkMissingColumn(t *testing.T) {
	chunk := NewChunk(2)
	require.NoError(t, chunk.AddColumn(1, doris.NewColumnVector([]int64{1, 2})))

	_, err := FilterChunk(chunk, []doris.ColumnPredicate{
		mustPred(t, doris.PredEQ, nameField, "b"),
	})
	assert.ErrorIs(t, err, doris.ErrInvalidArgument)
}

func TestFilterChunkRejectsOversizedChunk(t *testing.T) {
	prices := make([]int64, math.MaxUint16+1)
	prices[len(prices)-1] = 42

	chunk := NewChunk(len(prices))
	require.NoError(t, chunk.AddColumn(1, doris.NewColumnVector(prices)))

	_, err := FilterChunk(chunk, []doris.ColumnPredicate{
		mustPred(t, doris.PredEQ, priceField, int64(42)),
	})
	assert.ErrorIs(t, err, doris.ErrInvalidArgument)
}

func TestFilterChunkShortCircuits(t *testing.T) {
	chunk := testChunk(t, []int64{1, 2}, []string{"a", "b"})

	sel, err := FilterChunk(chunk, []doris.ColumnPredicate{
		mustPred(t, doris.PredGT, priceField, int64(100)),
		mustPred(t, doris.PredEQ, nameField, "a"),
	})
	require.NoError(t, err)
	assert.Empty(t, sel)
}

func TestMightMatch(t *testing.T) {
	ev := SegmentEvidence{
		ZoneMaps: map[int]doris.ZoneMapStats{
			1: doris.NewZoneMap[int64](10, 20, false),
		},
		BloomFilters: map[int]doris.BloomFilter{
			2: index.BuildBloomFilter([]string{"a", "b"}, 0.01),
		},
		Dictionaries: map[int][][]byte{
			2: {doris.EncodeValue("a"), doris.EncodeValue("b")},
		},
	}

	keep, err := MightMatch([]doris.ColumnPredicate{
		mustPred(t, doris.PredLE, priceField, int64(15)),
		mustPred(t, doris.PredEQ, nameField, "a"),
	}, ev)
	require.NoError(t, err)
	assert.True(t, keep)

	// zone map rules the segment out
	keep, err = MightMatch([]doris.ColumnPredicate{
		mustPred(t, doris.PredGT, priceField, int64(20)),
	}, ev)
	require.NoError(t, err)
	assert.False(t, keep)

	// bloom filter proves the key absent
	keep, err = MightMatch([]doris.ColumnPredicate{
		mustPred(t, doris.PredEQ, nameField, "definitely-absent"),
	}, ev)
	require.NoError(t, err)
	assert.False(t, keep)
}

func TestApplyIndexes(t *testing.T) {
	prices := doris.NewColumnVector([]int64{10, 25, 30, 5})
	bitmapIdx := index.BuildBitmapIndex(prices)
	names := doris.NewColumnVector([]string{"red fox", "gray wolf", "red deer", "owl"})
	invertedIdx := index.BuildInvertedIndex("name", names)

	idx := ColumnIndexes{
		Bitmap:   map[int]doris.BitmapIndexIterator{1: bitmapIdx.Iterator()},
		Inverted: map[int]doris.InvertedIndexIterator{2: invertedIdx.Iterator()},
	}

	match, err := doris.NewMatchPredicate(nameField, "red")
	require.NoError(t, err)
	preds := []doris.ColumnPredicate{
		mustPred(t, doris.PredGE, priceField, int64(10)),
		match,
	}

	result, remaining, err := ApplyIndexes(preds, idx, 4)
	require.NoError(t, err)
	assert.Empty(t, remaining, "both predicates answered exactly by indexes")
	assert.Equal(t, []uint32{0, 2}, result.ToArray())
}

func TestApplyIndexesLeavesUnansweredPredicates(t *testing.T) {
	pred := mustPred(t, doris.PredGE, priceField, int64(10))

	result, remaining, err := ApplyIndexes([]doris.ColumnPredicate{pred}, ColumnIndexes{}, 4)
	require.NoError(t, err)
	assert.Equal(t, []doris.ColumnPredicate{pred}, remaining)
	assert.Equal(t, uint64(4), result.GetCardinality())
}

func TestFilterChunks(t *testing.T) {
	chunks := []*Chunk{
		testChunk(t, []int64{10, 25}, []string{"b", "b"}),
		testChunk(t, []int64{30, 5}, []string{"b", "b"}),
		testChunk(t, []int64{25, 25}, []string{"a", "b"}),
	}

	counters := &profile.PredicateCounters{}
	factory := func() ([]doris.ColumnPredicate, error) {
		ge, err := doris.NewComparisonPredicate(doris.PredGE, priceField, int64(20))
		if err != nil {
			return nil, err
		}
		eq, err := doris.NewComparisonPredicate(doris.PredEQ, nameField, "b")
		if err != nil {
			return nil, err
		}
		ge.AttachProfileCounters(counters)

		return []doris.ColumnPredicate{ge, eq}, nil
	}

	results, err := FilterChunks(context.Background(), chunks, factory, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []uint16{1}, results[0])
	assert.Equal(t, []uint16{0}, results[1])
	assert.Equal(t, []uint16{1}, results[2])

	assert.Equal(t, int64(6), counters.InputRows.Value())
	assert.Equal(t, int64(2), counters.FilteredRows.Value())
}

func TestFilterChunksCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chunks := []*Chunk{testChunk(t, []int64{1}, []string{"a"})}
	_, err := FilterChunks(ctx, chunks, func() ([]doris.ColumnPredicate, error) {
		return nil, nil
	}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
