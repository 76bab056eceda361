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

// Package scan drives pushed-down predicates through the standard filtering
// cascade: segment-level evidence first, then row-ordinal indexes, then row
// evaluation over selection vectors.
package scan

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"

	"github.com/luna-seek/doris"
)

func errInvalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{doris.ErrInvalidArgument}, args...)...)
}

// SegmentEvidence bundles the per-column metadata a segment exposes for
// pruning, keyed by column id. Any map may be nil or sparse; missing
// evidence never drops rows.
type SegmentEvidence struct {
	ZoneMaps     map[int]doris.ZoneMapStats
	BloomFilters map[int]doris.BloomFilter
	Dictionaries map[int][][]byte
}

// MightMatch reports whether the segment can contain rows satisfying every
// predicate. A false return proves the segment empty of matches and lets
// the scan skip it without reading data.
func MightMatch(preds []doris.ColumnPredicate, ev SegmentEvidence) (bool, error) {
	for _, pred := range preds {
		id := pred.Field().ColumnID

		if zm, ok := ev.ZoneMaps[id]; ok && pred.SupportsZoneMap() {
			keep, err := pred.EvalZoneMap(zm)
			if err != nil {
				return true, err
			}
			if !keep {
				return false, nil
			}
		}

		if bf, ok := ev.BloomFilters[id]; ok && pred.CanEvalBloomFilter() {
			keep, err := pred.EvalBloomFilter(bf)
			if err != nil {
				return true, err
			}
			if !keep {
				return false, nil
			}
		}

		if words, ok := ev.Dictionaries[id]; ok {
			keep, err := pred.EvalDictionary(words)
			if errors.Is(err, doris.ErrNotSupported) {
				continue
			}
			if err != nil {
				return true, err
			}
			if !keep {
				return false, nil
			}
		}
	}

	return true, nil
}

// ColumnIndexes holds the row-ordinal indexes of a segment, keyed by
// column id.
type ColumnIndexes struct {
	Bitmap   map[int]doris.BitmapIndexIterator
	Inverted map[int]doris.InvertedIndexIterator
}

// ApplyIndexes narrows the candidate row set through bitmap and inverted
// indexes. It returns the bitmap of rows that may still match and the
// predicates the indexes could not answer, which must go through row
// evaluation. Predicates fully answered by an exact index are consumed.
func ApplyIndexes(preds []doris.ColumnPredicate, idx ColumnIndexes, numRows uint32) (*roaring.Bitmap, []doris.ColumnPredicate, error) {
	result := roaring.New()
	result.AddRange(0, uint64(numRows))

	var remaining []doris.ColumnPredicate
	for _, pred := range preds {
		id := pred.Field().ColumnID

		if it, ok := idx.Bitmap[id]; ok {
			err := pred.EvalBitmapIndex(it, numRows, result)
			if err == nil {
				continue
			}
			if !errors.Is(err, doris.ErrNotSupported) {
				return nil, nil, err
			}
		}

		if it, ok := idx.Inverted[id]; ok {
			err := pred.EvalInvertedIndex(it, numRows, result)
			if err == nil {
				continue
			}
			if !errors.Is(err, doris.ErrNotSupported) {
				return nil, nil, err
			}
		}

		remaining = append(remaining, pred)
	}

	return result, remaining, nil
}

// FilterChunk evaluates the predicates over one chunk and returns the
// ordinals of surviving rows, in order. Predicates apply one after another,
// each narrowing the selection the next one sees. Chunks are limited to
// 65535 rows, the widest ordinal a selection vector can hold.
func FilterChunk(chunk *Chunk, preds []doris.ColumnPredicate) ([]uint16, error) {
	size := chunk.NumRows()
	if size > math.MaxUint16 {
		return nil, errInvalidf("chunk holds %d rows, selection ordinals support at most %d",
			size, math.MaxUint16)
	}
	sel := make([]uint16, size)
	for i := range sel {
		sel[i] = uint16(i)
	}

	for _, pred := range preds {
		col := chunk.Column(pred.Field().ColumnID)
		if col == nil {
			return nil, errInvalidf("chunk has no column %d for predicate %s",
				pred.Field().ColumnID, pred)
		}

		var err error
		size, err = pred.Evaluate(col, sel, size)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			break
		}
	}

	return sel[:size], nil
}

// PredicateFactory builds a fresh predicate set for one scan task.
// Predicate instances carry per-task adaptive state and must not be shared
// across goroutines; the profile counters the factory attaches may be.
type PredicateFactory func() ([]doris.ColumnPredicate, error)

// FilterChunks filters chunks concurrently with up to maxWorkers tasks,
// returning the surviving ordinals per chunk, index-aligned with the input.
func FilterChunks(ctx context.Context, chunks []*Chunk, factory PredicateFactory, maxWorkers int) ([][]uint16, error) {
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	results := make([][]uint16, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)
	for i, chunk := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			preds, err := factory()
			if err != nil {
				return err
			}
			results[i], err = FilterChunk(chunk, preds)

			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
