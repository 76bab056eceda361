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

// Package index provides in-memory implementations of the evidence sources
// the predicate layer consumes: bloom filters, bitmap indexes and inverted
// indexes. Segment readers backed by real storage satisfy the same
// interfaces.
package index

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/twmb/murmur3"

	"github.com/luna-seek/doris"
)

// BlockBloomFilter is a classic split bloom filter over encoded keys, with
// an extra null marker so IS_NULL pruning works. It satisfies
// doris.BloomFilter.
type BlockBloomFilter struct {
	bits      *bitset.BitSet
	numBits   uint64
	numHashes uint64
	hasNull   bool
}

// NewBlockBloomFilter sizes a filter for expectedEntries keys at the given
// false-positive probability.
func NewBlockBloomFilter(expectedEntries int, fpp float64) *BlockBloomFilter {
	if expectedEntries < 1 {
		expectedEntries = 1
	}
	if fpp <= 0 || fpp >= 1 {
		fpp = 0.05
	}

	ln2 := math.Ln2
	numBits := uint64(math.Ceil(-float64(expectedEntries) * math.Log(fpp) / (ln2 * ln2)))
	if numBits < 64 {
		numBits = 64
	}
	numHashes := uint64(math.Round(float64(numBits) / float64(expectedEntries) * ln2))
	if numHashes < 1 {
		numHashes = 1
	}

	return &BlockBloomFilter{
		bits:      bitset.New(uint(numBits)),
		numBits:   numBits,
		numHashes: numHashes,
	}
}

// AddBytes inserts an encoded key.
func (f *BlockBloomFilter) AddBytes(key []byte) {
	h1, h2 := murmur3.Sum128(key)
	for i := uint64(0); i < f.numHashes; i++ {
		f.bits.Set(uint((h1 + i*h2) % f.numBits))
	}
}

// AddNull records that a null value was inserted.
func (f *BlockBloomFilter) AddNull() { f.hasNull = true }

func (f *BlockBloomFilter) TestBytes(key []byte) bool {
	h1, h2 := murmur3.Sum128(key)
	for i := uint64(0); i < f.numHashes; i++ {
		if !f.bits.Test(uint((h1 + i*h2) % f.numBits)) {
			return false
		}
	}

	return true
}

func (f *BlockBloomFilter) TestNull() bool { return f.hasNull }

// BuildBloomFilter fills a filter with the encodings of values, the same
// encoding predicates probe with.
func BuildBloomFilter[T doris.ValueType](values []T, fpp float64) *BlockBloomFilter {
	f := NewBlockBloomFilter(len(values), fpp)
	for _, v := range values {
		f.AddBytes(doris.EncodeValue(v))
	}

	return f
}
