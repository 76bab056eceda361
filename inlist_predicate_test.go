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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInListConstructorValidation(t *testing.T) {
	_, err := NewInListPredicate(PredEQ, testField, []int32{1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewInListPredicate(PredInList, testField, []int32{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInListEvaluate(t *testing.T) {
	col := NewNullableColumnVector([]int32{5, 3, 9, 7, 0}, []bool{false, false, false, false, true})

	in, err := NewInListPredicate(PredInList, testField, []int32{3, 7})
	require.NoError(t, err)

	sel := identitySel(5)
	size, err := in.Evaluate(col, sel, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{1, 3}, sel[:size])

	notIn, err := NewInListPredicate(PredNotInList, testField, []int32{3, 7})
	require.NoError(t, err)

	sel = identitySel(5)
	size, err = notIn.Evaluate(col, sel, 5)
	require.NoError(t, err)
	// the null row matches neither IN nor NOT_IN
	assert.Equal(t, []uint16{0, 2}, sel[:size])
}

func TestInListDeduplicatesByEncoding(t *testing.T) {
	// the same decimal at two scales collapses to one member
	field := FieldDescriptor{ColumnID: 3, Name: "amount", Type: TypeDecimal}
	in, err := NewInListPredicate(PredInList, field, []Decimal{
		NewDecimal(150, 2),
		NewDecimal(1500, 3),
	})
	require.NoError(t, err)
	assert.Contains(t, in.String(), "operands=1")
}

func TestInListZoneMap(t *testing.T) {
	zm := NewZoneMap[int32](10, 20, false)

	in, err := NewInListPredicate(PredInList, testField, []int32{1, 15})
	require.NoError(t, err)
	might, err := in.EvalZoneMap(zm)
	require.NoError(t, err)
	assert.True(t, might)

	outside, err := NewInListPredicate(PredInList, testField, []int32{1, 25})
	require.NoError(t, err)
	might, err = outside.EvalZoneMap(zm)
	require.NoError(t, err)
	assert.False(t, might)

	// constant range equal to a member: IN is always true, NOT_IN prunes
	constant := NewZoneMap[int32](15, 15, false)
	member, err := NewInListPredicate(PredInList, testField, []int32{15})
	require.NoError(t, err)
	always, err := member.ZoneMapAlwaysTrue(constant)
	require.NoError(t, err)
	assert.True(t, always)

	notIn, err := NewInListPredicate(PredNotInList, testField, []int32{15})
	require.NoError(t, err)
	might, err = notIn.EvalZoneMap(constant)
	require.NoError(t, err)
	assert.False(t, might)

	// NOT_IN is proven over a range disjoint from every member
	disjoint, err := NewInListPredicate(PredNotInList, testField, []int32{1, 25})
	require.NoError(t, err)
	always, err = disjoint.ZoneMapAlwaysTrue(zm)
	require.NoError(t, err)
	assert.True(t, always)
}

func TestInListBloomFilter(t *testing.T) {
	bf := fakeBloom{keys: map[string]bool{string(EncodeValue(int32(7))): true}}

	in, err := NewInListPredicate(PredInList, testField, []int32{3, 7})
	require.NoError(t, err)
	require.True(t, in.CanEvalBloomFilter())
	might, err := in.EvalBloomFilter(bf)
	require.NoError(t, err)
	assert.True(t, might)

	absent, err := NewInListPredicate(PredInList, testField, []int32{4, 6})
	require.NoError(t, err)
	might, err = absent.EvalBloomFilter(bf)
	require.NoError(t, err)
	assert.False(t, might)

	notIn, err := NewInListPredicate(PredNotInList, testField, []int32{3})
	require.NoError(t, err)
	assert.False(t, notIn.CanEvalBloomFilter())
}

func TestInListDictionary(t *testing.T) {
	words := [][]byte{EncodeValue(int32(3)), EncodeValue(int32(5))}

	in, err := NewInListPredicate(PredInList, testField, []int32{5, 9})
	require.NoError(t, err)
	might, err := in.EvalDictionary(words)
	require.NoError(t, err)
	assert.True(t, might)

	miss, err := NewInListPredicate(PredInList, testField, []int32{9})
	require.NoError(t, err)
	might, err = miss.EvalDictionary(words)
	require.NoError(t, err)
	assert.False(t, might)

	// every word is a member, so NOT_IN cannot match in this page
	notIn, err := NewInListPredicate(PredNotInList, testField, []int32{3, 5})
	require.NoError(t, err)
	might, err = notIn.EvalDictionary(words)
	require.NoError(t, err)
	assert.False(t, might)
}
