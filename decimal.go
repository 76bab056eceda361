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
	"fmt"
	"math/big"

	"github.com/apache/arrow-go/v18/arrow/decimal128"
)

// DecimalScale is the fixed fractional-digit count of the storage decimal
// format. Comparison operands computed by the arithmetic kernel are always
// rescaled to it.
const DecimalScale = 9

// decimal values are limited to 18 integer digits plus 9 fractional digits;
// the raw unscaled magnitude may not exceed 10^27-1.
var maxDecimalRaw, _ = new(big.Int).SetString("999999999999999999999999999", 10)

// Decimal is a fixed-point value represented by an unscaled 128-bit integer
// and a scale indicating the number of fractional digits.
type Decimal struct {
	Val   decimal128.Num
	Scale int
}

// NewDecimal returns a Decimal holding the given unscaled value.
func NewDecimal(unscaled int64, scale int) Decimal {
	return Decimal{Val: decimal128.FromI64(unscaled), Scale: scale}
}

// ParseDecimal parses a decimal string such as "123.456" into a Decimal of
// the requested scale.
func ParseDecimal(s string, scale int) (Decimal, error) {
	n, err := decimal128.FromString(s, 38, int32(scale))
	if err != nil {
		return Decimal{}, fmt.Errorf("%w: cannot parse %q as decimal: %s",
			ErrInvalidArgument, s, err.Error())
	}

	return Decimal{Val: n, Scale: scale}, nil
}

func (d Decimal) String() string {
	return d.Val.ToString(int32(d.Scale))
}

// Cmp compares two decimals, rescaling the coarser-scale side up to the
// finer scale when the scales differ. Scaling up is lossless; a magnitude
// that overflows at the finer scale saturates in the direction of its sign.
func (d Decimal) Cmp(other Decimal) int {
	switch {
	case d.Scale == other.Scale:
		return d.Val.Cmp(other.Val)
	case d.Scale > other.Scale:
		rescaled, err := other.Val.Rescale(int32(other.Scale), int32(d.Scale))
		if err != nil {
			return -other.Val.Sign()
		}

		return d.Val.Cmp(rescaled)
	default:
		rescaled, err := d.Val.Rescale(int32(d.Scale), int32(other.Scale))
		if err != nil {
			return d.Val.Sign()
		}

		return rescaled.Cmp(other.Val)
	}
}

func (d Decimal) rescaledRaw() (*big.Int, error) {
	if d.Scale == DecimalScale {
		return d.Val.BigInt(), nil
	}

	n, err := d.Val.Rescale(int32(d.Scale), DecimalScale)
	if err != nil {
		return nil, fmt.Errorf("%w: %s cannot be rescaled to scale %d",
			ErrDecimalOverflow, d, DecimalScale)
	}

	return n.BigInt(), nil
}

func checkedResult(raw *big.Int, op string, a, b Decimal) (Decimal, error) {
	if raw.CmpAbs(maxDecimalRaw) > 0 {
		return Decimal{}, fmt.Errorf("%w: %s %s %s", ErrDecimalOverflow, a, op, b)
	}

	return Decimal{Val: decimal128.FromBigInt(raw), Scale: DecimalScale}, nil
}

// CheckedMul multiplies two decimals at storage scale. The fractional tail
// beyond nine digits is rounded away from zero. A result outside the
// representable range yields ErrDecimalOverflow instead of wrapping.
func (d Decimal) CheckedMul(other Decimal) (Decimal, error) {
	a, err := d.rescaledRaw()
	if err != nil {
		return Decimal{}, err
	}
	b, err := other.rescaledRaw()
	if err != nil {
		return Decimal{}, err
	}

	prod := new(big.Int).Mul(a, b)
	if prod.BitLen() > 127 {
		return Decimal{}, fmt.Errorf("%w: %s multiply %s", ErrDecimalOverflow, d, other)
	}

	// the raw product carries 18 fractional digits; fold it back to 9,
	// biasing the truncation by the result sign so any nonzero remainder
	// rounds away from zero
	sgn := int64(a.Sign() * b.Sign())
	raw := new(big.Int)
	if sgn != 0 {
		raw.Sub(prod, big.NewInt(sgn))
		raw.Quo(raw, big.NewInt(1_000_000_000))
		raw.Add(raw, big.NewInt(sgn))
	}

	return checkedResult(raw, "multiply", d, other)
}

// CheckedAdd adds two decimals at storage scale, surfacing
// ErrDecimalOverflow when the sum leaves the representable range.
func (d Decimal) CheckedAdd(other Decimal) (Decimal, error) {
	a, err := d.rescaledRaw()
	if err != nil {
		return Decimal{}, err
	}
	b, err := other.rescaledRaw()
	if err != nil {
		return Decimal{}, err
	}

	return checkedResult(new(big.Int).Add(a, b), "add", d, other)
}
