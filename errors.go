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
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is wrapped by errors and panics raised for
	// arguments that violate a constructor or method contract.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrType is raised when a column or operand value does not have the
	// type a predicate was built against. Callers are expected to guard
	// evaluation with CanApplySafely, so hitting this is a programming
	// error rather than a recoverable condition.
	ErrType = errors.New("invalid type")

	// ErrNotSupported signals that a predicate has no evaluation strategy
	// for the requested evidence source. It is non-fatal: the caller is
	// expected to fall back to a more general evaluation path.
	ErrNotSupported = errors.New("not supported")

	// ErrNotImplemented is carried by panics from methods that have no
	// sensible default and were invoked without an override.
	ErrNotImplemented = errors.New("not implemented")

	// ErrDecimalOverflow is returned by checked decimal arithmetic when a
	// result exceeds the representable fixed-point range.
	ErrDecimalOverflow = errors.New("decimal arithmetic overflow")
)

func errInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
