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

// DefaultJudgeFrequency is the number of evaluate calls in one selectivity
// observation window when the caller does not configure its own.
const DefaultJudgeFrequency = 64

// SelectivityPolicy controls the adaptive disabling of runtime-filter
// predicates that observably filter almost nothing.
type SelectivityPolicy struct {
	// JudgeFrequency is the length, in Evaluate calls, of one observation
	// window. At each window boundary the accumulated row counts reset and
	// a disabled predicate gets re-enabled to observe again. Zero or
	// negative disables tracking entirely.
	JudgeFrequency int

	// IgnoreThreshold is the minimum fraction of input rows a predicate
	// must filter out to stay active. With the zero value no predicate is
	// ever ignored.
	IgnoreThreshold float64
}

// selectivityTracker accumulates per-window filtering statistics for one
// predicate instance. Instances are scan-task local, so no synchronization.
type selectivityTracker struct {
	policy SelectivityPolicy

	judgeCounter int
	inputRows    int64
	selectedRows int64
	alwaysTrue   bool
}

// countdown advances the window clock by one Evaluate call. It runs before
// the always-true short circuit so that a disabled predicate still reaches
// the window boundary and gets another chance to prove itself.
func (s *selectivityTracker) countdown() {
	if s.judgeCounter <= 0 {
		s.alwaysTrue = false
		s.inputRows = 0
		s.selectedRows = 0
		s.judgeCounter = s.policy.JudgeFrequency
	}
	s.judgeCounter--
}

// observe records one evaluated batch and flips the predicate to
// always-true when the filtered fraction of the window so far stays under
// the policy threshold.
func (s *selectivityTracker) observe(input, selected int) {
	s.inputRows += int64(input)
	s.selectedRows += int64(selected)
	if s.inputRows > 0 {
		filtered := float64(s.inputRows - s.selectedRows)
		s.alwaysTrue = filtered < float64(s.inputRows)*s.policy.IgnoreThreshold
	}
}
