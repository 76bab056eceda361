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

// Package profile provides the runtime counters that scan components report
// their work into. Counters are cheap atomic accumulators; many predicate
// instances across parallel scan tasks may share one counter.
package profile

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// Counter is a monotonically growing tally shared across goroutines.
type Counter struct {
	v atomic.Int64
}

// Add adds n to the counter.
func (c *Counter) Add(n int64) { c.v.Add(n) }

// Value returns the current tally.
func (c *Counter) Value() int64 { return c.v.Load() }

// PredicateCounters groups the counters a single predicate reports into.
type PredicateCounters struct {
	// InputRows counts rows handed to Evaluate, including rows passed
	// through while the predicate was adaptively disabled.
	InputRows Counter
	// FilteredRows counts rows removed by Evaluate.
	FilteredRows Counter
	// PassedThroughRows counts rows accepted without inspection because
	// the predicate was in its always-true state.
	PassedThroughRows Counter
}

// Profile is a named registry of counters for one scan. Lookup is guarded;
// the counters themselves are updated lock-free on the hot path.
type Profile struct {
	name string

	mu       sync.Mutex
	counters map[string]*Counter
}

// New returns an empty profile with the given display name.
func New(name string) *Profile {
	return &Profile{name: name, counters: make(map[string]*Counter)}
}

// Counter returns the counter registered under name, creating it on first
// use. The returned pointer stays valid for the lifetime of the profile.
func (p *Profile) Counter(name string) *Counter {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.counters[name]
	if !ok {
		c = &Counter{}
		p.counters[name] = c
	}

	return c
}

// String renders the profile as one line per counter, sorted by name.
func (p *Profile) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.counters))
	for name := range p.counters {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:\n", p.name)
	for _, name := range names {
		fmt.Fprintf(&sb, "  %s: %d\n", name, p.counters[name].Value())
	}

	return sb.String()
}
