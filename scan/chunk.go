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
	"github.com/luna-seek/doris"
)

// Chunk is one batch of rows from a segment, holding the materialized
// columns the pushed-down predicates touch, keyed by column id.
type Chunk struct {
	columns map[int]doris.Column
	numRows int
}

// NewChunk builds an empty chunk of numRows rows.
func NewChunk(numRows int) *Chunk {
	return &Chunk{columns: make(map[int]doris.Column), numRows: numRows}
}

// AddColumn registers a column container under its id. The container must
// hold exactly the chunk's row count.
func (c *Chunk) AddColumn(id int, col doris.Column) error {
	if col.Size() != c.numRows {
		return errColumnSize(id, col.Size(), c.numRows)
	}
	c.columns[id] = col

	return nil
}

// Column returns the container registered under id, or nil.
func (c *Chunk) Column(id int) doris.Column { return c.columns[id] }

// NumRows returns the chunk's row count.
func (c *Chunk) NumRows() int { return c.numRows }

func errColumnSize(id, got, want int) error {
	return errInvalidf("column %d holds %d rows, chunk holds %d", id, got, want)
}
