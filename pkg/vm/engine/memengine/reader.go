// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package memengine

import (
	"context"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
)

const defaultPageSize = 200

// standalone memory reader
type reader struct {
	name     string
	schema   *types.Schema
	rows     []*types.Tuple
	pageSize int

	opened bool
	offset int
}

var _ engine.Reader = new(reader)

// NewReader serves rows from memory in pages of pageSize rows. Every page
// holds clones, so callers may modify the rows they read.
func NewReader(name string, schema *types.Schema, rows []*types.Tuple, pageSize int) engine.Reader {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &reader{
		name:     name,
		schema:   schema,
		rows:     rows,
		pageSize: pageSize,
	}
}

func (r *reader) Open(_ context.Context) error {
	r.opened = true
	r.offset = 0
	return nil
}

func (r *reader) Read(ctx context.Context) ([]*types.Tuple, error) {
	if !r.opened {
		return nil, moerr.NewInvalidState(ctx, "read from unopened reader %s", r.name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := r.offset + r.pageSize
	if end > len(r.rows) {
		end = len(r.rows)
	}
	page := make([]*types.Tuple, 0, end-r.offset)
	for _, row := range r.rows[r.offset:end] {
		page = append(page, row.Clone())
	}
	r.offset = end
	return page, nil
}

func (r *reader) Close() error {
	r.opened = false
	return nil
}

func (r *reader) Schema() *types.Schema {
	return r.schema
}

func (r *reader) Name() string {
	return r.name
}
