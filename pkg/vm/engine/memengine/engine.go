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
	"sync"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
)

type table struct {
	schema *types.Schema
	rows   []*types.Tuple
}

// Engine holds named tables in memory. It reads whole tables only, plans
// over it are compiled without push down.
type Engine struct {
	sync.RWMutex
	pageSize int
	tables   map[string]*table
}

func NewEngine(pageSize int) *Engine {
	return &Engine{
		pageSize: pageSize,
		tables:   make(map[string]*table),
	}
}

// Create registers a table, replacing any table of the same name.
func (e *Engine) Create(name string, schema *types.Schema, rows []*types.Tuple) {
	e.Lock()
	defer e.Unlock()
	e.tables[name] = &table{schema: schema, rows: rows}
}

func (e *Engine) NewReader(ctx context.Context, node *logical.Node) (engine.Reader, error) {
	if node.NodeType != logical.Relation {
		return nil, moerr.NewNotSupported(ctx, "memory engine read of %s", node.NodeType)
	}
	e.RLock()
	defer e.RUnlock()
	tbl, ok := e.tables[node.TableName]
	if !ok {
		return nil, moerr.NewInvalidInput(ctx, "table %s does not exist", node.TableName)
	}
	return NewReader(node.TableName, tbl.schema, tbl.rows, e.pageSize), nil
}
