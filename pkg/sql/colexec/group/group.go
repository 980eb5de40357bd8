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

package group

import (
	"bytes"
	"strings"

	"github.com/matrixorigin/mosearch/pkg/common/hashmap"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "group"

func (group *Group) String(buf *bytes.Buffer) {
	buf.WriteString(opName + "([")
	for i, expr := range group.Exprs {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(expr.String())
	}
	buf.WriteString("], [")
	aggs := make([]string, len(group.Aggs))
	for i, agg := range group.Aggs {
		aggs[i] = agg.Delegate.String()
		if agg.Name != aggs[i] {
			aggs[i] += " AS " + agg.Name
		}
	}
	buf.WriteString(strings.Join(aggs, ", "))
	buf.WriteString("])")
}

func (group *Group) OpType() vm.OpType {
	return vm.Group
}

func (group *Group) Open(proc *process.Process) error {
	group.ctr.reset()
	group.ResetLookahead()
	return group.OpenChildren(proc)
}

func (group *Group) HasNext() (bool, error) {
	return group.Peek(group.fetch)
}

func (group *Group) Next() (*types.Tuple, error) {
	return group.Take()
}

func (group *Group) fetch() (*types.Tuple, error) {
	ctr := &group.ctr
	if !ctr.built {
		if err := group.build(); err != nil {
			return nil, err
		}
		ctr.built = true
	}
	if ctr.idx >= uint64(len(ctr.states)) {
		return nil, nil
	}
	ctr.idx++
	return group.result(ctr.idx), nil
}

func (group *Group) build() error {
	ctr := &group.ctr
	ctr.hashMap = hashmap.NewKeyMap(true)
	input := group.Input()
	for {
		ok, err := input.HasNext()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		row, err := input.Next()
		if err != nil {
			return err
		}
		key, err := EvalKey(group.Exprs, row)
		if err != nil {
			return err
		}
		g, inserted := ctr.hashMap.Insert(key)
		if inserted {
			ctr.newStates(group.Aggs)
		}
		for i, agg := range group.Aggs {
			if err := agg.Delegate.Iterate(row, ctr.states[g-1][i]); err != nil {
				return err
			}
		}
	}
	// a global aggregation over no rows still yields one row
	if len(group.Exprs) == 0 && len(ctr.states) == 0 {
		ctr.hashMap.Insert(nil)
		ctr.newStates(group.Aggs)
	}
	return nil
}

func (group *Group) result(g uint64) *types.Tuple {
	row := types.NewTuple()
	key := group.ctr.hashMap.Key(g)
	for i, expr := range group.Exprs {
		row.Set(expr.OutputName(), key[i])
	}
	for i, agg := range group.Aggs {
		row.Set(agg.Name, group.ctr.states[g-1][i].Result())
	}
	return row
}

func (group *Group) Close() error {
	group.ctr.reset()
	return group.CloseChildren()
}

func (group *Group) Schema() *types.Schema {
	cols := make([]types.Column, 0, len(group.Exprs)+len(group.Aggs))
	for _, expr := range group.Exprs {
		cols = append(cols, expr.Column())
	}
	for _, agg := range group.Aggs {
		cols = append(cols, agg.Column())
	}
	return types.NewSchema(cols...)
}
