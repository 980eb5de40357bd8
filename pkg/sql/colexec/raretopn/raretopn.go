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

package raretopn

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/matrixorigin/mosearch/pkg/common/hashmap"
	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/group"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "rare_top_n"

func names(exprs []*expression.NamedExpression) string {
	out := make([]string, len(exprs))
	for i, e := range exprs {
		out[i] = e.String()
	}
	return strings.Join(out, ", ")
}

func (rareTopN *RareTopN) String(buf *bytes.Buffer) {
	buf.WriteString(fmt.Sprintf("%s(%s %d [%s]", opName, rareTopN.Command, rareTopN.NoOfResults, names(rareTopN.FieldList)))
	if len(rareTopN.GroupByList) > 0 {
		buf.WriteString(fmt.Sprintf(" by [%s]", names(rareTopN.GroupByList)))
	}
	buf.WriteString(")")
}

func (rareTopN *RareTopN) OpType() vm.OpType {
	return vm.RareTopN
}

func (rareTopN *RareTopN) Open(proc *process.Process) error {
	if rareTopN.NoOfResults < 0 {
		return moerr.NewInvalidArg(proc.Ctx, "number of results", rareTopN.NoOfResults)
	}
	if len(rareTopN.FieldList) == 0 {
		return moerr.NewInvalidInput(proc.Ctx, "%s needs at least one field", opName)
	}
	rareTopN.ctr.reset()
	rareTopN.ResetLookahead()
	return rareTopN.OpenChildren(proc)
}

func (rareTopN *RareTopN) HasNext() (bool, error) {
	return rareTopN.Peek(rareTopN.fetch)
}

func (rareTopN *RareTopN) Next() (*types.Tuple, error) {
	return rareTopN.Take()
}

func (rareTopN *RareTopN) fetch() (*types.Tuple, error) {
	ctr := &rareTopN.ctr
	if !ctr.built {
		if err := rareTopN.build(); err != nil {
			return nil, err
		}
		ctr.built = true
	}
	if ctr.idx >= len(ctr.results) {
		ctr.results = nil
		return nil, nil
	}
	row := ctr.results[ctr.idx]
	ctr.idx++
	return row, nil
}

func (rareTopN *RareTopN) build() error {
	ctr := &rareTopN.ctr
	ctr.groups = hashmap.NewKeyMap(true)
	input := rareTopN.Input()
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
		groupKey, err := group.EvalKey(rareTopN.GroupByList, row)
		if err != nil {
			return err
		}
		fieldKey, err := group.EvalKey(rareTopN.FieldList, row)
		if err != nil {
			return err
		}
		g, inserted := ctr.groups.Insert(groupKey)
		if inserted {
			ctr.partitions = append(ctr.partitions, &partition{
				key:    groupKey,
				values: hashmap.NewKeyMap(true),
			})
		}
		p := ctr.partitions[g-1]
		v, inserted := p.values.Insert(fieldKey)
		if inserted {
			p.counts = append(p.counts, 0)
		}
		p.counts[v-1]++
	}

	for _, p := range ctr.partitions {
		rareTopN.emit(p)
	}
	ctr.partitions = nil
	ctr.groups.Free()
	return nil
}

func (rareTopN *RareTopN) emit(p *partition) {
	order := make([]uint64, p.values.GroupCount())
	for i := range order {
		order[i] = uint64(i + 1)
	}
	slices.SortStableFunc(order, func(a, b uint64) int {
		ca, cb := p.counts[a-1], p.counts[b-1]
		if rareTopN.Command == Rare {
			ca, cb = cb, ca
		}
		switch {
		case ca > cb:
			return -1
		case ca < cb:
			return 1
		}
		return 0
	})
	if len(order) > rareTopN.NoOfResults {
		order = order[:rareTopN.NoOfResults]
	}
	for _, v := range order {
		row := types.NewTuple()
		for i, e := range rareTopN.GroupByList {
			row.Set(e.OutputName(), p.key[i])
		}
		key := p.values.Key(v)
		for i, e := range rareTopN.FieldList {
			row.Set(e.OutputName(), key[i])
		}
		rareTopN.ctr.results = append(rareTopN.ctr.results, row)
	}
}

func (rareTopN *RareTopN) Close() error {
	rareTopN.ctr.reset()
	return rareTopN.CloseChildren()
}

func (rareTopN *RareTopN) Schema() *types.Schema {
	cols := make([]types.Column, 0, len(rareTopN.GroupByList)+len(rareTopN.FieldList))
	for _, e := range rareTopN.GroupByList {
		cols = append(cols, e.Column())
	}
	for _, e := range rareTopN.FieldList {
		cols = append(cols, e.Column())
	}
	return types.NewSchema(cols...)
}
