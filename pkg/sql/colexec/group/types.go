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
	"github.com/matrixorigin/mosearch/pkg/common/hashmap"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Group)

type container struct {
	built bool
	idx   uint64

	hashMap *hashmap.KeyMap
	// states[g-1] holds one state per aggregator for group g
	states [][]expression.AggregationState
}

// Group computes Aggs per distinct value of Exprs. Output rows hold the
// group keys followed by the aggregation results, groups in order of
// first appearance.
type Group struct {
	ctr   container
	Exprs []*expression.NamedExpression
	Aggs  []*expression.NamedAggregator

	vm.OperatorBase
}

func (group *Group) GetOperatorBase() *vm.OperatorBase {
	return &group.OperatorBase
}

func (group Group) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, aggs []*expression.NamedAggregator, exprs []*expression.NamedExpression) *Group {
	group := &Group{Aggs: aggs, Exprs: exprs}
	group.AppendChild(input)
	return group
}

func (ctr *container) reset() {
	if ctr.hashMap != nil {
		ctr.hashMap.Free()
	}
	*ctr = container{}
}

func (ctr *container) newStates(aggs []*expression.NamedAggregator) []expression.AggregationState {
	states := make([]expression.AggregationState, len(aggs))
	for i, agg := range aggs {
		states[i] = agg.Delegate.Create()
	}
	ctr.states = append(ctr.states, states)
	return states
}

// EvalKey evaluates the group key of a row.
func EvalKey(exprs []*expression.NamedExpression, row *types.Tuple) ([]types.Value, error) {
	key := make([]types.Value, len(exprs))
	for i, e := range exprs {
		v, err := e.Eval(row)
		if err != nil {
			return nil, err
		}
		key[i] = v
	}
	return key, nil
}
