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
	"github.com/matrixorigin/mosearch/pkg/common/hashmap"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(RareTopN)

type CommandType int8

const (
	// Top keeps the most frequent values.
	Top CommandType = iota
	// Rare keeps the least frequent values.
	Rare
)

func (c CommandType) String() string {
	if c == Rare {
		return "rare"
	}
	return "top"
}

const DefaultNoOfResults = 10

// partition holds the value frequencies of one group.
type partition struct {
	key    []types.Value
	values *hashmap.KeyMap
	counts []int64
}

type container struct {
	built      bool
	groups     *hashmap.KeyMap
	partitions []*partition
	results    []*types.Tuple
	idx        int
}

// RareTopN returns, per group of GroupByList, the NoOfResults least
// (Rare) or most (Top) frequent value combinations of FieldList. Equally
// frequent values keep the order of their first appearance.
type RareTopN struct {
	ctr         container
	Command     CommandType
	NoOfResults int
	FieldList   []*expression.NamedExpression
	GroupByList []*expression.NamedExpression

	vm.OperatorBase
}

func (rareTopN *RareTopN) GetOperatorBase() *vm.OperatorBase {
	return &rareTopN.OperatorBase
}

func (rareTopN RareTopN) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, command CommandType, noOfResults int,
	fieldList []*expression.NamedExpression, groupByList []*expression.NamedExpression) *RareTopN {
	rareTopN := &RareTopN{
		Command:     command,
		NoOfResults: noOfResults,
		FieldList:   fieldList,
		GroupByList: groupByList,
	}
	rareTopN.AppendChild(input)
	return rareTopN
}

func (ctr *container) reset() {
	*ctr = container{}
}
