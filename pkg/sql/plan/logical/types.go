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

package logical

import (
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
)

type NodeType int32

const (
	// Relation is an index read row by row without any push down.
	Relation NodeType = iota
	// IndexScan is an index read with filter, sort, limit or projection
	// pushed into the backend query.
	IndexScan
	// IndexAgg is an index read with the aggregation pushed into the
	// backend query.
	IndexAgg
	Filter
	Project
	Aggregation
	Sort
	Limit
	Dedupe
	Rename
	Remove
	Eval
	RareTopN
	Window
	Values
)

var nodeTypeNames = [...]string{
	Relation:    "Relation",
	IndexScan:   "IndexScan",
	IndexAgg:    "IndexAgg",
	Filter:      "Filter",
	Project:     "Project",
	Aggregation: "Aggregation",
	Sort:        "Sort",
	Limit:       "Limit",
	Dedupe:      "Dedupe",
	Rename:      "Rename",
	Remove:      "Remove",
	Eval:        "Eval",
	RareTopN:    "RareTopN",
	Window:      "Window",
	Values:      "Values",
}

func (t NodeType) String() string {
	if t >= 0 && int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "Unknown"
}

type LimitSpec struct {
	Count  uint64
	Offset uint64
}

type Mapping struct {
	From string
	To   string
}

type DedupSpec struct {
	AllowedDuplication int
	KeepEmpty          bool
	Consecutive        bool
}

type RareTopNSpec struct {
	Rare        bool
	NoOfResults int
}

// Node is a logical plan node. Only the fields of its NodeType are set.
// Index nodes keep everything pushed into the backend query in the same
// fields the row-wise nodes use.
type Node struct {
	NodeType NodeType
	Children []*Node

	TableName string
	TableDef  *types.Schema

	FilterCond  expression.Expression
	ProjectList []*expression.NamedExpression
	AggList     []*expression.NamedAggregator
	GroupBy     []*expression.NamedExpression
	OrderBy     []expression.SortItem
	Limit       *LimitSpec

	DedupList []expression.Expression
	Dedup     DedupSpec
	Renames   []Mapping
	Removes   []string
	EvalList  []*expression.NamedExpression
	TopN      RareTopNSpec
	FieldList []*expression.NamedExpression
	WinFunc   *expression.NamedExpression
	WinDef    *expression.WindowDefinition

	Columns []string
	Rows    [][]expression.Expression
}

// Input is the only child of a unary node.
func (n *Node) Input() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// IsIndex reports whether the node reads an index.
func (n *Node) IsIndex() bool {
	switch n.NodeType {
	case Relation, IndexScan, IndexAgg:
		return true
	}
	return false
}
