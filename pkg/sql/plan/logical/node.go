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
	"bytes"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
)

func NewRelation(name string, def *types.Schema) *Node {
	return &Node{NodeType: Relation, TableName: name, TableDef: def}
}

func NewFilter(input *Node, cond expression.Expression) *Node {
	return unary(input, &Node{NodeType: Filter, FilterCond: cond})
}

func NewProject(input *Node, projects ...*expression.NamedExpression) *Node {
	return unary(input, &Node{NodeType: Project, ProjectList: projects})
}

func NewAggregation(input *Node, aggs []*expression.NamedAggregator, groupBy []*expression.NamedExpression) *Node {
	return unary(input, &Node{NodeType: Aggregation, AggList: aggs, GroupBy: groupBy})
}

func NewSort(input *Node, items ...expression.SortItem) *Node {
	return unary(input, &Node{NodeType: Sort, OrderBy: items})
}

func NewLimit(input *Node, count, offset uint64) *Node {
	return unary(input, &Node{NodeType: Limit, Limit: &LimitSpec{Count: count, Offset: offset}})
}

func NewDedupe(input *Node, list []expression.Expression, spec DedupSpec) *Node {
	return unary(input, &Node{NodeType: Dedupe, DedupList: list, Dedup: spec})
}

func NewRename(input *Node, mappings ...Mapping) *Node {
	return unary(input, &Node{NodeType: Rename, Renames: mappings})
}

func NewRemove(input *Node, names ...string) *Node {
	return unary(input, &Node{NodeType: Remove, Removes: names})
}

func NewEval(input *Node, exprs ...*expression.NamedExpression) *Node {
	return unary(input, &Node{NodeType: Eval, EvalList: exprs})
}

func NewRareTopN(input *Node, spec RareTopNSpec, fields, groupBy []*expression.NamedExpression) *Node {
	return unary(input, &Node{NodeType: RareTopN, TopN: spec, FieldList: fields, GroupBy: groupBy})
}

func NewWindow(input *Node, fn *expression.NamedExpression, def *expression.WindowDefinition) *Node {
	return unary(input, &Node{NodeType: Window, WinFunc: fn, WinDef: def})
}

func NewValues(columns []string, rows [][]expression.Expression) *Node {
	return &Node{NodeType: Values, Columns: columns, Rows: rows}
}

func unary(input, n *Node) *Node {
	n.Children = []*Node{input}
	return n
}

// Explain renders the tree, one node per line, children indented.
func Explain(n *Node) string {
	buf := new(bytes.Buffer)
	explain(n, 0, buf)
	return strings.TrimSuffix(buf.String(), "\n")
}

func explain(n *Node, depth int, buf *bytes.Buffer) {
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString(n.String())
	buf.WriteString("\n")
	for _, child := range n.Children {
		explain(child, depth+1, buf)
	}
}

func (n *Node) String() string {
	var args []string
	switch n.NodeType {
	case Relation:
		args = append(args, n.TableName)
	case IndexScan, IndexAgg:
		args = append(args, n.TableName)
		if n.FilterCond != nil {
			args = append(args, "filter="+n.FilterCond.String())
		}
		if len(n.AggList) > 0 {
			args = append(args, "aggs="+join(n.AggList))
		}
		if len(n.GroupBy) > 0 {
			args = append(args, "group="+join(n.GroupBy))
		}
		if len(n.OrderBy) > 0 {
			args = append(args, "sort="+join(n.OrderBy))
		}
		if n.Limit != nil {
			args = append(args, "limit="+n.Limit.String())
		}
		if len(n.ProjectList) > 0 {
			args = append(args, "project="+join(n.ProjectList))
		}
	case Filter:
		args = append(args, n.FilterCond.String())
	case Project:
		args = append(args, join(n.ProjectList))
	case Aggregation:
		args = append(args, join(n.AggList), join(n.GroupBy))
	case Sort:
		args = append(args, join(n.OrderBy))
	case Limit:
		args = append(args, n.Limit.String())
	case Dedupe:
		args = append(args, join(n.DedupList), fmt.Sprintf("allowed %d, keepempty %v, consecutive %v",
			n.Dedup.AllowedDuplication, n.Dedup.KeepEmpty, n.Dedup.Consecutive))
	case Rename:
		args = append(args, strings.Join(lo.Map(n.Renames, func(m Mapping, _ int) string {
			return m.From + " AS " + m.To
		}), ", "))
	case Remove:
		args = append(args, strings.Join(n.Removes, ", "))
	case Eval:
		args = append(args, join(n.EvalList))
	case RareTopN:
		cmd := "top"
		if n.TopN.Rare {
			cmd = "rare"
		}
		args = append(args, fmt.Sprintf("%s %d", cmd, n.TopN.NoOfResults), join(n.FieldList), join(n.GroupBy))
	case Window:
		args = append(args, n.WinFunc.String())
	case Values:
		args = append(args, fmt.Sprintf("%d rows", len(n.Rows)))
	}
	return fmt.Sprintf("%s(%s)", n.NodeType, strings.Join(args, ", "))
}

func (l *LimitSpec) String() string {
	if l.Offset == 0 {
		return fmt.Sprintf("%d", l.Count)
	}
	return fmt.Sprintf("%d offset %d", l.Count, l.Offset)
}

func join[T fmt.Stringer](list []T) string {
	return "[" + strings.Join(lo.Map(list, func(e T, _ int) string {
		return e.String()
	}), ", ") + "]"
}
