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

package compile

import (
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/dedup"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/eval"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/group"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/limit"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/order"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/projection"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/raretopn"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/remove"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/rename"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/restrict"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/table_scan"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/value_scan"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/window"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
)

func constructTableScan(reader engine.Reader) *table_scan.TableScan {
	return table_scan.NewArgument(reader)
}

func constructValueScan(n *logical.Node) *value_scan.ValueScan {
	return value_scan.NewArgument(n.Columns, n.Rows)
}

func constructRestrict(n *logical.Node, input vm.Operator) *restrict.Filter {
	return restrict.NewArgument(input, n.FilterCond)
}

func constructProjection(n *logical.Node, input vm.Operator) *projection.Projection {
	return projection.NewArgument(input, n.ProjectList...)
}

func constructGroup(n *logical.Node, input vm.Operator) *group.Group {
	return group.NewArgument(input, n.AggList, n.GroupBy)
}

func constructOrder(n *logical.Node, input vm.Operator) *order.Order {
	return order.NewArgument(input, n.OrderBy...)
}

func constructLimit(n *logical.Node, input vm.Operator) *limit.Limit {
	return limit.NewArgument(input, n.Limit.Count, n.Limit.Offset)
}

func constructDedup(n *logical.Node, input vm.Operator) *dedup.Dedup {
	return dedup.NewArgument(input, n.DedupList, n.Dedup.AllowedDuplication, n.Dedup.KeepEmpty, n.Dedup.Consecutive)
}

func constructRename(n *logical.Node, input vm.Operator) *rename.Rename {
	mappings := make([]rename.Mapping, len(n.Renames))
	for i, m := range n.Renames {
		mappings[i] = rename.Mapping{From: m.From, To: m.To}
	}
	return rename.NewArgument(input, mappings...)
}

func constructRemove(n *logical.Node, input vm.Operator) *remove.Remove {
	return remove.NewArgument(input, n.Removes...)
}

func constructEval(n *logical.Node, input vm.Operator) *eval.Eval {
	return eval.NewArgument(input, n.EvalList...)
}

func constructRareTopN(n *logical.Node, input vm.Operator) *raretopn.RareTopN {
	command := raretopn.Top
	if n.TopN.Rare {
		command = raretopn.Rare
	}
	return raretopn.NewArgument(input, command, n.TopN.NoOfResults, n.FieldList, n.GroupBy)
}

func constructWindow(n *logical.Node, input vm.Operator) *window.Window {
	return window.NewArgument(input, n.WinFunc, n.WinDef)
}
