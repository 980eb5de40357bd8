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

package expression

import (
	"strings"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

type WindowKind int8

const (
	RowNumber WindowKind = iota
	Rank
	DenseRank
	AggregateWindow
)

// WindowDefinition is the partition and order of a window. Rows reaching
// the window operator are expected to be sorted accordingly.
type WindowDefinition struct {
	PartitionBy []Expression
	SortList    []SortItem
}

func (d *WindowDefinition) String() string {
	var parts []string
	if len(d.PartitionBy) > 0 {
		keys := make([]string, len(d.PartitionBy))
		for i, e := range d.PartitionBy {
			keys[i] = e.String()
		}
		parts = append(parts, "partition by "+strings.Join(keys, ", "))
	}
	if len(d.SortList) > 0 {
		keys := make([]string, len(d.SortList))
		for i, s := range d.SortList {
			keys[i] = s.String()
		}
		parts = append(parts, "order by "+strings.Join(keys, ", "))
	}
	return strings.Join(parts, " ")
}

// WindowFunction is a ranking function or an aggregator evaluated over a
// window frame.
type WindowFunction struct {
	Kind WindowKind
	Agg  *Aggregator
}

func NewRankingFunction(kind WindowKind) (*WindowFunction, error) {
	if kind == AggregateWindow {
		return nil, moerr.NewInvalidArg(moerr.Context(), "ranking function", kind)
	}
	return &WindowFunction{Kind: kind}, nil
}

func NewAggregateWindowFunction(agg *Aggregator) *WindowFunction {
	return &WindowFunction{Kind: AggregateWindow, Agg: agg}
}

func (w *WindowFunction) Type() types.T {
	if w.Kind == AggregateWindow {
		return w.Agg.Type()
	}
	return types.T_integer
}

func (w *WindowFunction) Eval(_ *types.Tuple) (types.Value, error) {
	return types.Value{}, moerr.NewNotSupported(moerr.Context(), "evaluate window function %s on a single row", w)
}

func (w *WindowFunction) Children() []Expression {
	if w.Agg != nil {
		return []Expression{w.Agg}
	}
	return nil
}

func (w *WindowFunction) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitWindowFunction(w, ctx)
}

func (w *WindowFunction) String() string {
	switch w.Kind {
	case RowNumber:
		return "row_number()"
	case Rank:
		return "rank()"
	case DenseRank:
		return "dense_rank()"
	}
	return w.Agg.String()
}
