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

package rule

import (
	"github.com/samber/lo"

	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
)

// Rule rewrites a logical node into a backend index node. Match must not
// hold again for the node Apply returns, so rules can run to a fixpoint.
type Rule interface {
	Name() string
	Match(node *logical.Node) bool
	Apply(node *logical.Node) (*logical.Node, error)
}

// DefaultRules are the push down rules in the order they are tried.
func DefaultRules() []Rule {
	return []Rule{
		MergeFilterAndRelation{},
		MergeAggAndRelation{},
		MergeSortAndIndexAgg{},
		MergeSortAndRelation{},
		MergeLimitAndRelation{},
		PushProjectAndRelation{},
	}
}

// isScan reports whether n is an index read that still returns raw rows.
func isScan(n *logical.Node) bool {
	return n != nil && (n.NodeType == logical.Relation || n.NodeType == logical.IndexScan)
}

func toIndexScan(n *logical.Node) *logical.Node {
	n.NodeType = logical.IndexScan
	return n
}

// MergeFilterAndRelation pushes a filter into the backend query. A filter
// above a pushed limit would change the result and is kept.
type MergeFilterAndRelation struct{}

func (MergeFilterAndRelation) Name() string { return "merge_filter_and_relation" }

func (MergeFilterAndRelation) Match(node *logical.Node) bool {
	child := node.Input()
	return node.NodeType == logical.Filter && isScan(child) && child.Limit == nil
}

func (MergeFilterAndRelation) Apply(node *logical.Node) (*logical.Node, error) {
	child := node.Input()
	if child.FilterCond == nil {
		child.FilterCond = node.FilterCond
	} else {
		cond, err := expression.NewFunction("and", child.FilterCond, node.FilterCond)
		if err != nil {
			return nil, err
		}
		child.FilterCond = cond
	}
	return toIndexScan(child), nil
}

// MergeAggAndRelation turns an aggregation over a filtered index into a
// backend aggregation query.
type MergeAggAndRelation struct{}

func (MergeAggAndRelation) Name() string { return "merge_agg_and_relation" }

func (MergeAggAndRelation) Match(node *logical.Node) bool {
	child := node.Input()
	return node.NodeType == logical.Aggregation && isScan(child) &&
		len(child.OrderBy) == 0 && child.Limit == nil && len(child.ProjectList) == 0 &&
		aggregationPushable(node.AggList, node.GroupBy)
}

func (MergeAggAndRelation) Apply(node *logical.Node) (*logical.Node, error) {
	child := node.Input()
	child.NodeType = logical.IndexAgg
	child.AggList = node.AggList
	child.GroupBy = node.GroupBy
	return child, nil
}

// aggregationPushable holds when the aggregation compiler can express the
// aggregation: a span group by must be the only group by, and distinct is
// only supported by count.
func aggregationPushable(aggs []*expression.NamedAggregator, groupBy []*expression.NamedExpression) bool {
	spans := lo.CountBy(groupBy, func(e *expression.NamedExpression) bool {
		_, ok := e.Delegate.(*expression.Span)
		return ok
	})
	if spans > 0 && len(groupBy) > 1 {
		return false
	}
	return lo.EveryBy(aggs, func(a *expression.NamedAggregator) bool {
		return !a.Delegate.Distinct || a.Delegate.Func == expression.AggCount
	})
}

// MergeSortAndIndexAgg pushes a sort over the group keys into the order
// of the composite sources. The sort keys must be a prefix of the group
// by list because the sources keep the group by order.
type MergeSortAndIndexAgg struct{}

func (MergeSortAndIndexAgg) Name() string { return "merge_sort_and_index_agg" }

func (MergeSortAndIndexAgg) Match(node *logical.Node) bool {
	child := node.Input()
	if node.NodeType != logical.Sort || child == nil || child.NodeType != logical.IndexAgg ||
		len(child.OrderBy) > 0 || len(node.OrderBy) > len(child.GroupBy) {
		return false
	}
	if !SortByFieldsOnly(node.OrderBy) || !SortByDefaultOptionOnly(node.OrderBy) {
		return false
	}
	for i, item := range node.OrderBy {
		if item.Expr.(*expression.Reference).Attr != child.GroupBy[i].OutputName() {
			return false
		}
	}
	return true
}

func (MergeSortAndIndexAgg) Apply(node *logical.Node) (*logical.Node, error) {
	child := node.Input()
	child.OrderBy = node.OrderBy
	return child, nil
}

// MergeSortAndRelation pushes a sort on plain fields into the backend
// query. An earlier pushed sort only breaks ties of the new one.
type MergeSortAndRelation struct{}

func (MergeSortAndRelation) Name() string { return "merge_sort_and_relation" }

func (MergeSortAndRelation) Match(node *logical.Node) bool {
	child := node.Input()
	return node.NodeType == logical.Sort && isScan(child) && child.Limit == nil &&
		SortByFieldsOnly(node.OrderBy) && SortByDefaultOptionOnly(node.OrderBy)
}

func (MergeSortAndRelation) Apply(node *logical.Node) (*logical.Node, error) {
	child := node.Input()
	child.OrderBy = append(append([]expression.SortItem{}, node.OrderBy...), child.OrderBy...)
	return toIndexScan(child), nil
}

// MergeLimitAndRelation pushes limit and offset into the backend query.
type MergeLimitAndRelation struct{}

func (MergeLimitAndRelation) Name() string { return "merge_limit_and_relation" }

func (MergeLimitAndRelation) Match(node *logical.Node) bool {
	child := node.Input()
	return node.NodeType == logical.Limit && isScan(child) && child.Limit == nil
}

func (MergeLimitAndRelation) Apply(node *logical.Node) (*logical.Node, error) {
	child := node.Input()
	child.Limit = node.Limit
	return toIndexScan(child), nil
}

// PushProjectAndRelation restricts the fields fetched from the backend to
// the ones the projection references. The projection itself stays.
type PushProjectAndRelation struct{}

func (PushProjectAndRelation) Name() string { return "push_project_and_relation" }

func (PushProjectAndRelation) Match(node *logical.Node) bool {
	child := node.Input()
	return node.NodeType == logical.Project && isScan(child) && len(child.ProjectList) == 0 &&
		len(FindReferenceExpressions(node.ProjectList)) > 0
}

func (PushProjectAndRelation) Apply(node *logical.Node) (*logical.Node, error) {
	child := node.Input()
	child.ProjectList = lo.Map(FindReferenceExpressions(node.ProjectList),
		func(ref *expression.Reference, _ int) *expression.NamedExpression {
			return expression.NamedRef(ref)
		})
	toIndexScan(child)
	return node, nil
}
