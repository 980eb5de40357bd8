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
)

// SortByFieldsOnly reports whether every sort key is a bare field
// reference. An empty sort list qualifies.
func SortByFieldsOnly(sortList []expression.SortItem) bool {
	return lo.EveryBy(sortList, func(item expression.SortItem) bool {
		_, ok := item.Expr.(*expression.Reference)
		return ok
	})
}

// SortByDefaultOptionOnly reports whether every sort key uses ASC NULLS
// FIRST or DESC NULLS LAST, the only orders the backend sort can express.
func SortByDefaultOptionOnly(sortList []expression.SortItem) bool {
	return lo.EveryBy(sortList, func(item expression.SortItem) bool {
		return item.Option == expression.DefaultAsc || item.Option == expression.DefaultDesc
	})
}

// FindReferenceExpressions collects the references of all expressions,
// each field once, in order of first appearance.
func FindReferenceExpressions(exprs []*expression.NamedExpression) []*expression.Reference {
	var refs []*expression.Reference
	seen := make(map[expression.Reference]bool)
	for _, e := range exprs {
		for _, ref := range FindReferenceExpression(e) {
			if !seen[*ref] {
				seen[*ref] = true
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// FindReferenceExpression collects every reference leaf of expr in
// depth first order.
func FindReferenceExpression(expr *expression.NamedExpression) []*expression.Reference {
	finder := &referenceFinder{}
	// the finder never fails
	_, _ = expr.Accept(expression.DepthFirst(finder), nil)
	return finder.refs
}

type referenceFinder struct {
	expression.BaseVisitor
	refs []*expression.Reference
}

func (f *referenceFinder) VisitReference(node *expression.Reference, _ any) (any, error) {
	f.refs = append(f.refs, node)
	return nil, nil
}
