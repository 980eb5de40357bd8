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

package aggregation

import (
	"strconv"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/dsl"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/filter"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/serialization"
)

// CompositePageSize is the number of buckets per composite page. Callers
// page through the remaining buckets with the after key.
const CompositePageSize = 1000

// BucketBuilder renders group by expressions as bucket aggregations.
type BucketBuilder struct {
	serializer serialization.ExpressionSerializer
}

func NewBucketBuilder(serializer serialization.ExpressionSerializer) *BucketBuilder {
	return &BucketBuilder{serializer: serializer}
}

// Composite renders one terms source per group by expression, in group by
// order. The direction of a source comes from the sort list and is
// ascending when the sort list does not mention the expression.
func (b *BucketBuilder) Composite(groupBy []*expression.NamedExpression, sortList []expression.SortItem) (*dsl.Object, error) {
	sources := make([]any, len(groupBy))
	for i, expr := range groupBy {
		terms := dsl.Obj()
		if ref, ok := expr.Delegate.(*expression.Reference); ok {
			terms.Set("field", filter.FieldName(ref))
		} else {
			script, err := serialization.Script(b.serializer, expr.Delegate)
			if err != nil {
				return nil, err
			}
			terms.Set("script", script)
		}
		terms.Set("missing_bucket", true)
		terms.Set("order", sourceOrder(expr, sortList))
		sources[i] = dsl.Obj(expr.OutputName(), dsl.Obj("terms", terms))
	}
	return dsl.Obj("composite", dsl.Obj(
		"size", CompositePageSize,
		"sources", sources,
	)), nil
}

func sourceOrder(expr *expression.NamedExpression, sortList []expression.SortItem) string {
	for _, item := range sortList {
		if sameExpression(item.Expr, expr) {
			return item.Option.Order.String()
		}
	}
	return expression.Ascending.String()
}

// sameExpression matches a sort key against a group by expression, either
// by its output name or by the grouped expression itself.
func sameExpression(e expression.Expression, group *expression.NamedExpression) bool {
	if ref, ok := e.(*expression.Reference); ok && ref.Attr == group.OutputName() {
		return true
	}
	return e.String() == group.Delegate.String()
}

// Histogram renders a span group by. Numeric spans become a histogram,
// temporal spans a date histogram. The key order follows the sort list the
// same way composite sources do.
func (b *BucketBuilder) Histogram(group *expression.NamedExpression, sortList []expression.SortItem) (*dsl.Object, error) {
	span, ok := group.Delegate.(*expression.Span)
	if !ok {
		return nil, moerr.NewInternalError(moerr.Context(), "histogram over non span expression %s", group.OutputName())
	}
	order := dsl.Obj("_key", sourceOrder(group, sortList))
	if !span.IsTimeUnit() {
		return dsl.Obj("histogram", dsl.Obj(
			"field", span.Field.Attr,
			"interval", span.Interval(),
			"offset", 0.0,
			"order", order,
			"keyed", false,
			"min_doc_count", 0,
		)), nil
	}

	h := dsl.Obj("field", span.Field.Attr)
	n := int64(span.Interval())
	switch {
	case n <= 0:
		return nil, moerr.NewInvalidArg(moerr.Context(), "span interval", span.Value.String())
	case span.IsCalendarUnit():
		if n != 1 {
			return nil, moerr.NewNotSupported(moerr.Context(), "calendar span %s", span)
		}
		h.Set("calendar_interval", "1"+span.Unit)
	case span.Unit == "w":
		h.Set("fixed_interval", strconv.FormatInt(7*n, 10)+"d")
	default:
		h.Set("fixed_interval", strconv.FormatInt(n, 10)+span.Unit)
	}
	h.Set("offset", 0)
	h.Set("order", order)
	h.Set("keyed", false)
	h.Set("min_doc_count", 0)
	return dsl.Obj("date_histogram", h), nil
}
