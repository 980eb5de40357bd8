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
	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/dsl"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/serialization"
)

// CompositeName is the key of the composite aggregation in requests and
// responses.
const CompositeName = "composite_buckets"

// QueryBuilder compiles aggregators and group by expressions into the
// aggregations section of a search request.
type QueryBuilder struct {
	metrics *MetricBuilder
	buckets *BucketBuilder
}

func NewQueryBuilder(serializer serialization.ExpressionSerializer) *QueryBuilder {
	return &QueryBuilder{
		metrics: NewMetricBuilder(serializer),
		buckets: NewBucketBuilder(serializer),
	}
}

// BuildAggregationBuilder returns the top level aggregations. Each returned
// object holds exactly one named aggregation.
func (b *QueryBuilder) BuildAggregationBuilder(
	aggs []*expression.NamedAggregator,
	groupBy []*expression.NamedExpression,
	sortList []expression.SortItem,
) ([]*dsl.Object, error) {
	metrics, err := b.metrics.Build(aggs)
	if err != nil {
		return nil, err
	}

	if len(groupBy) == 0 {
		out := make([]*dsl.Object, 0, metrics.Len())
		for _, key := range metrics.Keys() {
			v, _ := metrics.Get(key)
			out = append(out, dsl.Obj(key, v))
		}
		return out, nil
	}

	if hasSpan(groupBy) {
		if len(groupBy) > 1 {
			return nil, moerr.NewNotSupported(moerr.Context(), "span mixed with other group by expressions")
		}
		histogram, err := b.buckets.Histogram(groupBy[0], sortList)
		if err != nil {
			return nil, err
		}
		return []*dsl.Object{dsl.Obj(groupBy[0].OutputName(), nest(histogram, metrics))}, nil
	}

	composite, err := b.buckets.Composite(groupBy, sortList)
	if err != nil {
		return nil, err
	}
	return []*dsl.Object{dsl.Obj(CompositeName, nest(composite, metrics))}, nil
}

// BuildTypeMapping returns the type of every output column, keyed with the
// same names used in the aggregation request.
func (b *QueryBuilder) BuildTypeMapping(
	aggs []*expression.NamedAggregator,
	groupBy []*expression.NamedExpression,
) map[string]types.T {
	m := make(map[string]types.T, len(aggs)+len(groupBy))
	for _, agg := range aggs {
		m[agg.Name] = agg.Type()
	}
	for _, g := range groupBy {
		m[g.OutputName()] = g.Type()
	}
	return m
}

func nest(bucket, metrics *dsl.Object) *dsl.Object {
	if metrics.Len() > 0 {
		bucket.Set("aggregations", metrics)
	}
	return bucket
}

func hasSpan(groupBy []*expression.NamedExpression) bool {
	for _, g := range groupBy {
		if _, ok := g.Delegate.(*expression.Span); ok {
			return true
		}
	}
	return false
}
