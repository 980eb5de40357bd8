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
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/dsl"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/filter"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/serialization"
)

// countAllField is counted for count(*), every document has it.
const countAllField = "_index"

// MetricBuilder renders aggregators as metric aggregations keyed by their
// names.
type MetricBuilder struct {
	serializer serialization.ExpressionSerializer
	filter     *filter.QueryBuilder
}

func NewMetricBuilder(serializer serialization.ExpressionSerializer) *MetricBuilder {
	return &MetricBuilder{
		serializer: serializer,
		filter:     filter.NewQueryBuilder(serializer),
	}
}

// Build returns the aggregations object holding one metric per aggregator.
func (b *MetricBuilder) Build(aggs []*expression.NamedAggregator) (*dsl.Object, error) {
	out := dsl.Obj()
	for _, agg := range aggs {
		metric, err := b.build(agg)
		if err != nil {
			return nil, err
		}
		out.Set(agg.Name, metric)
	}
	return out, nil
}

func (b *MetricBuilder) build(agg *expression.NamedAggregator) (*dsl.Object, error) {
	a := agg.Delegate
	kind, err := metricKind(a)
	if err != nil {
		return nil, err
	}
	var source *dsl.Object
	if len(a.Args) == 0 {
		source = dsl.Obj("field", countAllField)
	} else if source, err = b.source(a.Args[0]); err != nil {
		return nil, err
	}
	metric := dsl.Obj(kind, source)
	if a.Condition == nil {
		return metric, nil
	}

	// a filter aggregation needs its own nested metric of the same name
	cond, err := b.filter.Build(a.Condition)
	if err != nil {
		return nil, err
	}
	return dsl.Obj(
		"filter", cond,
		"aggregations", dsl.Obj(agg.Name, metric),
	), nil
}

func (b *MetricBuilder) source(e expression.Expression) (*dsl.Object, error) {
	if ref, ok := e.(*expression.Reference); ok {
		return dsl.Obj("field", filter.FieldName(ref)), nil
	}
	script, err := serialization.Script(b.serializer, e)
	if err != nil {
		return nil, err
	}
	return dsl.Obj("script", script), nil
}

func metricKind(a *expression.Aggregator) (string, error) {
	if a.Distinct {
		if a.Func == expression.AggCount {
			return "cardinality", nil
		}
		return "", moerr.NewNotSupported(moerr.Context(), "push down of %s", a)
	}
	switch a.Func {
	case expression.AggAvg:
		return "avg", nil
	case expression.AggSum:
		return "sum", nil
	case expression.AggMin:
		return "min", nil
	case expression.AggMax:
		return "max", nil
	case expression.AggCount:
		return "value_count", nil
	}
	return "", moerr.NewNotSupported(moerr.Context(), "push down of %s", a)
}
