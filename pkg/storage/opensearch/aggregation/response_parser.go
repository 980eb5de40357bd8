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
)

// ResponseParser decodes the aggregations section of a search response
// into rows. Group keys come first, in group by order, then the metrics in
// aggregator order.
type ResponseParser struct {
	groupBy     []string
	aggs        []string
	typeMapping map[string]types.T
}

func NewResponseParser(
	aggs []*expression.NamedAggregator,
	groupBy []*expression.NamedExpression,
	typeMapping map[string]types.T,
) *ResponseParser {
	p := &ResponseParser{typeMapping: typeMapping}
	for _, g := range groupBy {
		p.groupBy = append(p.groupBy, g.OutputName())
	}
	for _, agg := range aggs {
		p.aggs = append(p.aggs, agg.Name)
	}
	return p
}

// Parse returns the rows of one response page and, for composite
// aggregations, the key to resume after. A nil after key means there are
// no more pages.
func (p *ResponseParser) Parse(aggregations map[string]any) ([]*types.Tuple, map[string]any, error) {
	if len(p.groupBy) == 0 {
		row, err := p.metrics(aggregations)
		if err != nil {
			return nil, nil, err
		}
		return []*types.Tuple{row}, nil, nil
	}

	if composite, ok := aggregations[CompositeName].(map[string]any); ok {
		rows, err := p.buckets(composite, func(bucket map[string]any, row *types.Tuple) error {
			key, _ := bucket["key"].(map[string]any)
			for _, name := range p.groupBy {
				if err := p.set(row, name, key[name]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		// an empty page has no after key worth following
		afterKey, _ := composite["after_key"].(map[string]any)
		if len(rows) == 0 {
			afterKey = nil
		}
		return rows, afterKey, nil
	}

	name := p.groupBy[0]
	histogram, ok := aggregations[name].(map[string]any)
	if !ok {
		return nil, nil, moerr.NewInvalidInput(moerr.Context(), "aggregation %s is missing in the response", name)
	}
	rows, err := p.buckets(histogram, func(bucket map[string]any, row *types.Tuple) error {
		return p.set(row, name, bucket["key"])
	})
	return rows, nil, err
}

func (p *ResponseParser) buckets(agg map[string]any, keys func(map[string]any, *types.Tuple) error) ([]*types.Tuple, error) {
	list, _ := agg["buckets"].([]any)
	rows := make([]*types.Tuple, 0, len(list))
	for _, b := range list {
		bucket, ok := b.(map[string]any)
		if !ok {
			return nil, moerr.NewInvalidInput(moerr.Context(), "malformed bucket %v", b)
		}
		row := types.NewTuple()
		if err := keys(bucket, row); err != nil {
			return nil, err
		}
		if err := p.fill(row, bucket); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (p *ResponseParser) metrics(aggregations map[string]any) (*types.Tuple, error) {
	row := types.NewTuple()
	return row, p.fill(row, aggregations)
}

func (p *ResponseParser) fill(row *types.Tuple, aggregations map[string]any) error {
	for _, name := range p.aggs {
		if err := p.set(row, name, metricValue(aggregations, name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *ResponseParser) set(row *types.Tuple, name string, raw any) error {
	typ, ok := p.typeMapping[name]
	if !ok {
		return moerr.NewInternalError(moerr.Context(), "no type for column %s", name)
	}
	v, err := types.Convert(typ, raw)
	if err != nil {
		return err
	}
	row.Set(name, v)
	return nil
}

// metricValue digs the value of a metric out of its response object. A
// filter aggregation holds its metric one level deeper under the same
// name.
func metricValue(aggregations map[string]any, name string) any {
	agg, ok := aggregations[name].(map[string]any)
	if !ok {
		return nil
	}
	if inner, ok := agg[name].(map[string]any); ok {
		agg = inner
	}
	return agg["value"]
}

// Columns lists the output columns in row order.
func (p *ResponseParser) Columns() []string {
	cols := make([]string, 0, len(p.groupBy)+len(p.aggs))
	cols = append(cols, p.groupBy...)
	return append(cols, p.aggs...)
}
