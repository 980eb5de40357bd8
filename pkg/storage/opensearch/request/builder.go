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

package request

import (
	"strconv"
	"time"

	"github.com/samber/lo"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/aggregation"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/dsl"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/filter"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/serialization"
)

const (
	DefaultQuerySizeLimit = 200
	DefaultScrollTimeout  = time.Minute
)

// Builder accumulates everything pushed down into one index scan.
type Builder struct {
	index          string
	schema         *types.Schema
	querySizeLimit int
	scrollTimeout  time.Duration

	filters *filter.QueryBuilder
	aggs    *aggregation.QueryBuilder

	query    *dsl.Object
	sort     []any
	limit    int
	offset   int
	limited  bool
	includes []string

	aggregations []*dsl.Object
	typeMapping  map[string]types.T
	parser       *aggregation.ResponseParser
}

func NewBuilder(index string, schema *types.Schema, querySizeLimit int, scrollTimeout time.Duration,
	serializer serialization.ExpressionSerializer) *Builder {
	if querySizeLimit <= 0 {
		querySizeLimit = DefaultQuerySizeLimit
	}
	if scrollTimeout <= 0 {
		scrollTimeout = DefaultScrollTimeout
	}
	return &Builder{
		index:          index,
		schema:         schema,
		querySizeLimit: querySizeLimit,
		scrollTimeout:  scrollTimeout,
		filters:        filter.NewQueryBuilder(serializer),
		aggs:           aggregation.NewQueryBuilder(serializer),
	}
}

// PushDownFilter adds cond to the query, in conjunction with any filter
// pushed before.
func (b *Builder) PushDownFilter(cond expression.Expression) error {
	q, err := b.filters.Build(cond)
	if err != nil {
		return err
	}
	b.query = filter.Conjunction(b.query, q)
	return nil
}

// PushDownSort appends sort keys. Only field references can be sorted by
// the backend.
func (b *Builder) PushDownSort(items []expression.SortItem) error {
	for _, item := range items {
		e := item.Expr
		if n, ok := e.(*expression.NamedExpression); ok {
			e = n.Delegate
		}
		ref, ok := e.(*expression.Reference)
		if !ok {
			return moerr.NewNotSupported(moerr.Context(), "push down sort by %s", item.Expr)
		}
		missing := "_last"
		if item.Option.NullOrder == expression.NullsFirst {
			missing = "_first"
		}
		b.sort = append(b.sort, dsl.Obj(filter.FieldName(ref), dsl.Obj(
			"order", item.Option.Order.String(),
			"missing", missing,
		)))
	}
	return nil
}

func (b *Builder) PushDownLimit(count, offset int) {
	b.limit, b.offset, b.limited = count, offset, true
}

// PushDownProjects restricts the fetched source fields.
func (b *Builder) PushDownProjects(refs []*expression.Reference) {
	for _, ref := range refs {
		b.includes = append(b.includes, ref.Attr)
	}
}

// PushDownAggregation turns the scan into an aggregation request. The
// result rows are described by the returned type mapping.
func (b *Builder) PushDownAggregation(
	aggs []*expression.NamedAggregator,
	groupBy []*expression.NamedExpression,
	sortList []expression.SortItem,
) error {
	objs, err := b.aggs.BuildAggregationBuilder(aggs, groupBy, sortList)
	if err != nil {
		return err
	}
	b.aggregations = objs
	b.typeMapping = b.aggs.BuildTypeMapping(aggs, groupBy)
	b.parser = aggregation.NewResponseParser(aggs, groupBy, b.typeMapping)
	return nil
}

func (b *Builder) Build() *Request {
	r := &Request{
		Index:          b.index,
		Query:          b.query,
		Sort:           b.sort,
		Includes:       b.includes,
		QuerySizeLimit: b.querySizeLimit,
		Timeout:        b.scrollTimeout,
		Limit:          -1,
		Offset:         b.offset,
		TypeMapping:    b.typeMapping,
		Parser:         b.parser,
		Schema:         b.schema,
	}
	if b.limited {
		r.Limit = b.limit
	}
	if b.includes != nil && b.schema != nil {
		r.Schema = types.NewSchema(lo.Filter(b.schema.Columns, func(c types.Column, _ int) bool {
			return lo.Contains(b.includes, c.Name)
		})...)
	}
	if len(b.aggregations) > 0 {
		r.Aggregations = dsl.Merge(b.aggregations...)
		r.Schema = aggregationSchema(b.parser, b.typeMapping)
	}
	return r
}

// Request is a built search request. Pages are rendered with Body.
type Request struct {
	Index    string
	Query    *dsl.Object
	Sort     []any
	Includes []string

	QuerySizeLimit int
	Timeout        time.Duration
	// Limit is negative when nothing limits the scan.
	Limit  int
	Offset int

	Aggregations *dsl.Object
	TypeMapping  map[string]types.T
	Parser       *aggregation.ResponseParser
	Schema       *types.Schema
}

func (r *Request) IsAggregation() bool {
	return r.Aggregations != nil
}

// Body renders a plain search page starting at from.
func (r *Request) Body(from, size int) ([]byte, error) {
	body := dsl.Obj("from", from, "size", size, "timeout", strconv.FormatInt(r.Timeout.Milliseconds(), 10)+"ms")
	if r.Query != nil {
		body.Set("query", r.Query)
	}
	if len(r.Sort) > 0 {
		body.Set("sort", r.Sort)
	}
	if r.Includes != nil {
		body.Set("_source", dsl.Obj("includes", r.Includes, "excludes", []string{}))
	}
	return body.MarshalJSON()
}

// AggregationBody renders an aggregation page. after resumes a composite
// aggregation and is nil on the first page.
func (r *Request) AggregationBody(after map[string]any) ([]byte, error) {
	if composite := r.Aggregations.Object(aggregation.CompositeName).Object("composite"); composite != nil && after != nil {
		composite.Set("after", after)
	}
	body := dsl.Obj("size", 0, "timeout", strconv.FormatInt(r.Timeout.Milliseconds(), 10)+"ms")
	if r.Query != nil {
		body.Set("query", r.Query)
	}
	body.Set("aggregations", r.Aggregations)
	return body.MarshalJSON()
}

func aggregationSchema(parser *aggregation.ResponseParser, typeMapping map[string]types.T) *types.Schema {
	names := parser.Columns()
	cols := make([]types.Column, len(names))
	for i, name := range names {
		cols[i] = types.Column{Name: name, Typ: typeMapping[name]}
	}
	return types.NewSchema(cols...)
}
