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

package filter

import (
	"time"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/dsl"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/serialization"
)

const defaultBoost = 1.0

// flipped maps a comparison to the one with swapped operands.
var flipped = map[string]string{
	"=":  "=",
	"!=": "!=",
	"<":  ">",
	"<=": ">=",
	">":  "<",
	">=": "<=",
}

// QueryBuilder translates a condition into a native backend query. Parts
// without a native counterpart become script queries over the serialized
// expression.
type QueryBuilder struct {
	serializer serialization.ExpressionSerializer
}

func NewQueryBuilder(serializer serialization.ExpressionSerializer) *QueryBuilder {
	return &QueryBuilder{serializer: serializer}
}

func (b *QueryBuilder) Build(cond expression.Expression) (*dsl.Object, error) {
	if named, ok := cond.(*expression.NamedExpression); ok {
		cond = named.Delegate
	}
	fn, ok := cond.(*expression.FunctionCall)
	if !ok {
		return b.script(cond)
	}
	switch name := fn.Name(); name {
	case "and":
		return b.boolQuery("filter", fn.Args)
	case "or":
		return b.boolQuery("should", fn.Args)
	case "not":
		return b.boolQuery("must_not", fn.Args)
	case "is null", "is not null":
		ref, ok := fn.Args[0].(*expression.Reference)
		if !ok {
			return b.script(cond)
		}
		if name == "is not null" {
			return exists(ref), nil
		}
		return mustNot(exists(ref)), nil
	case "=", "!=", "<", "<=", ">", ">=":
		ref, lit, op := operands(name, fn.Args)
		if ref == nil {
			return b.script(cond)
		}
		return comparison(op, ref, literalValue(lit)), nil
	default:
		return b.script(cond)
	}
}

func (b *QueryBuilder) boolQuery(occur string, args []expression.Expression) (*dsl.Object, error) {
	clauses := make([]any, len(args))
	for i, arg := range args {
		q, err := b.Build(arg)
		if err != nil {
			return nil, err
		}
		clauses[i] = q
	}
	return boolQuery(occur, clauses), nil
}

func (b *QueryBuilder) script(cond expression.Expression) (*dsl.Object, error) {
	script, err := serialization.Script(b.serializer, cond)
	if err != nil {
		return nil, err
	}
	return dsl.Obj("script", dsl.Obj("script", script, "boost", defaultBoost)), nil
}

// Conjunction combines two native queries into one filter context bool query.
func Conjunction(a, b *dsl.Object) *dsl.Object {
	if a == nil {
		return b
	}
	return boolQuery("filter", []any{a, b})
}

func boolQuery(occur string, clauses []any) *dsl.Object {
	return dsl.Obj("bool", dsl.Obj(
		occur, clauses,
		"adjust_pure_negative", true,
		"boost", defaultBoost,
	))
}

func mustNot(q *dsl.Object) *dsl.Object {
	return boolQuery("must_not", []any{q})
}

// operands returns the field and literal of a comparison and the operator
// as seen from the field side. ref is nil when the comparison is not
// between a field and a non null literal.
func operands(op string, args []expression.Expression) (*expression.Reference, *expression.Literal, string) {
	if ref, ok := args[0].(*expression.Reference); ok {
		if lit, ok := args[1].(*expression.Literal); ok && !lit.Value.IsNullOrMissing() {
			return ref, lit, op
		}
	}
	if ref, ok := args[1].(*expression.Reference); ok {
		if lit, ok := args[0].(*expression.Literal); ok && !lit.Value.IsNullOrMissing() {
			return ref, lit, flipped[op]
		}
	}
	return nil, nil, ""
}

func comparison(op string, ref *expression.Reference, value any) *dsl.Object {
	switch op {
	case "=":
		return term(ref, value)
	case "!=":
		// NULL and MISSING fields never satisfy a comparison
		return dsl.Obj("bool", dsl.Obj(
			"filter", []any{exists(ref)},
			"must_not", []any{term(ref, value)},
			"adjust_pure_negative", true,
			"boost", defaultBoost,
		))
	case ">":
		return rangeQuery(ref.Attr, value, nil, false, true)
	case ">=":
		return rangeQuery(ref.Attr, value, nil, true, true)
	case "<":
		return rangeQuery(ref.Attr, nil, value, true, false)
	default:
		return rangeQuery(ref.Attr, nil, value, true, true)
	}
}

func exists(ref *expression.Reference) *dsl.Object {
	return dsl.Obj("exists", dsl.Obj("field", ref.Attr, "boost", defaultBoost))
}

func term(ref *expression.Reference, value any) *dsl.Object {
	return dsl.Obj("term", dsl.Obj(FieldName(ref), dsl.Obj("value", value, "boost", defaultBoost)))
}

func rangeQuery(field string, from, to any, includeLower, includeUpper bool) *dsl.Object {
	return dsl.Obj("range", dsl.Obj(field, dsl.Obj(
		"from", from,
		"to", to,
		"include_lower", includeLower,
		"include_upper", includeUpper,
		"boost", defaultBoost,
	)))
}

// FieldName is the field to match exact values on. Text fields with a
// keyword sub-field are matched on the non analyzed keyword.
func FieldName(ref *expression.Reference) string {
	if ref.Typ == types.T_text_keyword {
		return ref.Attr + ".keyword"
	}
	return ref.Attr
}

func literalValue(lit *expression.Literal) any {
	v := lit.Value.Interface()
	if ts, ok := v.(time.Time); ok {
		return ts.Format("2006-01-02 15:04:05")
	}
	return v
}
