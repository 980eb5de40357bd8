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
	"fmt"
	"math"
	"time"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

// Expression is a typed scalar expression tree node.
type Expression interface {
	// Type returns the declared result type.
	Type() types.T
	// Eval evaluates the expression against one row. A field absent from
	// the row evaluates to MISSING.
	Eval(row *types.Tuple) (types.Value, error)
	Children() []Expression
	Accept(v Visitor, ctx any) (any, error)
	String() string
}

type Literal struct {
	Value types.Value
}

func NewLiteral(v types.Value) *Literal {
	return &Literal{Value: v}
}

func (l *Literal) Type() types.T {
	return l.Value.Type()
}

func (l *Literal) Eval(_ *types.Tuple) (types.Value, error) {
	return l.Value, nil
}

func (l *Literal) Children() []Expression {
	return nil
}

func (l *Literal) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitLiteral(l, ctx)
}

func (l *Literal) String() string {
	if s, err := l.Value.Str(); err == nil {
		return "'" + s + "'"
	}
	return l.Value.String()
}

// Reference is a bare field reference. Attr may be a dotted path into a
// nested object.
type Reference struct {
	Attr string
	Typ  types.T
}

func NewReference(attr string, typ types.T) *Reference {
	return &Reference{Attr: attr, Typ: typ}
}

func (r *Reference) Type() types.T {
	return r.Typ
}

func (r *Reference) Eval(row *types.Tuple) (types.Value, error) {
	if row == nil {
		return types.Missing(), nil
	}
	return row.Value(r.Attr), nil
}

func (r *Reference) Children() []Expression {
	return nil
}

func (r *Reference) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitReference(r, ctx)
}

func (r *Reference) String() string {
	return r.Attr
}

// NamedExpression pairs an expression with its output name and optional
// alias.
type NamedExpression struct {
	Name     string
	Alias    string
	Delegate Expression
}

func NewNamed(name string, delegate Expression) *NamedExpression {
	return &NamedExpression{Name: name, Delegate: delegate}
}

func (n *NamedExpression) Type() types.T {
	return n.Delegate.Type()
}

func (n *NamedExpression) Eval(row *types.Tuple) (types.Value, error) {
	return n.Delegate.Eval(row)
}

func (n *NamedExpression) Children() []Expression {
	return []Expression{n.Delegate}
}

func (n *NamedExpression) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitNamed(n, ctx)
}

// OutputName is the alias if there is one, the name otherwise.
func (n *NamedExpression) OutputName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

func (n *NamedExpression) Column() types.Column {
	return types.Column{Name: n.Name, Alias: n.Alias, Typ: n.Type()}
}

func (n *NamedExpression) String() string {
	if n.Alias != "" {
		return n.Name + " AS " + n.Alias
	}
	return n.Name
}

var spanUnits = map[string]time.Duration{
	"":   0,
	"ms": time.Millisecond,
	"s":  time.Second,
	"m":  time.Minute,
	"h":  time.Hour,
	"d":  24 * time.Hour,
	"w":  7 * 24 * time.Hour,
	"M":  0,
	"q":  0,
	"y":  0,
}

// Span buckets a numeric or temporal field into fixed width intervals.
// An empty unit means a plain numeric interval.
type Span struct {
	Field *Reference
	Value *Literal
	Unit  string
}

func NewSpan(field *Reference, value *Literal, unit string) (*Span, error) {
	if _, ok := spanUnits[unit]; !ok {
		return nil, moerr.NewInvalidArg(moerr.Context(), "span unit", unit)
	}
	if !value.Type().IsNumeric() {
		return nil, moerr.NewInvalidArg(moerr.Context(), "span interval", value.String())
	}
	if unit == "" && !field.Type().IsNumeric() {
		return nil, moerr.NewTypeMismatch(moerr.Context(), "span without unit on %s field %s", field.Type(), field.Attr)
	}
	return &Span{Field: field, Value: value, Unit: unit}, nil
}

func (s *Span) Type() types.T {
	return s.Field.Type()
}

// Interval is the numeric width of a bucket, in the span unit.
func (s *Span) Interval() float64 {
	f, _ := s.Value.Value.Float64()
	return f
}

// IsTimeUnit reports whether the span buckets a temporal field.
func (s *Span) IsTimeUnit() bool {
	return s.Unit != ""
}

// IsCalendarUnit reports whether the unit has variable length.
func (s *Span) IsCalendarUnit() bool {
	return s.Unit == "M" || s.Unit == "q" || s.Unit == "y"
}

func (s *Span) Eval(row *types.Tuple) (types.Value, error) {
	v, err := s.Field.Eval(row)
	if err != nil || v.IsNullOrMissing() {
		return v, err
	}
	interval := s.Interval()
	if interval <= 0 {
		return types.Null(), nil
	}
	if !s.IsTimeUnit() {
		f, err := v.Float64()
		if err != nil {
			return types.Value{}, err
		}
		return types.NewNumeric(v.Type(), math.Floor(f/interval)*interval), nil
	}
	ts, err := v.Time()
	if err != nil {
		return types.Value{}, err
	}
	ts = ts.UTC()
	n := int(interval)
	switch s.Unit {
	case "M":
		m := (int(ts.Month()) - 1) / n * n
		ts = time.Date(ts.Year(), time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
	case "q":
		m := (int(ts.Month()) - 1) / (3 * n) * (3 * n)
		ts = time.Date(ts.Year(), time.Month(m+1), 1, 0, 0, 0, 0, time.UTC)
	case "y":
		ts = time.Date(ts.Year()/n*n, 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		ts = ts.Truncate(time.Duration(interval * float64(spanUnits[s.Unit])))
	}
	switch v.Type() {
	case types.T_date:
		return types.NewDate(ts), nil
	case types.T_time:
		return types.NewTime(ts), nil
	}
	return types.NewTimestamp(ts), nil
}

func (s *Span) Children() []Expression {
	return []Expression{s.Field, s.Value}
}

func (s *Span) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitSpan(s, ctx)
}

func (s *Span) String() string {
	if s.Unit == "" {
		return fmt.Sprintf("span(%s, %s)", s.Field, s.Value)
	}
	return fmt.Sprintf("span(%s, %s%s)", s.Field, s.Value, s.Unit)
}

// IsReference reports whether e is a bare field reference, looking through
// a named wrapper.
func IsReference(e Expression) bool {
	if n, ok := e.(*NamedExpression); ok {
		e = n.Delegate
	}
	_, ok := e.(*Reference)
	return ok
}
