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

type AggFunc int32

const (
	AggAvg AggFunc = iota
	AggCount
	AggSum
	AggMin
	AggMax
)

var aggFuncNames = map[AggFunc]string{
	AggAvg:   "avg",
	AggCount: "count",
	AggSum:   "sum",
	AggMin:   "min",
	AggMax:   "max",
}

func (f AggFunc) String() string {
	return aggFuncNames[f]
}

// Aggregator is an aggregate function call. Condition, if set, restricts
// the rows that contribute to those where it evaluates to true.
type Aggregator struct {
	Func      AggFunc
	Args      []Expression
	Typ       types.T
	Condition Expression
	Distinct  bool
}

func NewAggregator(fn AggFunc, typ types.T, args ...Expression) (*Aggregator, error) {
	if _, ok := aggFuncNames[fn]; !ok {
		return nil, moerr.NewNotSupported(moerr.Context(), "aggregate function %d", fn)
	}
	if fn != AggCount && len(args) != 1 {
		return nil, moerr.NewInvalidArg(moerr.Context(), fn.String()+" arguments", len(args))
	}
	if (fn == AggAvg || fn == AggSum) && !args[0].Type().IsNumeric() {
		return nil, moerr.NewTypeMismatch(moerr.Context(), "%s expects a numeric argument, got %s", fn, args[0].Type())
	}
	return &Aggregator{Func: fn, Args: args, Typ: typ}, nil
}

// WithCondition returns a copy of a filtered by cond.
func (a *Aggregator) WithCondition(cond Expression) *Aggregator {
	c := *a
	c.Condition = cond
	return &c
}

func (a *Aggregator) WithDistinct(distinct bool) *Aggregator {
	c := *a
	c.Distinct = distinct
	return &c
}

func (a *Aggregator) Type() types.T {
	return a.Typ
}

// Eval is not defined on a single row.
func (a *Aggregator) Eval(_ *types.Tuple) (types.Value, error) {
	return types.Value{}, moerr.NewNotSupported(moerr.Context(), "evaluate aggregation %s on a single row", a)
}

func (a *Aggregator) Children() []Expression {
	if a.Condition == nil {
		return a.Args
	}
	children := make([]Expression, 0, len(a.Args)+1)
	children = append(children, a.Args...)
	return append(children, a.Condition)
}

func (a *Aggregator) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitAggregator(a, ctx)
}

func (a *Aggregator) String() string {
	var sb strings.Builder
	sb.WriteString(a.Func.String())
	sb.WriteString("(")
	if a.Distinct {
		sb.WriteString("distinct ")
	}
	if len(a.Args) == 0 {
		sb.WriteString("*")
	}
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.String())
	}
	sb.WriteString(")")
	if a.Condition != nil {
		sb.WriteString(" filter(where ")
		sb.WriteString(a.Condition.String())
		sb.WriteString(")")
	}
	return sb.String()
}

// Create returns a fresh per group state.
func (a *Aggregator) Create() AggregationState {
	var st AggregationState
	switch a.Func {
	case AggAvg:
		st = &avgState{typ: a.Typ}
	case AggCount:
		st = &countState{typ: a.Typ}
	case AggSum:
		st = &sumState{typ: a.Typ}
	case AggMin:
		st = &extremeState{less: true}
	default:
		st = &extremeState{}
	}
	if a.Distinct {
		st = &distinctState{inner: st, seen: make(map[uint64][]types.Value)}
	}
	return st
}

// Iterate folds one row into st. Rows failing the condition and NULL or
// MISSING argument values do not contribute.
func (a *Aggregator) Iterate(row *types.Tuple, st AggregationState) error {
	if a.Condition != nil {
		s, err := EvalPredicate(a.Condition, row)
		if err != nil {
			return err
		}
		if s != types.True {
			return nil
		}
	}
	if len(a.Args) == 0 {
		return st.add(types.NewLong(1))
	}
	v, err := a.Args[0].Eval(row)
	if err != nil {
		return err
	}
	if v.IsNullOrMissing() {
		return nil
	}
	return st.add(v)
}

type AggregationState interface {
	add(v types.Value) error
	// Result is the aggregated value, NULL when nothing contributed to a
	// value based aggregation.
	Result() types.Value
}

type avgState struct {
	typ   types.T
	sum   float64
	count int64
}

func (s *avgState) add(v types.Value) error {
	f, err := v.Float64()
	if err != nil {
		return err
	}
	s.sum += f
	s.count++
	return nil
}

// Result is cast to the declared type, the same way a pushed down average
// is decoded.
func (s *avgState) Result() types.Value {
	if s.count == 0 {
		return types.Null()
	}
	avg := s.sum / float64(s.count)
	if s.typ.IsNumeric() {
		if v, err := types.Convert(s.typ, avg); err == nil {
			return v
		}
	}
	return types.NewDouble(avg)
}

type countState struct {
	typ   types.T
	count int64
}

func (s *countState) add(types.Value) error {
	s.count++
	return nil
}

func (s *countState) Result() types.Value {
	if s.typ == types.T_integer {
		return types.NewInt(int32(s.count))
	}
	return types.NewLong(s.count)
}

type sumState struct {
	typ   types.T
	sum   float64
	isum  int64
	count int64
}

func (s *sumState) add(v types.Value) error {
	if v.Type().IsIntegral() {
		i, _ := v.Int64()
		s.isum += i
		s.sum += float64(i)
	} else {
		f, err := v.Float64()
		if err != nil {
			return err
		}
		s.sum += f
	}
	s.count++
	return nil
}

func (s *sumState) Result() types.Value {
	if s.count == 0 {
		return types.Null()
	}
	if s.typ.IsIntegral() {
		if s.typ == types.T_long {
			return types.NewLong(s.isum)
		}
		return types.NewNumeric(s.typ, float64(s.isum))
	}
	return types.NewNumeric(s.typ, s.sum)
}

type extremeState struct {
	less bool
	cur  types.Value
	set  bool
}

func (s *extremeState) add(v types.Value) error {
	if !s.set {
		s.cur, s.set = v, true
		return nil
	}
	c, err := types.Compare(v, s.cur)
	if err != nil {
		return err
	}
	if (s.less && c < 0) || (!s.less && c > 0) {
		s.cur = v
	}
	return nil
}

func (s *extremeState) Result() types.Value {
	if !s.set {
		return types.Null()
	}
	return s.cur
}

type distinctState struct {
	inner AggregationState
	seen  map[uint64][]types.Value
}

func (s *distinctState) add(v types.Value) error {
	h := types.HashValues([]types.Value{v})
	for _, prev := range s.seen[h] {
		if types.Equal(prev, v) {
			return nil
		}
	}
	s.seen[h] = append(s.seen[h], v)
	return s.inner.add(v)
}

func (s *distinctState) Result() types.Value {
	return s.inner.Result()
}

// NamedAggregator is an aggregator with the output name used both as the
// result column and as the pushed down aggregation key.
type NamedAggregator struct {
	Name     string
	Delegate *Aggregator
}

func NewNamedAggregator(name string, delegate *Aggregator) *NamedAggregator {
	return &NamedAggregator{Name: name, Delegate: delegate}
}

func (n *NamedAggregator) Type() types.T {
	return n.Delegate.Type()
}

func (n *NamedAggregator) Eval(row *types.Tuple) (types.Value, error) {
	return n.Delegate.Eval(row)
}

func (n *NamedAggregator) Children() []Expression {
	return []Expression{n.Delegate}
}

func (n *NamedAggregator) Accept(v Visitor, ctx any) (any, error) {
	return v.VisitNamedAggregator(n, ctx)
}

func (n *NamedAggregator) Column() types.Column {
	return types.Column{Name: n.Name, Typ: n.Type()}
}

func (n *NamedAggregator) String() string {
	return n.Name
}
