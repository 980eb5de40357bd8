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
	"github.com/matrixorigin/mosearch/pkg/container/types"
)

// EvalPredicate evaluates a boolean expression. NULL and MISSING results
// are Unknown.
func EvalPredicate(expr Expression, row *types.Tuple) (types.TriState, error) {
	v, err := expr.Eval(row)
	if err != nil {
		return types.Unknown, err
	}
	return types.ToTriState(v)
}

// EvalNamed evaluates a list of named expressions into a new row, in list
// order, keyed by output name.
func EvalNamed(exprs []*NamedExpression, row *types.Tuple) (*types.Tuple, error) {
	out := types.NewTuple()
	for _, e := range exprs {
		v, err := e.Eval(row)
		if err != nil {
			return nil, err
		}
		out.Set(e.OutputName(), v)
	}
	return out, nil
}

// Columns derives the schema of a named expression list.
func Columns(exprs []*NamedExpression) *types.Schema {
	cols := make([]types.Column, len(exprs))
	for i, e := range exprs {
		cols[i] = e.Column()
	}
	return types.NewSchema(cols...)
}
