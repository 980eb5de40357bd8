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

package serialization

import (
	"encoding/base64"

	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/dsl"
)

// ScriptLang tags scripts holding a serialized expression, so the backend
// plugin evaluates them with the same expression dialect.
const ScriptLang = "opensearch_query_expression"

// ExpressionSerializer turns a computed expression into a backend script.
type ExpressionSerializer interface {
	Serialize(expr expression.Expression) (string, error)
}

// DefaultSerializer encodes the expression rendering in base64.
type DefaultSerializer struct{}

var _ ExpressionSerializer = DefaultSerializer{}

func (DefaultSerializer) Serialize(expr expression.Expression) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(expr.String())), nil
}

// Script builds the backend script object for expr.
func Script(s ExpressionSerializer, expr expression.Expression) (*dsl.Object, error) {
	source, err := s.Serialize(expr)
	if err != nil {
		return nil, err
	}
	return dsl.Obj("source", source, "lang", ScriptLang), nil
}
