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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/container/types"
	. "github.com/matrixorigin/mosearch/pkg/sql/expression"
)

func TestDefaultSerializer(t *testing.T) {
	expr := Abs(Ref("balance", types.T_integer))
	s, err := DefaultSerializer{}.Serialize(expr)
	require.NoError(t, err)
	decoded, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	require.Equal(t, "abs(balance)", string(decoded))

	script, err := Script(DefaultSerializer{}, expr)
	require.NoError(t, err)
	require.Equal(t, `{"source":"`+s+`","lang":"opensearch_query_expression"}`, script.String())
}
