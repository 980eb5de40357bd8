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

package dedup

import (
	"github.com/matrixorigin/mosearch/pkg/common/hashmap"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

var _ vm.Operator = new(Dedup)

type container struct {
	// full history mode
	hashMap *hashmap.KeyMap
	counts  []int

	// consecutive mode
	lastKey   []types.Value
	lastCount int
}

// Dedup keeps the first AllowedDuplication+1 rows of every key.
//
// With Consecutive set only runs of adjacent rows sharing a key are
// limited, and the count restarts whenever the key changes. Rows whose key
// holds NULL or MISSING are kept when KeepEmpty is set and dropped
// otherwise.
type Dedup struct {
	ctr                container
	DedupList          []expression.Expression
	AllowedDuplication int
	KeepEmpty          bool
	Consecutive        bool

	vm.OperatorBase
}

func (dedup *Dedup) GetOperatorBase() *vm.OperatorBase {
	return &dedup.OperatorBase
}

func (dedup Dedup) TypeName() string {
	return opName
}

func NewArgument(input vm.Operator, dedupList []expression.Expression, allowedDuplication int, keepEmpty, consecutive bool) *Dedup {
	dedup := &Dedup{
		DedupList:          dedupList,
		AllowedDuplication: allowedDuplication,
		KeepEmpty:          keepEmpty,
		Consecutive:        consecutive,
	}
	dedup.AppendChild(input)
	return dedup
}

func (ctr *container) reset() {
	if ctr.hashMap != nil {
		ctr.hashMap.Free()
	}
	*ctr = container{}
}
