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
	"bytes"
	"fmt"
	"strings"

	"github.com/matrixorigin/mosearch/pkg/common/hashmap"
	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "dedup"

func (dedup *Dedup) String(buf *bytes.Buffer) {
	keys := make([]string, len(dedup.DedupList))
	for i, e := range dedup.DedupList {
		keys[i] = e.String()
	}
	buf.WriteString(fmt.Sprintf("%s(%s, allowed %d, keepempty %v, consecutive %v)",
		opName, strings.Join(keys, ", "), dedup.AllowedDuplication, dedup.KeepEmpty, dedup.Consecutive))
}

func (dedup *Dedup) OpType() vm.OpType {
	return vm.Dedup
}

func (dedup *Dedup) Open(proc *process.Process) error {
	if dedup.AllowedDuplication < 0 {
		return moerr.NewInvalidArg(proc.Ctx, "allowed duplication", dedup.AllowedDuplication)
	}
	if len(dedup.DedupList) == 0 {
		return moerr.NewInvalidInput(proc.Ctx, "%s needs at least one key", opName)
	}
	dedup.ctr.reset()
	if !dedup.Consecutive {
		dedup.ctr.hashMap = hashmap.NewKeyMap(false)
	}
	dedup.ResetLookahead()
	return dedup.OpenChildren(proc)
}

func (dedup *Dedup) HasNext() (bool, error) {
	return dedup.Peek(dedup.fetch)
}

func (dedup *Dedup) Next() (*types.Tuple, error) {
	return dedup.Take()
}

func (dedup *Dedup) fetch() (*types.Tuple, error) {
	input := dedup.Input()
	for {
		ok, err := input.HasNext()
		if err != nil || !ok {
			return nil, err
		}
		row, err := input.Next()
		if err != nil {
			return nil, err
		}
		keep, err := dedup.keep(row)
		if err != nil {
			return nil, err
		}
		if keep {
			return row, nil
		}
	}
}

func (dedup *Dedup) keep(row *types.Tuple) (bool, error) {
	key := make([]types.Value, len(dedup.DedupList))
	for i, e := range dedup.DedupList {
		v, err := e.Eval(row)
		if err != nil {
			return false, err
		}
		if v.IsNullOrMissing() {
			return dedup.KeepEmpty, nil
		}
		key[i] = v
	}

	ctr := &dedup.ctr
	if dedup.Consecutive {
		if ctr.lastKey != nil && types.EqualValues(ctr.lastKey, key) {
			ctr.lastCount++
		} else {
			ctr.lastKey, ctr.lastCount = key, 1
		}
		return ctr.lastCount <= dedup.AllowedDuplication+1, nil
	}

	g, inserted := ctr.hashMap.Insert(key)
	if inserted {
		ctr.counts = append(ctr.counts, 0)
	}
	ctr.counts[g-1]++
	return ctr.counts[g-1] <= dedup.AllowedDuplication+1, nil
}

func (dedup *Dedup) Close() error {
	dedup.ctr.reset()
	return dedup.CloseChildren()
}

func (dedup *Dedup) Schema() *types.Schema {
	return dedup.ChildSchema()
}
