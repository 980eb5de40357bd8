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

package table_scan

import (
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

var _ vm.Operator = new(TableScan)

type container struct {
	proc   *process.Process
	page   []*types.Tuple
	idx    int
	opened bool
	rows   int64
}

// TableScan streams the rows of a storage reader page by page.
type TableScan struct {
	ctr    container
	Reader engine.Reader

	vm.OperatorBase
}

func (tableScan *TableScan) GetOperatorBase() *vm.OperatorBase {
	return &tableScan.OperatorBase
}

func (tableScan TableScan) TypeName() string {
	return opName
}

func NewArgument(reader engine.Reader) *TableScan {
	return &TableScan{Reader: reader}
}

func (ctr *container) reset() {
	*ctr = container{}
}
