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
	"bytes"

	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/logutil"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "table_scan"

func (tableScan *TableScan) String(buf *bytes.Buffer) {
	buf.WriteString(opName)
	buf.WriteString("(")
	buf.WriteString(tableScan.Reader.Name())
	buf.WriteString(")")
}

func (tableScan *TableScan) OpType() vm.OpType {
	return vm.TableScan
}

func (tableScan *TableScan) Open(proc *process.Process) error {
	tableScan.ctr.reset()
	tableScan.ResetLookahead()
	tableScan.ctr.proc = proc
	if err := tableScan.Reader.Open(proc.Ctx); err != nil {
		return tableScan.storageError(err)
	}
	tableScan.ctr.opened = true
	return nil
}

func (tableScan *TableScan) HasNext() (bool, error) {
	return tableScan.Peek(tableScan.fetch)
}

func (tableScan *TableScan) Next() (*types.Tuple, error) {
	return tableScan.Take()
}

func (tableScan *TableScan) fetch() (*types.Tuple, error) {
	ctr := &tableScan.ctr
	if ctr.proc == nil {
		return nil, moerr.NewInvalidState(moerr.Context(), "%s is not opened", opName)
	}
	for ctr.idx >= len(ctr.page) {
		if err, cancel := vm.CancelCheck(ctr.proc); cancel {
			return nil, err
		}
		page, err := tableScan.Reader.Read(ctr.proc.Ctx)
		if err != nil {
			return nil, tableScan.storageError(err)
		}
		if len(page) == 0 {
			return nil, nil
		}
		v2.ScanRowsCounter.Add(float64(len(page)))
		ctr.rows += int64(len(page))
		ctr.page, ctr.idx = page, 0
	}
	row := ctr.page[ctr.idx]
	ctr.page[ctr.idx] = nil
	ctr.idx++
	return row, nil
}

func (tableScan *TableScan) storageError(err error) error {
	ctx := moerr.Context()
	if tableScan.ctr.proc != nil {
		ctx = tableScan.ctr.proc.Ctx
	}
	v2.ScanErrorCounter.Inc()
	logutil.ErrorCtx(ctx, "table scan failed",
		zap.String("source", tableScan.Reader.Name()),
		zap.Error(err))
	if moerr.IsMoErrCode(err, moerr.ErrStorage) {
		return err
	}
	return moerr.NewStorageError(ctx, err)
}

// Close closes the reader once, even when the scan is closed twice.
func (tableScan *TableScan) Close() error {
	var err error
	if tableScan.ctr.opened {
		logutil.DebugCtx(tableScan.ctr.proc.Ctx, "table scan finished",
			zap.String("source", tableScan.Reader.Name()),
			zap.Int64("rows", tableScan.ctr.rows))
		err = tableScan.Reader.Close()
	}
	tableScan.ctr.reset()
	return err
}

func (tableScan *TableScan) Schema() *types.Schema {
	return tableScan.Reader.Schema()
}
