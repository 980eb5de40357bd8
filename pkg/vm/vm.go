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

package vm

import (
	"bytes"
	"time"

	"go.uber.org/multierr"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

func combine(errs []error) error {
	return multierr.Combine(errs...)
}

// String walks the tree from the root and calls each operator's string
// function to show a query plan.
func String(op Operator, buf *bytes.Buffer) {
	op.String(buf)
	for _, child := range op.GetOperatorBase().Children {
		buf.WriteString(" <- ")
		String(child, buf)
	}
}

func CancelCheck(proc *process.Process) (error, bool) {
	select {
	case <-proc.Ctx.Done():
		return proc.Ctx.Err(), true
	default:
		return nil, false
	}
}

// Run drives a plan to completion and returns all rows. The plan is
// closed on every path, and a panic inside an operator is returned as an
// internal error.
func Run(op Operator, proc *process.Process) (rows []*types.Tuple, err error) {
	t := time.Now()
	defer func() {
		v2.ExecQueryDurationHistogram.Observe(time.Since(t).Seconds())
	}()
	defer func() {
		if e := recover(); e != nil {
			rows, err = nil, moerr.ConvertPanicError(proc.Ctx, e)
		}
	}()

	if err = op.Open(proc); err != nil {
		return nil, multierr.Append(err, op.Close())
	}
	defer func() {
		err = multierr.Append(err, op.Close())
		if err != nil {
			rows = nil
		}
	}()

	for {
		ok, err := op.HasNext()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		row, err := op.Next()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// Children returns the children of op.
func Children(op Operator) []Operator {
	return op.GetOperatorBase().Children
}
