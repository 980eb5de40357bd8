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

package compile

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/config"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/logutil"
	"github.com/matrixorigin/mosearch/pkg/sql/plan"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
	"github.com/matrixorigin/mosearch/pkg/sql/protector"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

func New(proc *process.Process, storage Storage, opts ...Option) *Compile {
	c := &Compile{
		proc:      proc,
		storage:   storage,
		optimizer: plan.NewOptimizer(),
		protector: protector.Noop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromParameters protects plans with the configured memory monitor.
func NewFromParameters(proc *process.Process, storage Storage, params *config.Parameters, opts ...Option) *Compile {
	p := protector.New(params.NewResourceMonitor(), params.Monitor.CheckInterval)
	return New(proc, storage, append([]Option{WithProtector(p)}, opts...)...)
}

// Compile optimizes node, builds the physical plan and protects it.
func (c *Compile) Compile(node *logical.Node) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = moerr.ConvertPanicError(c.proc.Ctx, e)
		}
	}()

	if c.optimizer != nil {
		if node, err = c.optimizer.Optimize(c.proc.Ctx, node); err != nil {
			return err
		}
	}
	op, err := c.compilePlan(node)
	if err != nil {
		return err
	}
	if c.op, err = c.protector.Protect(op); err != nil {
		return err
	}
	logutil.DebugCtx(c.proc.Ctx, "compiled plan", zap.String("plan", c.Explain()))
	return nil
}

// Run executes the compiled plan and returns every row.
func (c *Compile) Run() ([]*types.Tuple, error) {
	if c.op == nil {
		return nil, moerr.NewInvalidState(c.proc.Ctx, "run before compile")
	}
	rows, err := vm.Run(c.op, c.proc)
	if err != nil {
		logutil.ErrorCtx(c.proc.Ctx, "query failed", zap.Error(err))
		return nil, err
	}
	return rows, nil
}

// Schema is the schema of the rows returned by Run.
func (c *Compile) Schema() *types.Schema {
	if c.op == nil {
		return nil
	}
	return c.op.Schema()
}

// Explain renders the physical plan from the root down to the leaf.
func (c *Compile) Explain() string {
	if c.op == nil {
		return ""
	}
	buf := new(bytes.Buffer)
	vm.String(c.op, buf)
	return buf.String()
}

func (c *Compile) compilePlan(n *logical.Node) (vm.Operator, error) {
	if n == nil {
		return nil, moerr.NewInvalidInput(c.proc.Ctx, "empty plan")
	}
	if n.IsIndex() {
		return c.compileTableScan(n)
	}
	if n.NodeType == logical.Values {
		return constructValueScan(n), nil
	}

	input, err := c.compilePlan(n.Input())
	if err != nil {
		return nil, err
	}
	switch n.NodeType {
	case logical.Filter:
		return constructRestrict(n, input), nil
	case logical.Project:
		return constructProjection(n, input), nil
	case logical.Aggregation:
		return constructGroup(n, input), nil
	case logical.Sort:
		return constructOrder(n, input), nil
	case logical.Limit:
		return constructLimit(n, input), nil
	case logical.Dedupe:
		return constructDedup(n, input), nil
	case logical.Rename:
		return constructRename(n, input), nil
	case logical.Remove:
		return constructRemove(n, input), nil
	case logical.Eval:
		return constructEval(n, input), nil
	case logical.RareTopN:
		return constructRareTopN(n, input), nil
	case logical.Window:
		return constructWindow(n, input), nil
	}
	return nil, moerr.NewNotSupported(c.proc.Ctx, "compile %s", n.NodeType)
}

func (c *Compile) compileTableScan(n *logical.Node) (vm.Operator, error) {
	if c.storage == nil {
		return nil, moerr.NewInvalidState(c.proc.Ctx, "no storage to read %s", n.TableName)
	}
	reader, err := c.storage.NewReader(c.proc.Ctx, n)
	if err != nil {
		return nil, err
	}
	return constructTableScan(reader), nil
}
