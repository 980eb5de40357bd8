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

package protector

import (
	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/common/rscthrottler"
	"github.com/matrixorigin/mosearch/pkg/logutil"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/resource_monitor"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
	"github.com/matrixorigin/mosearch/pkg/vm"
)

// Protector rewrites a physical plan before it is executed.
type Protector interface {
	Protect(op vm.Operator) (vm.Operator, error)
}

// Noop returns every plan unchanged.
type Noop struct{}

func (Noop) Protect(op vm.Operator) (vm.Operator, error) {
	return op, nil
}

// ExecutionProtector decorates the operators that pull from storage or
// buffer their input with a resource monitor. Every other node keeps its
// fields and only gets its input replaced by the protected input.
type ExecutionProtector struct {
	monitor       rscthrottler.ResourceMonitor
	checkInterval int
}

var _ Protector = new(ExecutionProtector)

func New(monitor rscthrottler.ResourceMonitor, checkInterval int) *ExecutionProtector {
	return &ExecutionProtector{
		monitor:       monitor,
		checkInterval: checkInterval,
	}
}

func (p *ExecutionProtector) Protect(op vm.Operator) (vm.Operator, error) {
	if op == nil {
		return nil, nil
	}
	switch op.OpType() {
	case vm.ResourceMonitor:
		// protect the delegate again, the result carries exactly one layer
		return p.Protect(op.(*resource_monitor.ResourceMonitor).Delegate())

	case vm.TableScan:
		return p.doProtect(op), nil

	case vm.Order:
		if err := p.protectInput(op); err != nil {
			return nil, err
		}
		return p.doProtect(op), nil

	case vm.Window:
		// partitions may be unbounded, so the input of a window is protected
		// even when it is not a scan or a sort
		input, err := p.Protect(op.GetOperatorBase().Input())
		if err != nil {
			return nil, err
		}
		op.GetOperatorBase().SetChildren([]vm.Operator{p.doProtect(input)})
		return op, nil

	case vm.ValueScan:
		return op, nil

	case vm.Restrict, vm.Projection, vm.Group, vm.Limit, vm.Dedup,
		vm.Rename, vm.Remove, vm.Eval, vm.RareTopN:
		if err := p.protectInput(op); err != nil {
			return nil, err
		}
		return op, nil

	default:
		return nil, moerr.NewNotSupported(moerr.Context(), "protect operator %s", op.OpType())
	}
}

func (p *ExecutionProtector) protectInput(op vm.Operator) error {
	children := vm.Children(op)
	for i, child := range children {
		protected, err := p.Protect(child)
		if err != nil {
			return err
		}
		children[i] = protected
	}
	return nil
}

func (p *ExecutionProtector) doProtect(op vm.Operator) vm.Operator {
	if isProtected(op) {
		return op
	}
	v2.ExecProtectedOperatorCounter.WithLabelValues(op.OpType().String()).Inc()
	logutil.Debug("protect operator", zap.String("operator", op.TypeName()))
	return resource_monitor.NewArgument(op, p.monitor, p.checkInterval)
}

func isProtected(op vm.Operator) bool {
	_, ok := op.(*resource_monitor.ResourceMonitor)
	return ok
}
