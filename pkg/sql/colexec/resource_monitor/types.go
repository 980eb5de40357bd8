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

package resource_monitor

import (
	"github.com/matrixorigin/mosearch/pkg/common/rscthrottler"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

var _ vm.Operator = new(ResourceMonitor)

// DefaultCheckInterval checks the monitor on every Next.
const DefaultCheckInterval = 1

type container struct {
	proc      *process.Process
	nextCalls int
}

// ResourceMonitor decorates its only child and fails the query with
// ResourceExhausted once the monitor reports the process as unhealthy.
// The monitor is consulted on Open and on every CheckInterval-th Next.
type ResourceMonitor struct {
	ctr           container
	Monitor       rscthrottler.ResourceMonitor
	CheckInterval int

	vm.OperatorBase
}

func (resourceMonitor *ResourceMonitor) GetOperatorBase() *vm.OperatorBase {
	return &resourceMonitor.OperatorBase
}

func (resourceMonitor ResourceMonitor) TypeName() string {
	return opName
}

func NewArgument(delegate vm.Operator, monitor rscthrottler.ResourceMonitor, checkInterval int) *ResourceMonitor {
	if checkInterval <= 0 {
		checkInterval = DefaultCheckInterval
	}
	resourceMonitor := &ResourceMonitor{
		Monitor:       monitor,
		CheckInterval: checkInterval,
	}
	resourceMonitor.AppendChild(delegate)
	return resourceMonitor
}

// Delegate is the decorated operator.
func (resourceMonitor *ResourceMonitor) Delegate() vm.Operator {
	return resourceMonitor.Input()
}

func (ctr *container) reset() {
	*ctr = container{}
}
