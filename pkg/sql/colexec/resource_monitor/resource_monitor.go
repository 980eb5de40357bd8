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
	"bytes"

	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/logutil"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const opName = "resource_monitor"

func (resourceMonitor *ResourceMonitor) String(buf *bytes.Buffer) {
	buf.WriteString(resourceMonitor.TypeName())
}

func (resourceMonitor *ResourceMonitor) OpType() vm.OpType {
	return vm.ResourceMonitor
}

func (resourceMonitor *ResourceMonitor) Open(proc *process.Process) error {
	resourceMonitor.ctr.reset()
	resourceMonitor.ctr.proc = proc
	if err := resourceMonitor.check("open"); err != nil {
		return err
	}
	return resourceMonitor.OpenChildren(proc)
}

func (resourceMonitor *ResourceMonitor) HasNext() (bool, error) {
	return resourceMonitor.Delegate().HasNext()
}

func (resourceMonitor *ResourceMonitor) Next() (*types.Tuple, error) {
	ctr := &resourceMonitor.ctr
	ctr.nextCalls++
	if ctr.nextCalls%resourceMonitor.checkInterval() == 0 {
		if err := resourceMonitor.check("next"); err != nil {
			return nil, err
		}
	}
	return resourceMonitor.Delegate().Next()
}

func (resourceMonitor *ResourceMonitor) checkInterval() int {
	if resourceMonitor.CheckInterval <= 0 {
		return DefaultCheckInterval
	}
	return resourceMonitor.CheckInterval
}

func (resourceMonitor *ResourceMonitor) check(action string) error {
	ctx := moerr.Context()
	if resourceMonitor.ctr.proc != nil {
		ctx = resourceMonitor.ctr.proc.Ctx
	}
	if resourceMonitor.Monitor.IsHealthy(ctx) {
		return nil
	}
	v2.ExecResourceExhaustedCounter.Inc()
	logutil.WarnCtx(ctx, "resource monitor reports unhealthy",
		zap.String("action", action),
		zap.String("operator", resourceMonitor.Delegate().TypeName()),
		zap.Int("next-calls", resourceMonitor.ctr.nextCalls))
	return moerr.NewResourceExhausted(ctx, "run the query")
}

func (resourceMonitor *ResourceMonitor) Close() error {
	resourceMonitor.ctr.reset()
	return resourceMonitor.CloseChildren()
}

func (resourceMonitor *ResourceMonitor) Schema() *types.Schema {
	return resourceMonitor.ChildSchema()
}
