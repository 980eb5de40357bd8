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
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/common/rscthrottler"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/value_scan"
	"github.com/matrixorigin/mosearch/pkg/vm"
	mock_engine "github.com/matrixorigin/mosearch/pkg/vm/engine/test"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

func input() vm.Operator {
	return value_scan.NewFromTuples(
		types.TupleOf("id", 1),
		types.TupleOf("id", 2),
		types.TupleOf("id", 3),
	)
}

func TestHealthy(t *testing.T) {
	arg := NewArgument(input(), rscthrottler.AlwaysHealthy{}, 0)
	require.Equal(t, DefaultCheckInterval, arg.CheckInterval)
	rows, err := vm.Run(arg, process.NewFromContext(context.Background()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, []string{"id"}, arg.Schema().Names())
}

func TestUnhealthyOnOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	monitor := mock_engine.NewMockResourceMonitor(ctrl)
	monitor.EXPECT().IsHealthy(gomock.Any()).Return(false)

	_, err := vm.Run(NewArgument(input(), monitor, 1), process.NewFromContext(context.Background()))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrResourceExhausted))
}

func TestUnhealthyOnNext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// open and the first next pass, the second next fails
	monitor := mock_engine.NewMockResourceMonitor(ctrl)
	gomock.InOrder(
		monitor.EXPECT().IsHealthy(gomock.Any()).Return(true).Times(2),
		monitor.EXPECT().IsHealthy(gomock.Any()).Return(false),
	)

	proc := process.NewFromContext(context.Background())
	arg := NewArgument(input(), monitor, 1)
	require.NoError(t, arg.Open(proc))
	ok, err := arg.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	row, err := arg.Next()
	require.NoError(t, err)
	require.Equal(t, types.NewInt(1), row.Value("id"))

	ok, err = arg.HasNext()
	require.NoError(t, err)
	require.True(t, ok)
	_, err = arg.Next()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrResourceExhausted))
	require.NoError(t, arg.Close())
}

func TestCheckInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// one check on open and one after the second next
	monitor := mock_engine.NewMockResourceMonitor(ctrl)
	monitor.EXPECT().IsHealthy(gomock.Any()).Return(true).Times(2)

	rows, err := vm.Run(NewArgument(input(), monitor, 2), process.NewFromContext(context.Background()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestZeroCheckInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// built without NewArgument, falls back to checking every next
	monitor := mock_engine.NewMockResourceMonitor(ctrl)
	monitor.EXPECT().IsHealthy(gomock.Any()).Return(true).Times(4)

	arg := &ResourceMonitor{Monitor: monitor}
	arg.AppendChild(input())
	rows, err := vm.Run(arg, process.NewFromContext(context.Background()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestString(t *testing.T) {
	in := input()
	arg := NewArgument(in, rscthrottler.AlwaysHealthy{}, 1)
	require.Same(t, in, arg.Delegate())
	require.Equal(t, vm.ResourceMonitor, arg.OpType())

	buf := new(bytes.Buffer)
	vm.String(arg, buf)
	require.Equal(t, "resource_monitor <- value_scan(3 rows)", buf.String())
}
