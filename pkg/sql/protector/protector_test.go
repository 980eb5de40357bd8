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
	"bytes"
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/common/rscthrottler"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/dedup"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/eval"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/limit"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/order"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/projection"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/remove"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/rename"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/resource_monitor"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/restrict"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/table_scan"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/value_scan"
	"github.com/matrixorigin/mosearch/pkg/sql/colexec/window"
	. "github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/engine/memengine"
	mock_engine "github.com/matrixorigin/mosearch/pkg/vm/engine/test"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

var age = Ref("age", types.T_integer)

func scan() vm.Operator {
	schema := types.NewSchema(
		types.Column{Name: "id", Typ: types.T_integer},
		types.Column{Name: "age", Typ: types.T_integer},
	)
	return table_scan.NewArgument(memengine.NewReader("people", schema, []*types.Tuple{
		types.TupleOf("id", 1, "age", 30),
		types.TupleOf("id", 2, "age", 10),
		types.TupleOf("id", 3, "age", 40),
	}, 2))
}

func values() vm.Operator {
	return value_scan.NewFromTuples(types.TupleOf("id", 1, "age", 30))
}

// shape lists the operator types along the first child chain.
func shape(op vm.Operator) []vm.OpType {
	var out []vm.OpType
	for op != nil {
		out = append(out, op.OpType())
		op = op.GetOperatorBase().Input()
	}
	return out
}

func explain(op vm.Operator) string {
	buf := new(bytes.Buffer)
	vm.String(op, buf)
	return buf.String()
}

func newProtector() *ExecutionProtector {
	return New(rscthrottler.AlwaysHealthy{}, 1)
}

func TestProtectScanAndSort(t *testing.T) {
	plan := limit.NewArgument(
		restrict.NewArgument(
			order.NewArgument(scan(), Asc(age)),
			Greater(age, Lit(20))),
		10, 0)

	protected, err := newProtector().Protect(plan)
	require.NoError(t, err)
	require.Equal(t, []vm.OpType{
		vm.Limit, vm.Restrict, vm.ResourceMonitor, vm.Order, vm.ResourceMonitor, vm.TableScan,
	}, shape(protected))

	rows, err := vm.Run(protected, process.NewFromContext(context.Background()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
}

func TestTypeNames(t *testing.T) {
	plan := limit.NewArgument(
		restrict.NewArgument(
			order.NewArgument(scan(), Asc(age)),
			Greater(age, Lit(20))),
		10, 0)
	protected, err := newProtector().Protect(plan)
	require.NoError(t, err)

	var names []string
	for op := protected; op != nil; op = op.GetOperatorBase().Input() {
		names = append(names, op.TypeName())
		require.LessOrEqual(t, len(vm.Children(op)), 1)
	}
	require.Equal(t, []string{
		"limit", "filter", "resource_monitor", "order", "resource_monitor", "table_scan",
	}, names)
}

func TestProtectIsIdempotent(t *testing.T) {
	plan := projection.NewArgument(
		order.NewArgument(scan(), Asc(age)),
		NamedRef(age))

	p := newProtector()
	once, err := p.Protect(plan)
	require.NoError(t, err)
	want := explain(once)

	twice, err := p.Protect(once)
	require.NoError(t, err)
	require.Equal(t, want, explain(twice))
	require.Equal(t, []vm.OpType{
		vm.Projection, vm.ResourceMonitor, vm.Order, vm.ResourceMonitor, vm.TableScan,
	}, shape(twice))

	// a protected root stays a single layer
	root, err := p.Protect(scan())
	require.NoError(t, err)
	again, err := p.Protect(root)
	require.NoError(t, err)
	require.Equal(t, []vm.OpType{vm.ResourceMonitor, vm.TableScan}, shape(again))
}

func TestIntermediateNodesAreNotWrapped(t *testing.T) {
	plan := dedup.NewArgument(
		eval.NewArgument(
			rename.NewArgument(
				remove.NewArgument(scan(), "id"),
				rename.Mapping{From: "age", To: "years"}),
			Named("older", Add(Ref("years", types.T_integer), Lit(1)))),
		[]Expression{Ref("years", types.T_integer)}, 0, false, false)

	protected, err := newProtector().Protect(plan)
	require.NoError(t, err)
	require.Same(t, plan, protected)
	require.Equal(t, []vm.OpType{
		vm.Dedup, vm.Eval, vm.Rename, vm.Remove, vm.ResourceMonitor, vm.TableScan,
	}, shape(protected))
}

func TestValuesAreNotWrapped(t *testing.T) {
	in := values()
	protected, err := newProtector().Protect(in)
	require.NoError(t, err)
	require.Same(t, in, protected)

	protected, err = newProtector().Protect(restrict.NewArgument(values(), Greater(age, Lit(20))))
	require.NoError(t, err)
	require.Equal(t, []vm.OpType{vm.Restrict, vm.ValueScan}, shape(protected))
}

func TestProtectWindowInput(t *testing.T) {
	fn, err := NewRankingFunction(RowNumber)
	require.NoError(t, err)
	def := &WindowDefinition{SortList: []SortItem{Asc(age)}}

	p := newProtector()
	protected, err := p.Protect(window.NewArgument(values(), Named("rn", fn), def))
	require.NoError(t, err)
	require.Equal(t, []vm.OpType{vm.Window, vm.ResourceMonitor, vm.ValueScan}, shape(protected))

	again, err := p.Protect(protected)
	require.NoError(t, err)
	require.Equal(t, []vm.OpType{vm.Window, vm.ResourceMonitor, vm.ValueScan}, shape(again))

	protected, err = p.Protect(window.NewArgument(order.NewArgument(scan(), Asc(age)), Named("rn", fn), def))
	require.NoError(t, err)
	require.Equal(t, []vm.OpType{
		vm.Window, vm.ResourceMonitor, vm.Order, vm.ResourceMonitor, vm.TableScan,
	}, shape(protected))
}

func TestProtectedPlanFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	monitor := mock_engine.NewMockResourceMonitor(ctrl)
	monitor.EXPECT().IsHealthy(gomock.Any()).Return(true).Times(2)
	monitor.EXPECT().IsHealthy(gomock.Any()).Return(false)

	protected, err := New(monitor, 1).Protect(scan())
	require.NoError(t, err)
	_, err = vm.Run(protected, process.NewFromContext(context.Background()))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrResourceExhausted))
}

func TestNoop(t *testing.T) {
	in := scan()
	out, err := Noop{}.Protect(in)
	require.NoError(t, err)
	require.Same(t, in, out)
}

type unknown struct {
	vm.OperatorBase
}

func (u *unknown) Open(*process.Process) error { return nil }
func (u *unknown) HasNext() (bool, error) { return false, nil }
func (u *unknown) Next() (*types.Tuple, error) { return nil, nil }
func (u *unknown) Close() error { return nil }
func (u *unknown) Schema() *types.Schema { return types.NewSchema() }
func (u *unknown) OpType() vm.OpType { return vm.LastInstructionOp }
func (u *unknown) TypeName() string { return "unknown" }
func (u *unknown) String(buf *bytes.Buffer) { buf.WriteString(u.TypeName()) }
func (u *unknown) GetOperatorBase() *vm.OperatorBase { return &u.OperatorBase }

func TestUnsupported(t *testing.T) {
	_, err := newProtector().Protect(limit.NewArgument(&unknown{}, 1, 0))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
}

func TestDelegate(t *testing.T) {
	in := scan()
	protected, err := newProtector().Protect(in)
	require.NoError(t, err)
	require.Same(t, in, protected.(*resource_monitor.ResourceMonitor).Delegate())
}
