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

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

type OpType int

const (
	TableScan OpType = iota
	Restrict
	Projection
	Group
	Order
	Limit
	Dedup
	Rename
	Remove
	Eval
	RareTopN
	Window
	ValueScan
	// ResourceMonitor decorates another operator and is never produced by
	// the planner.
	ResourceMonitor

	// LastInstructionOp is not a true operator and must set at last.
	LastInstructionOp
)

var opNames = [...]string{
	TableScan:       "table_scan",
	Restrict:        "restrict",
	Projection:      "projection",
	Group:           "group",
	Order:           "order",
	Limit:           "limit",
	Dedup:           "dedup",
	Rename:          "rename",
	Remove:          "remove",
	Eval:            "eval",
	RareTopN:        "rare_top_n",
	Window:          "window",
	ValueScan:       "value_scan",
	ResourceMonitor: "resource_monitor",
}

func (t OpType) String() string {
	if t >= 0 && t < LastInstructionOp {
		return opNames[t]
	}
	return "unknown"
}

// Operator is a physical plan node driven by the pull protocol:
//
//	Open, then HasNext/Next until HasNext reports false, then Close.
//
// HasNext has no visible effect when called repeatedly without Next.
// Next must only follow a HasNext that reported true.
type Operator interface {
	// Open prepares the operator and its children for execution.
	Open(proc *process.Process) error
	HasNext() (bool, error)
	Next() (*types.Tuple, error)
	// Close releases the operator and its children.
	Close() error

	// Schema is the output schema, derived from the operator semantics.
	Schema() *types.Schema
	OpType() OpType
	// TypeName is the operator name used in renderings and logs.
	TypeName() string
	// String returns the string representation of an operator.
	String(buf *bytes.Buffer)

	GetOperatorBase() *OperatorBase
}

// OperatorBase holds the children and the one row lookahead shared by
// all operators.
type OperatorBase struct {
	Children []Operator

	peeked *types.Tuple
	done   bool
}

func (o *OperatorBase) NumChildren() int {
	return len(o.Children)
}

func (o *OperatorBase) AppendChild(child Operator) {
	o.Children = append(o.Children, child)
}

func (o *OperatorBase) SetChildren(children []Operator) {
	o.Children = children
}

func (o *OperatorBase) GetChildren(idx int) Operator {
	return o.Children[idx]
}

// Input is the single child of a unary operator.
func (o *OperatorBase) Input() Operator {
	if len(o.Children) == 0 {
		return nil
	}
	return o.Children[0]
}

// Peek implements HasNext on top of fetch, which returns nil at the end of
// the input. A fetched row is kept until Take hands it out.
func (o *OperatorBase) Peek(fetch func() (*types.Tuple, error)) (bool, error) {
	if o.peeked != nil {
		return true, nil
	}
	if o.done {
		return false, nil
	}
	row, err := fetch()
	if err != nil {
		return false, err
	}
	if row == nil {
		o.done = true
		return false, nil
	}
	o.peeked = row
	return true, nil
}

// Take implements Next.
func (o *OperatorBase) Take() (*types.Tuple, error) {
	if o.peeked == nil {
		return nil, moerr.NewInvalidState(moerr.Context(), "next called without a pending row")
	}
	row := o.peeked
	o.peeked = nil
	return row, nil
}

// ResetLookahead drops any pending row, used when an operator is reopened.
func (o *OperatorBase) ResetLookahead() {
	o.peeked = nil
	o.done = false
}

// OpenChildren opens all children in order.
func (o *OperatorBase) OpenChildren(proc *process.Process) error {
	for _, child := range o.Children {
		if err := child.Open(proc); err != nil {
			return err
		}
	}
	return nil
}

// CloseChildren closes all children and folds their errors.
func (o *OperatorBase) CloseChildren() error {
	var errs []error
	for _, child := range o.Children {
		if err := child.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return combine(errs)
}

// ChildSchema is the schema of the single child, empty for leaves.
func (o *OperatorBase) ChildSchema() *types.Schema {
	if in := o.Input(); in != nil {
		return in.Schema()
	}
	return types.NewSchema()
}
