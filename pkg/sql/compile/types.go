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
	"context"

	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
	"github.com/matrixorigin/mosearch/pkg/sql/protector"
	"github.com/matrixorigin/mosearch/pkg/vm"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

// Storage opens the reader of an index node.
type Storage interface {
	NewReader(ctx context.Context, node *logical.Node) (engine.Reader, error)
}

// Optimizer rewrites a logical plan before it is compiled.
type Optimizer interface {
	Optimize(ctx context.Context, node *logical.Node) (*logical.Node, error)
}

// Compile turns one logical plan into a protected physical plan and runs
// it. A Compile is single use, like the plan it holds.
type Compile struct {
	proc      *process.Process
	storage   Storage
	optimizer Optimizer
	protector protector.Protector

	// root of the compiled physical plan
	op vm.Operator
}

type Option func(*Compile)

// WithOptimizer replaces the default push down optimizer. A nil optimizer
// compiles the plan as it is.
func WithOptimizer(o Optimizer) Option {
	return func(c *Compile) {
		c.optimizer = o
	}
}

func WithProtector(p protector.Protector) Option {
	return func(c *Compile) {
		c.protector = p
	}
}
