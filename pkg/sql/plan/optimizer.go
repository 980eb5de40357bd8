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

package plan

import (
	"context"

	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/logutil"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/rule"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
)

// Optimizer applies push down rules bottom up. After a rule fires the
// rules are tried again on the rewritten node until none matches.
type Optimizer struct {
	rules []rule.Rule
}

func NewOptimizer(rules ...rule.Rule) *Optimizer {
	if len(rules) == 0 {
		rules = rule.DefaultRules()
	}
	return &Optimizer{rules: rules}
}

func (o *Optimizer) Optimize(ctx context.Context, node *logical.Node) (*logical.Node, error) {
	if node == nil {
		return nil, nil
	}
	return o.exploreNode(ctx, node)
}

func (o *Optimizer) exploreNode(ctx context.Context, node *logical.Node) (*logical.Node, error) {
	for i := range node.Children {
		child, err := o.exploreNode(ctx, node.Children[i])
		if err != nil {
			return nil, err
		}
		node.Children[i] = child
	}

	for {
		applied := false
		for _, r := range o.rules {
			if !r.Match(node) {
				continue
			}
			next, err := r.Apply(node)
			if err != nil {
				return nil, err
			}
			v2.PlanPushDownRuleCounter.WithLabelValues(r.Name()).Inc()
			logutil.DebugCtx(ctx, "push down rule applied",
				zap.String("rule", r.Name()),
				zap.String("node", node.NodeType.String()))
			node, applied = next, true
			break
		}
		if !applied {
			return node, nil
		}
	}
}
