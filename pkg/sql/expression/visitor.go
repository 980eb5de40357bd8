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

package expression

// Visitor dispatches on the expression node kind.
type Visitor interface {
	VisitLiteral(node *Literal, ctx any) (any, error)
	VisitReference(node *Reference, ctx any) (any, error)
	VisitFunction(node *FunctionCall, ctx any) (any, error)
	VisitSpan(node *Span, ctx any) (any, error)
	VisitNamed(node *NamedExpression, ctx any) (any, error)
	VisitAggregator(node *Aggregator, ctx any) (any, error)
	VisitNamedAggregator(node *NamedAggregator, ctx any) (any, error)
	VisitWindowFunction(node *WindowFunction, ctx any) (any, error)
}

// BaseVisitor does nothing for every node. Embed it and override the
// node kinds of interest.
type BaseVisitor struct{}

var _ Visitor = BaseVisitor{}

func (BaseVisitor) VisitLiteral(*Literal, any) (any, error)                 { return nil, nil }
func (BaseVisitor) VisitReference(*Reference, any) (any, error)             { return nil, nil }
func (BaseVisitor) VisitFunction(*FunctionCall, any) (any, error)           { return nil, nil }
func (BaseVisitor) VisitSpan(*Span, any) (any, error)                       { return nil, nil }
func (BaseVisitor) VisitNamed(*NamedExpression, any) (any, error)           { return nil, nil }
func (BaseVisitor) VisitAggregator(*Aggregator, any) (any, error)           { return nil, nil }
func (BaseVisitor) VisitNamedAggregator(*NamedAggregator, any) (any, error) { return nil, nil }
func (BaseVisitor) VisitWindowFunction(*WindowFunction, any) (any, error)   { return nil, nil }

var _ Visitor = (*DepthFirstTraversal)(nil)

// DepthFirstTraversal visits all children of a node before the node
// itself, calling impl for every node of the tree.
type DepthFirstTraversal struct {
	impl Visitor
}

func DepthFirst(impl Visitor) *DepthFirstTraversal {
	return &DepthFirstTraversal{impl: impl}
}

func (v *DepthFirstTraversal) visitChildren(node Expression, ctx any) error {
	for _, child := range node.Children() {
		if _, err := child.Accept(v, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (v *DepthFirstTraversal) VisitLiteral(node *Literal, ctx any) (any, error) {
	return v.impl.VisitLiteral(node, ctx)
}

func (v *DepthFirstTraversal) VisitReference(node *Reference, ctx any) (any, error) {
	return v.impl.VisitReference(node, ctx)
}

func (v *DepthFirstTraversal) VisitFunction(node *FunctionCall, ctx any) (any, error) {
	if err := v.visitChildren(node, ctx); err != nil {
		return nil, err
	}
	return v.impl.VisitFunction(node, ctx)
}

func (v *DepthFirstTraversal) VisitSpan(node *Span, ctx any) (any, error) {
	if err := v.visitChildren(node, ctx); err != nil {
		return nil, err
	}
	return v.impl.VisitSpan(node, ctx)
}

func (v *DepthFirstTraversal) VisitNamed(node *NamedExpression, ctx any) (any, error) {
	if err := v.visitChildren(node, ctx); err != nil {
		return nil, err
	}
	return v.impl.VisitNamed(node, ctx)
}

func (v *DepthFirstTraversal) VisitAggregator(node *Aggregator, ctx any) (any, error) {
	if err := v.visitChildren(node, ctx); err != nil {
		return nil, err
	}
	return v.impl.VisitAggregator(node, ctx)
}

func (v *DepthFirstTraversal) VisitNamedAggregator(node *NamedAggregator, ctx any) (any, error) {
	if err := v.visitChildren(node, ctx); err != nil {
		return nil, err
	}
	return v.impl.VisitNamedAggregator(node, ctx)
}

func (v *DepthFirstTraversal) VisitWindowFunction(node *WindowFunction, ctx any) (any, error) {
	if err := v.visitChildren(node, ctx); err != nil {
		return nil, err
	}
	return v.impl.VisitWindowFunction(node, ctx)
}
