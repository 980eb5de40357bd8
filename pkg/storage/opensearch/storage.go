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

package opensearch

import (
	"context"
	"time"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/sql/expression"
	"github.com/matrixorigin/mosearch/pkg/sql/plan/logical"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/request"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/serialization"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
)

type Options struct {
	// QuerySizeLimit is the number of documents fetched per page.
	QuerySizeLimit int
	ScrollTimeout  time.Duration
	Serializer     serialization.ExpressionSerializer
}

// Storage opens index readers for the index nodes of a logical plan.
type Storage struct {
	client Client
	opts   Options
}

func NewStorage(client Client, opts Options) *Storage {
	if opts.Serializer == nil {
		opts.Serializer = serialization.DefaultSerializer{}
	}
	return &Storage{client: client, opts: opts}
}

// NewReader translates everything pushed into node into one search
// request.
func (s *Storage) NewReader(_ context.Context, node *logical.Node) (engine.Reader, error) {
	if !node.IsIndex() {
		return nil, moerr.NewInvalidInput(moerr.Context(), "%s is not an index node", node.NodeType)
	}
	b := request.NewBuilder(node.TableName, node.TableDef, s.opts.QuerySizeLimit, s.opts.ScrollTimeout, s.opts.Serializer)
	if node.FilterCond != nil {
		if err := b.PushDownFilter(node.FilterCond); err != nil {
			return nil, err
		}
	}
	if node.NodeType == logical.IndexAgg {
		if err := b.PushDownAggregation(node.AggList, node.GroupBy, node.OrderBy); err != nil {
			return nil, err
		}
		return NewIndexScan(s.client, b.Build()), nil
	}
	if len(node.OrderBy) > 0 {
		if err := b.PushDownSort(node.OrderBy); err != nil {
			return nil, err
		}
	}
	if node.Limit != nil {
		b.PushDownLimit(int(node.Limit.Count), int(node.Limit.Offset))
	}
	if len(node.ProjectList) > 0 {
		refs := make([]*expression.Reference, 0, len(node.ProjectList))
		for _, p := range node.ProjectList {
			ref, ok := p.Delegate.(*expression.Reference)
			if !ok {
				return nil, moerr.NewNotSupported(moerr.Context(), "push down project %s", p)
			}
			refs = append(refs, ref)
		}
		b.PushDownProjects(refs)
	}
	return NewIndexScan(s.client, b.Build()), nil
}
