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
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/container/types"
	"github.com/matrixorigin/mosearch/pkg/logutil"
	"github.com/matrixorigin/mosearch/pkg/storage/opensearch/request"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
	"github.com/matrixorigin/mosearch/pkg/vm/engine"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// IndexScan reads an index page by page. Plain searches page with
// from/size up to the pushed down limit, composite aggregations page with
// the after key.
type IndexScan struct {
	client  Client
	request *request.Request

	from     int
	fetched  int
	afterKey map[string]any
	done     bool
}

var _ engine.Reader = new(IndexScan)

func NewIndexScan(client Client, req *request.Request) *IndexScan {
	return &IndexScan{client: client, request: req}
}

func (s *IndexScan) Open(_ context.Context) error {
	s.from = s.request.Offset
	s.fetched = 0
	s.afterKey = nil
	s.done = false
	return nil
}

func (s *IndexScan) Read(ctx context.Context) ([]*types.Tuple, error) {
	if s.done {
		return nil, nil
	}
	if s.request.IsAggregation() {
		return s.readAggregation(ctx)
	}
	return s.readHits(ctx)
}

func (s *IndexScan) readHits(ctx context.Context) ([]*types.Tuple, error) {
	size := s.request.QuerySizeLimit
	if s.request.Limit >= 0 {
		size = min(size, s.request.Limit-s.fetched)
	}
	if size <= 0 {
		s.done = true
		return nil, nil
	}
	body, err := s.request.Body(s.from, size)
	if err != nil {
		return nil, err
	}
	resp, err := s.search(ctx, body)
	if err != nil {
		return nil, err
	}

	rows := make([]*types.Tuple, len(resp.Hits.Hits))
	for i, hit := range resp.Hits.Hits {
		if rows[i], err = s.decode(hit.Source); err != nil {
			return nil, err
		}
	}
	s.from += len(rows)
	s.fetched += len(rows)
	if len(rows) < size {
		s.done = true
	}
	return rows, nil
}

func (s *IndexScan) readAggregation(ctx context.Context) ([]*types.Tuple, error) {
	body, err := s.request.AggregationBody(s.afterKey)
	if err != nil {
		return nil, err
	}
	resp, err := s.search(ctx, body)
	if err != nil {
		return nil, err
	}
	rows, afterKey, err := s.request.Parser.Parse(resp.Aggregations)
	if err != nil {
		return nil, err
	}
	s.afterKey = afterKey
	s.done = afterKey == nil
	return rows, nil
}

func (s *IndexScan) search(ctx context.Context, body []byte) (*searchResponse, error) {
	start := time.Now()
	data, err := s.client.Search(ctx, s.request.Index, body)
	v2.ScanRequestDurationHistogram.Observe(time.Since(start).Seconds())
	logutil.DebugCtx(ctx, "search request",
		zap.String("index", s.request.Index),
		zap.ByteString("body", body),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	if err != nil {
		return nil, err
	}
	resp := &searchResponse{}
	if err := json.Unmarshal(data, resp); err != nil {
		return nil, moerr.NewStorageError(ctx, err)
	}
	if resp.TimedOut {
		logutil.WarnCtx(ctx, "search request timed out, results may be partial",
			zap.String("index", s.request.Index))
	}
	return resp, nil
}

// decode builds a row holding the schema columns of a document. Absent
// fields are MISSING, explicit nulls are NULL.
func (s *IndexScan) decode(source map[string]any) (*types.Tuple, error) {
	schema := s.request.Schema
	if schema == nil {
		return types.TupleFromMap(source), nil
	}
	row := types.NewTuple()
	for _, col := range schema.Columns {
		raw, ok := lookup(source, col.Name)
		if !ok {
			row.Set(col.OutputName(), types.Missing())
			continue
		}
		v, err := types.Convert(col.Typ, raw)
		if err != nil {
			return nil, err
		}
		row.Set(col.OutputName(), v)
	}
	return row, nil
}

func lookup(source map[string]any, path string) (any, bool) {
	if v, ok := source[path]; ok {
		return v, true
	}
	cur := source
	parts := strings.Split(path, ".")
	for i, p := range parts {
		v, ok := cur[p]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		if cur, ok = v.(map[string]any); !ok {
			return nil, false
		}
	}
	return nil, false
}

func (s *IndexScan) Close() error {
	s.done = true
	s.afterKey = nil
	return nil
}

func (s *IndexScan) Schema() *types.Schema {
	return s.request.Schema
}

func (s *IndexScan) Name() string {
	return s.request.Index
}
