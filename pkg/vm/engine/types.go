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

package engine

import (
	"context"

	"github.com/matrixorigin/mosearch/pkg/container/types"
)

// Reader is the storage side of a table scan. Rows are fetched page by
// page; a page with no rows means the source is exhausted.
type Reader interface {
	Open(ctx context.Context) error
	Read(ctx context.Context) ([]*types.Tuple, error)
	Close() error

	// Schema is the schema of the rows returned by Read.
	Schema() *types.Schema
	// Name identifies the source in plan explanations, usually the index name.
	Name() string
}
