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

package process

import (
	"context"

	"github.com/google/uuid"

	"github.com/matrixorigin/mosearch/pkg/logutil"
)

const DefaultQuerySizeLimit = 200

// New creates a process with a fresh query id bound to its context, so
// log entries written with the process context carry the query id.
func New(ctx context.Context, lim Limitation) *Process {
	if lim.QuerySizeLimit <= 0 {
		lim.QuerySizeLimit = DefaultQuerySizeLimit
	}
	id := uuid.New()
	ctx, cancel := context.WithCancel(logutil.WithQueryID(ctx, id))
	return &Process{
		Id:     id,
		Lim:    lim,
		Ctx:    ctx,
		Cancel: cancel,
	}
}

func NewFromContext(ctx context.Context) *Process {
	return New(ctx, Limitation{})
}

func (proc *Process) QueryId() string {
	return proc.Id.String()
}

func (proc *Process) Free() {
	if proc.Cancel != nil {
		proc.Cancel()
	}
}
