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

package logutil

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type queryIDKey struct{}

// WithQueryID returns a context whose log entries carry the query id.
func WithQueryID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, queryIDKey{}, id)
}

// QueryID returns the query id bound to ctx, uuid.Nil if none.
func QueryID(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if id, ok := ctx.Value(queryIDKey{}).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

func contextFields(ctx context.Context) zap.Option {
	id := QueryID(ctx)
	if id == uuid.Nil {
		return zap.Fields()
	}
	return zap.Fields(zap.String("query_id", id.String()))
}

func DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	GetGlobalLogger().WithOptions(zap.AddCallerSkip(1), contextFields(ctx)).Debug(msg, fields...)
}

func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	GetGlobalLogger().WithOptions(zap.AddCallerSkip(1), contextFields(ctx)).Info(msg, fields...)
}

func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	GetGlobalLogger().WithOptions(zap.AddCallerSkip(1), contextFields(ctx)).Warn(msg, fields...)
}

func ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	GetGlobalLogger().WithOptions(zap.AddCallerSkip(1), contextFields(ctx)).Error(msg, fields...)
}

// Debugf only use in develop mode
func Debugf(ctx context.Context, msg string, fields ...interface{}) {
	GetGlobalLogger().WithOptions(zap.AddCallerSkip(1), contextFields(ctx)).Sugar().Debugf(msg, fields...)
}
