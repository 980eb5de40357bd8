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
	"path"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
)

func TestLogConfig_getter(t *testing.T) {
	tests := []struct {
		name        string
		cfg         LogConfig
		entry       zapcore.Entry
		wantLevel   zap.AtomicLevel
		wantEncoder zapcore.Encoder
	}{
		{
			name:        "console",
			cfg:         LogConfig{Level: "debug", Format: "console"},
			entry:       zapcore.Entry{Level: zapcore.DebugLevel, Message: "console msg"},
			wantLevel:   zap.NewAtomicLevelAt(zap.DebugLevel),
			wantEncoder: getLoggerEncoder("console"),
		},
		{
			name:        "json with bad level",
			cfg:         LogConfig{Level: "verbose", Format: "json"},
			entry:       zapcore.Entry{Level: zapcore.InfoLevel, Message: "json msg"},
			wantLevel:   zap.NewAtomicLevelAt(zap.InfoLevel),
			wantEncoder: getLoggerEncoder("json"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantLevel.Level(), tt.cfg.getLevel().Level())
			require.Equal(t, 2, len(tt.cfg.getOptions()))
			require.Equal(t, getConsoleSyncer(), tt.cfg.getSyncer())
			wantMsg, _ := tt.wantEncoder.EncodeEntry(tt.entry, nil)
			gotMsg, _ := tt.cfg.getEncoder().EncodeEntry(tt.entry, nil)
			require.Equal(t, wantMsg.String(), gotMsg.String())
			require.Equal(t, 1, len(tt.cfg.getSinks()))
		})
	}
}

func TestSetupMOLogger(t *testing.T) {
	defer SetupMOLogger(&LogConfig{Level: "info", Format: "console"})

	cfg := &LogConfig{
		Level:    zapcore.DebugLevel.String(),
		Format:   "json",
		Filename: path.Join(t.TempDir(), "json.log"),
		MaxSize:  1,
	}
	SetupMOLogger(cfg)
	require.Equal(t, cfg.Filename, getGlobalLogConfig().Filename)

	ctx := WithQueryID(context.Background(), uuid.New())
	InfoCtx(ctx, "hello", zap.Int("int", 0))
	DebugCtx(context.Background(), "hello, no query id")
	require.NotEqual(t, uuid.Nil, QueryID(ctx))
	require.Equal(t, uuid.Nil, QueryID(context.Background()))
}

func TestSetupMOLogger_panic(t *testing.T) {
	conf := &LogConfig{Level: "debug", Format: "panic"}
	defer func() {
		err := recover()
		require.NotNil(t, err)
		require.Equal(t, moerr.NewInternalError(context.TODO(), "unsupported log format: %s", conf.Format), err)
	}()
	SetupMOLogger(conf)
}
