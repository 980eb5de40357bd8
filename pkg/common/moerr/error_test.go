// Copyright 2021 - 2022 Matrix Origin
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

package moerr

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsMoErrCode(t *testing.T) {
	ctx := context.Background()
	require.True(t, IsMoErrCode(nil, Ok))
	require.False(t, IsMoErrCode(errors.New("x"), ErrInternal))
	require.True(t, IsMoErrCode(NewResourceExhausted(ctx, "load next row"), ErrResourceExhausted))
	require.True(t, IsMoErrCode(NewTypeMismatch(ctx, "abs(%s)", "STRING"), ErrTypeMismatch))
	require.Equal(t, "resource is not enough to load next row, quit", NewResourceExhausted(ctx, "load next row").Error())
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError(context.Background(), cause)
	require.True(t, errors.Is(err, cause))
	require.Equal(t, "storage error: connection reset", err.Error())
	require.True(t, IsMoErrCode(err, ErrStorage))
}

func TestConvert(t *testing.T) {
	ctx := context.Background()
	require.Nil(t, ConvertGoError(ctx, nil))
	e := NewDivByZero(ctx)
	require.Equal(t, error(e), ConvertGoError(ctx, e))
	require.True(t, IsMoErrCode(ConvertGoError(ctx, io.EOF), ErrInternal))

	pe := ConvertPanicError(ctx, "boom")
	require.Equal(t, ErrInternal, pe.ErrorCode())
	require.NotEmpty(t, pe.Detail())
	require.Equal(t, e, ConvertPanicError(ctx, e))
	require.True(t, GetOkExpectedEOF().Succeeded())
	require.Equal(t, ErrInvalidInput, DowncastError(NewInvalidInput(ctx, "x")).ErrorCode())
}
