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

package rscthrottler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prashantv/gostub"
	"github.com/stretchr/testify/require"
)

const kb = 1024

func TestBasic(t *testing.T) {
	t.Run("A", func(t *testing.T) {
		stubs := gostub.Stub(&readTotalMemory, func() (uint64, error) { return 100 * kb, nil })
		defer stubs.Reset()
		stubs.Stub(&readHeapInUse, func() uint64 { return 10 * kb })

		monitor := NewMemoryMonitor("TestBasic", 0.5)
		require.Equal(t, int64(50*kb), monitor.Limit())
		require.True(t, monitor.IsHealthy(context.Background()))
		require.Equal(t, int64(40*kb), monitor.Available())
		monitor.PrintUsage()
	})

	t.Run("B", func(t *testing.T) {
		stubs := gostub.Stub(&readHeapInUse, func() uint64 { return 2 * kb })
		defer stubs.Reset()

		monitor := NewMemoryMonitor("TestBasic", 1, WithConstLimit(kb), WithRetry(2, time.Millisecond))
		require.Equal(t, int64(kb), monitor.Limit())
		require.False(t, monitor.IsHealthy(context.Background()))
		require.Equal(t, int64(-kb), monitor.Available())
	})

	t.Run("host memory unavailable", func(t *testing.T) {
		stubs := gostub.Stub(&readTotalMemory, func() (uint64, error) { return 0, errors.New("no proc") })
		defer stubs.Reset()

		monitor := NewMemoryMonitor("TestBasic", 0.5)
		require.True(t, monitor.IsHealthy(context.Background()))
		require.Equal(t, int64(-1), monitor.Available())
	})
}

func TestRetry(t *testing.T) {
	var calls atomic.Int32
	stubs := gostub.Stub(&readHeapInUse, func() uint64 {
		// the collector frees memory before the third probe
		if calls.Add(1) < 3 {
			return 2 * kb
		}
		return kb / 2
	})
	defer stubs.Reset()

	monitor := NewMemoryMonitor("TestRetry", 1, WithConstLimit(kb), WithRetry(3, time.Millisecond))
	require.True(t, monitor.IsHealthy(context.Background()))
	require.Equal(t, int32(3), calls.Load())

	calls.Store(0)
	monitor = NewMemoryMonitor("TestRetry", 1, WithConstLimit(kb), WithRetry(2, time.Millisecond))
	require.False(t, monitor.IsHealthy(context.Background()))
	require.Equal(t, int32(2), calls.Load())
}

func TestSampleInterval(t *testing.T) {
	var calls atomic.Int32
	usage := uint64(kb / 2)
	clock := time.Unix(1000, 0)
	stubs := gostub.Stub(&readHeapInUse, func() uint64 {
		calls.Add(1)
		return usage
	})
	defer stubs.Reset()
	stubs.Stub(&now, func() time.Time { return clock })

	monitor := NewMemoryMonitor("TestSampleInterval", 1, WithConstLimit(kb),
		WithRetry(1, time.Millisecond), WithSampleInterval(time.Second))
	for i := 0; i < 1000; i++ {
		require.True(t, monitor.IsHealthy(context.Background()))
	}
	require.Equal(t, int32(1), calls.Load())

	// a stale sample is read again and exhaustion is not cached
	usage = 2 * kb
	clock = clock.Add(time.Second)
	require.False(t, monitor.IsHealthy(context.Background()))
	require.False(t, monitor.IsHealthy(context.Background()))
	require.Equal(t, int32(3), calls.Load())

	monitor = NewMemoryMonitor("TestSampleInterval", 1, WithConstLimit(kb),
		WithRetry(1, time.Millisecond), WithSampleInterval(0))
	usage = kb / 2
	calls.Store(0)
	for i := 0; i < 10; i++ {
		require.True(t, monitor.IsHealthy(context.Background()))
	}
	require.Equal(t, int32(10), calls.Load())
}

func TestReadHeapInUse(t *testing.T) {
	require.Greater(t, readHeapInUse(), uint64(0))
}

func TestCancelledProbe(t *testing.T) {
	var calls atomic.Int32
	stubs := gostub.Stub(&readHeapInUse, func() uint64 {
		calls.Add(1)
		return 2 * kb
	})
	defer stubs.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	monitor := NewMemoryMonitor("TestCancelledProbe", 1, WithConstLimit(kb), WithRetry(5, time.Hour))
	require.False(t, monitor.IsHealthy(ctx))
	require.Equal(t, int32(1), calls.Load())
}

func TestParallel(t *testing.T) {
	stubs := gostub.Stub(&readHeapInUse, func() uint64 { return kb })
	defer stubs.Reset()

	monitor := NewMemoryMonitor("TestParallel", 1, WithConstLimit(2*kb))
	wg := sync.WaitGroup{}
	var unhealthy atomic.Int32
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				if !monitor.IsHealthy(context.Background()) {
					unhealthy.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int32(0), unhealthy.Load())
	require.Equal(t, int64(kb), monitor.Available())
}

func TestAlwaysHealthy(t *testing.T) {
	var m ResourceMonitor = AlwaysHealthy{}
	require.True(t, m.IsHealthy(context.Background()))
}

func BenchmarkMonitor(b *testing.B) {
	monitor := NewMemoryMonitor("BenchmarkMonitor", 50.0/100.0)
	for i := 0; i < b.N; i++ {
		monitor.IsHealthy(context.Background())
	}
}
