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
	"runtime/metrics"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"

	"github.com/matrixorigin/mosearch/pkg/logutil"
	v2 "github.com/matrixorigin/mosearch/pkg/util/metric/v2"
)

// ResourceMonitor reports whether the process is still within its
// resource budget. Implementations are safe for concurrent use.
type ResourceMonitor interface {
	IsHealthy(ctx context.Context) bool
}

const (
	DefaultRetryTimes     = 3
	DefaultRetryInterval  = 10 * time.Millisecond
	DefaultSampleInterval = 10 * time.Millisecond
)

// heap spans in use, the same quantity as MemStats.HeapInuse
var heapSamples = []string{
	"/memory/classes/heap/objects:bytes",
	"/memory/classes/heap/unused:bytes",
}

// stubbed in tests
var (
	now = time.Now

	// runtime/metrics reads do not stop the world
	readHeapInUse = func() uint64 {
		samples := make([]metrics.Sample, len(heapSamples))
		for i, name := range heapSamples {
			samples[i].Name = name
		}
		metrics.Read(samples)
		var total uint64
		for _, s := range samples {
			if s.Value.Kind() == metrics.KindUint64 {
				total += s.Value.Uint64()
			}
		}
		return total
	}
	readTotalMemory = func() (uint64, error) {
		vm, err := mem.VirtualMemory()
		if err != nil {
			return 0, err
		}
		return vm.Total, nil
	}
)

type MemoryMonitor struct {
	name           string
	limit          int64
	retryTimes     int
	retryInterval  time.Duration
	sampleInterval time.Duration

	lastUsage atomic.Int64
	// unix nanos of the last healthy probe
	lastHealthy atomic.Int64
}

var _ ResourceMonitor = new(MemoryMonitor)

type Option func(*MemoryMonitor)

// WithConstLimit replaces the host memory based limit.
func WithConstLimit(limit int64) Option {
	return func(m *MemoryMonitor) {
		m.limit = limit
	}
}

func WithRetry(times int, interval time.Duration) Option {
	return func(m *MemoryMonitor) {
		m.retryTimes = times
		m.retryInterval = interval
	}
}

// WithSampleInterval sets how long a healthy probe is trusted. Zero probes
// on every check.
func WithSampleInterval(interval time.Duration) Option {
	return func(m *MemoryMonitor) {
		m.sampleInterval = interval
	}
}

// NewMemoryMonitor limits the heap in use to rate of the host memory.
func NewMemoryMonitor(name string, rate float64, opts ...Option) *MemoryMonitor {
	m := &MemoryMonitor{
		name:           name,
		retryTimes:     DefaultRetryTimes,
		retryInterval:  DefaultRetryInterval,
		sampleInterval: DefaultSampleInterval,
	}
	if total, err := readTotalMemory(); err != nil {
		logutil.Warn("failed to read host memory, memory monitor disabled",
			zap.String("name", name), zap.Error(err))
		m.limit = -1
	} else {
		m.limit = int64(float64(total) * rate)
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.retryTimes < 1 {
		m.retryTimes = 1
	}
	return m
}

func (m *MemoryMonitor) Limit() int64 {
	return m.limit
}

// Available is the headroom observed by the last check.
func (m *MemoryMonitor) Available() int64 {
	if m.limit < 0 {
		return -1
	}
	return m.limit - m.lastUsage.Load()
}

// IsHealthy probes the heap up to retryTimes times, giving the garbage
// collector a chance to bring usage back under the limit. A healthy probe
// younger than the sample interval answers without probing again.
func (m *MemoryMonitor) IsHealthy(ctx context.Context) bool {
	if m.limit < 0 {
		return true
	}
	if last := m.lastHealthy.Load(); last != 0 && now().UnixNano()-last < int64(m.sampleInterval) {
		return true
	}
probe:
	for i := 0; i < m.retryTimes; i++ {
		usage := int64(readHeapInUse())
		m.lastUsage.Store(usage)
		v2.ResourceMemoryUsageGauge.Set(float64(usage))
		if usage < m.limit {
			m.lastHealthy.Store(now().UnixNano())
			v2.ResourceCheckHealthyCounter.Inc()
			return true
		}
		if i+1 < m.retryTimes {
			select {
			case <-ctx.Done():
				break probe
			case <-time.After(m.retryInterval):
			}
		}
	}
	m.lastHealthy.Store(0)
	v2.ResourceCheckUnhealthyCounter.Inc()
	logutil.WarnCtx(ctx, "memory usage exceeds limit",
		zap.String("name", m.name),
		zap.Int64("usage", m.lastUsage.Load()),
		zap.Int64("limit", m.limit))
	return false
}

func (m *MemoryMonitor) PrintUsage() {
	logutil.Info("memory monitor usage",
		zap.String("name", m.name),
		zap.Int64("usage", m.lastUsage.Load()),
		zap.Int64("limit", m.limit))
}

// AlwaysHealthy never reports exhaustion.
type AlwaysHealthy struct{}

func (AlwaysHealthy) IsHealthy(context.Context) bool {
	return true
}
