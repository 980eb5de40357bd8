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

package config

import (
	"context"
	"io"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/mosearch/pkg/common/moerr"
	"github.com/matrixorigin/mosearch/pkg/common/rscthrottler"
	"github.com/matrixorigin/mosearch/pkg/logutil"
	"github.com/matrixorigin/mosearch/pkg/vm/process"
)

const (
	defaultMemoryLimitPercent = 85
	defaultCheckInterval      = 1
	defaultRetryTimes         = 3
	defaultRetryInterval      = 10 * time.Millisecond
	defaultSampleInterval     = 10 * time.Millisecond
	defaultQuerySizeLimit     = 200
	defaultScrollTimeout      = time.Minute
)

// Parameters of the query engine.
type Parameters struct {
	Log     logutil.LogConfig `toml:"log"`
	Monitor MonitorConfig     `toml:"monitor"`
	Scan    ScanConfig        `toml:"scan"`
}

type MonitorConfig struct {
	// MemoryLimitPercent is the share of host memory the heap may use
	// before protected operators abort the query. default: 85
	MemoryLimitPercent float64 `toml:"memory-limit-percent"`

	// CheckInterval is the number of rows pulled through a protected
	// operator between two checks. default: 1, check on every row.
	CheckInterval int `toml:"check-interval"`

	// RetryTimes is the number of probes before reporting exhaustion. default: 3
	RetryTimes int `toml:"retry-times"`

	RetryInterval Duration `toml:"retry-interval"`

	// SampleInterval is how long a healthy memory sample is reused before
	// the heap is read again. default: 10ms
	SampleInterval Duration `toml:"sample-interval"`
}

type ScanConfig struct {
	// QuerySizeLimit is the page size of plain index scans. default: 200
	QuerySizeLimit int `toml:"query-size-limit"`

	// ScrollTimeout keeps a scroll context alive between pages. default: 1m
	ScrollTimeout Duration `toml:"scroll-timeout"`
}

// SetDefaultValues fills every unset field with its default.
func (p *Parameters) SetDefaultValues() {
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
	if p.Log.Format == "" {
		p.Log.Format = "console"
	}
	if p.Monitor.MemoryLimitPercent == 0 {
		p.Monitor.MemoryLimitPercent = defaultMemoryLimitPercent
	}
	if p.Monitor.CheckInterval == 0 {
		p.Monitor.CheckInterval = defaultCheckInterval
	}
	if p.Monitor.RetryTimes == 0 {
		p.Monitor.RetryTimes = defaultRetryTimes
	}
	if p.Monitor.RetryInterval.Duration == 0 {
		p.Monitor.RetryInterval.Duration = defaultRetryInterval
	}
	if p.Monitor.SampleInterval.Duration == 0 {
		p.Monitor.SampleInterval.Duration = defaultSampleInterval
	}
	if p.Scan.QuerySizeLimit == 0 {
		p.Scan.QuerySizeLimit = defaultQuerySizeLimit
	}
	if p.Scan.ScrollTimeout.Duration == 0 {
		p.Scan.ScrollTimeout.Duration = defaultScrollTimeout
	}
}

// Validate validates the configuration.
func (p *Parameters) Validate() error {
	ctx := context.Background()
	if p.Monitor.MemoryLimitPercent <= 0 || p.Monitor.MemoryLimitPercent > 100 {
		return moerr.NewBadConfig(ctx, "monitor.memory-limit-percent %v not in (0, 100]", p.Monitor.MemoryLimitPercent)
	}
	if p.Monitor.CheckInterval < 1 {
		return moerr.NewBadConfig(ctx, "monitor.check-interval %d must be positive", p.Monitor.CheckInterval)
	}
	if p.Monitor.RetryTimes < 1 {
		return moerr.NewBadConfig(ctx, "monitor.retry-times %d must be positive", p.Monitor.RetryTimes)
	}
	if p.Scan.QuerySizeLimit < 1 {
		return moerr.NewBadConfig(ctx, "scan.query-size-limit %d must be positive", p.Scan.QuerySizeLimit)
	}
	return nil
}

// LoadFile decodes a toml file, fills defaults and validates the result.
func LoadFile(path string) (*Parameters, error) {
	p := &Parameters{}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, moerr.NewBadConfig(context.Background(), "decode %s: %v", path, err)
	}
	return finish(p)
}

// Decode is LoadFile for an in memory document.
func Decode(data string) (*Parameters, error) {
	p := &Parameters{}
	if _, err := toml.Decode(data, p); err != nil {
		return nil, moerr.NewBadConfig(context.Background(), "decode: %v", err)
	}
	return finish(p)
}

// Encode writes p as a toml document that Decode reads back.
func (p *Parameters) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(p)
}

func finish(p *Parameters) (*Parameters, error) {
	p.SetDefaultValues()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewResourceMonitor builds the memory monitor consulted by protected
// operators.
func (p *Parameters) NewResourceMonitor() *rscthrottler.MemoryMonitor {
	return rscthrottler.NewMemoryMonitor("query",
		p.Monitor.MemoryLimitPercent/100,
		rscthrottler.WithRetry(p.Monitor.RetryTimes, p.Monitor.RetryInterval.Duration),
		rscthrottler.WithSampleInterval(p.Monitor.SampleInterval.Duration))
}

func (p *Parameters) Limitation() process.Limitation {
	return process.Limitation{QuerySizeLimit: p.Scan.QuerySizeLimit}
}
