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

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	resourceCheckCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "resource",
			Name:      "check_total",
			Help:      "Total number of resource monitor checks.",
		}, []string{"result"})

	ResourceCheckHealthyCounter   = resourceCheckCounter.WithLabelValues("healthy")
	ResourceCheckUnhealthyCounter = resourceCheckCounter.WithLabelValues("unhealthy")

	ResourceMemoryUsageGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mo",
			Subsystem: "resource",
			Name:      "memory_usage_bytes",
			Help:      "Heap in use observed by the last memory check.",
		})
)

var (
	ExecResourceExhaustedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "exec",
			Name:      "resource_exhausted_total",
			Help:      "Total number of queries aborted by the resource monitor.",
		})

	ExecProtectedOperatorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "exec",
			Name:      "protected_operator_total",
			Help:      "Total number of operators wrapped by the execution protector.",
		}, []string{"type"})

	ExecQueryDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "exec",
			Name:      "query_duration_seconds",
			Help:      "Bucketed histogram of physical plan execution duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2.0, 20),
		})
)

var (
	ScanRequestDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "scan",
			Name:      "request_duration_seconds",
			Help:      "Bucketed histogram of backend search request duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2.0, 20),
		})

	ScanRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "scan",
			Name:      "rows_total",
			Help:      "Total number of rows returned by table scans.",
		})

	ScanErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "scan",
			Name:      "error_total",
			Help:      "Total number of failed backend search requests.",
		})
)

var (
	PlanPushDownRuleCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "plan",
			Name:      "push_down_rule_applied_total",
			Help:      "Total number of applied push down rules.",
		}, []string{"rule"})
)

func initResourceMetrics() {
	registry.MustRegister(resourceCheckCounter)
	registry.MustRegister(ResourceMemoryUsageGauge)
}

func initExecMetrics() {
	registry.MustRegister(ExecResourceExhaustedCounter)
	registry.MustRegister(ExecProtectedOperatorCounter)
	registry.MustRegister(ExecQueryDurationHistogram)
}

func initScanMetrics() {
	registry.MustRegister(ScanRequestDurationHistogram)
	registry.MustRegister(ScanRowsCounter)
	registry.MustRegister(ScanErrorCounter)
}

func initPlanMetrics() {
	registry.MustRegister(PlanPushDownRuleCounter)
}
