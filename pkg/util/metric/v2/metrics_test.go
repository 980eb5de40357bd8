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

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	ExecResourceExhaustedCounter.Inc()
	PlanPushDownRuleCounter.WithLabelValues("test_rule").Inc()

	families, err := GetPrometheusGatherer().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	require.True(t, names["mo_exec_resource_exhausted_total"])
	require.True(t, names["mo_plan_push_down_rule_applied_total"])
	require.Equal(t, 1.0, testutil.ToFloat64(PlanPushDownRuleCounter.WithLabelValues("test_rule")))
	require.NotNil(t, GetPrometheusRegistry())
}
