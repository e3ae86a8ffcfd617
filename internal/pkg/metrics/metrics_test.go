package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestIncreaseOracleCallsMetric(t *testing.T) {
	before := testutil.ToFloat64(oracleCallsTotalMetric.WithLabelValues("checkFeasibility", OutcomeSuccess))
	IncreaseOracleCallsMetric("checkFeasibility", OutcomeSuccess)
	after := testutil.ToFloat64(oracleCallsTotalMetric.WithLabelValues("checkFeasibility", OutcomeSuccess))

	assert.Equal(t, before+1, after)
}

func TestIncreaseStageTransitionMetric(t *testing.T) {
	before := testutil.ToFloat64(stageTransitionsTotalMetric.WithLabelValues("intake", "assessment"))
	IncreaseStageTransitionMetric("intake", "assessment")
	after := testutil.ToFloat64(stageTransitionsTotalMetric.WithLabelValues("intake", "assessment"))

	assert.Equal(t, before+1, after)
}

func TestUpdateSessionsActiveMetric(t *testing.T) {
	UpdateSessionsActiveMetric(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(sessionsActiveMetric))
}
