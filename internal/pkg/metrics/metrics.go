package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "permitcheck"

	oracleCallsTotal          = "oracle_calls_total"
	stageTransitionsTotal     = "stage_transitions_total"
	validationRejectionsTotal = "validation_rejections_total"
	sessionsActive            = "sessions_active"

	// Labels
	operationLabel  = "operation"
	outcomeLabel    = "outcome"
	fromStageLabel  = "from"
	toStageLabel    = "to"
	constraintLabel = "constraint"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var oracleCallsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      oracleCallsTotal,
		Help:      "number of remote oracle calls by operation and outcome",
	},
	[]string{operationLabel, outcomeLabel},
)

var stageTransitionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      stageTransitionsTotal,
		Help:      "number of workflow stage transitions",
	},
	[]string{fromStageLabel, toStageLabel},
)

var validationRejectionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      validationRejectionsTotal,
		Help:      "number of uploads rejected before any network call, by failed constraint",
	},
	[]string{constraintLabel},
)

var sessionsActiveMetric = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      sessionsActive,
		Help:      "number of live workflow sessions",
	},
)

func IncreaseOracleCallsMetric(operation, outcome string) {
	oracleCallsTotalMetric.With(prometheus.Labels{
		operationLabel: operation,
		outcomeLabel:   outcome,
	}).Inc()
}

func IncreaseStageTransitionMetric(from, to string) {
	stageTransitionsTotalMetric.With(prometheus.Labels{
		fromStageLabel: from,
		toStageLabel:   to,
	}).Inc()
}

func IncreaseValidationRejectionMetric(constraint string) {
	validationRejectionsTotalMetric.With(prometheus.Labels{
		constraintLabel: constraint,
	}).Inc()
}

func UpdateSessionsActiveMetric(count int) {
	sessionsActiveMetric.Set(float64(count))
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(oracleCallsTotalMetric)
	prometheus.MustRegister(stageTransitionsTotalMetric)
	prometheus.MustRegister(validationRejectionsTotalMetric)
	prometheus.MustRegister(sessionsActiveMetric)
}
