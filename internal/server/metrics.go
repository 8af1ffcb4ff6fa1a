package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "breachlens_analyses_total",
		Help: "Breach analyses by outcome.",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "breachlens_analysis_duration_seconds",
		Help:    "Wall time of one analysis invocation.",
		Buckets: prometheus.DefBuckets,
	})

	analyzedRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "breachlens_analyzed_records",
		Help:    "Records per analyzed dataset.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 8),
	})

	lastRiskScore = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "breachlens_last_risk_score",
		Help: "Composite risk score of the most recent analysis.",
	})
)
