package quiz

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quiz_cache_hits_total",
		Help: "Quiz requests served from the diversity cache.",
	})
	generations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quiz_generations_total",
		Help: "Fresh quiz generations by outcome.",
	}, []string{"outcome"})
)
