package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	atomsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atomspace_atoms_created_total",
		Help: "Atoms inserted, by family (node, link).",
	}, []string{"family"})

	dedupHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atomspace_dedup_hits_total",
		Help: "Creation requests answered with an existing atom, by family.",
	}, []string{"family"})

	atomsMerged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atomspace_consolidation_merged_total",
		Help: "Atoms removed by consolidation merges.",
	})

	consolidationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "atomspace_consolidation_duration_seconds",
		Help:    "Wall time of a consolidation pass, including staging and verification.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})
)

func family(isNode bool) string {
	if isNode {
		return "node"
	}
	return "link"
}
