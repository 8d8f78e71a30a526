package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of the Recommend HTTP handler
	RecommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshelf_recommend_latency_seconds",
		Help:    "Latency of the recommendations handler",
		Buckets: prometheus.DefBuckets,
	})

	// Recommendations served, split by ranking path
	RecommendServed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_recommendations_served_total",
		Help: "Total recommendation responses served, by mode",
	}, []string{"mode"})

	RatingsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_ratings_submitted_total",
		Help: "Total live ratings accepted into the overlay store",
	})

	SimilarLookups = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_similar_lookups_total",
		Help: "Total similar-books lookups",
	})

	// How often the similarity matrix had no row for the asked title
	SimilarMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_similar_misses_total",
		Help: "Similar-books lookups for titles outside the similarity matrix",
	})

	PopularCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bookshelf_popular_cache_hits_total",
		Help: "Popular-list requests answered from the Redis cache",
	})
)

func Init() {
	prometheus.MustRegister(
		RecommendLatency,
		RecommendServed,
		RatingsSubmitted,
		SimilarLookups,
		SimilarMisses,
		PopularCacheHits,
	)
}
