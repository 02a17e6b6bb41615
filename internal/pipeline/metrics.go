package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taqrir_jobs_started_total",
		Help: "Report jobs started.",
	})
	jobsSucceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taqrir_jobs_succeeded_total",
		Help: "Report jobs that produced a report.",
	})
	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taqrir_jobs_failed_total",
		Help: "Report jobs that ended in failure.",
	})
	articlesSelected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taqrir_articles_selected_total",
		Help: "Articles that survived diversity selection.",
	})
	factsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "taqrir_facts_extracted_total",
		Help: "Facts extracted from article content.",
	})
)
