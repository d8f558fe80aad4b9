package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proofbot_submissions_started_total",
		Help: "Total number of submission workflows started.",
	})

	SubmissionsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proofbot_submissions_completed_total",
		Help: "Total number of submissions that reached the finished state.",
	})

	SubmissionsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proofbot_submissions_cancelled_total",
		Help: "Total number of submissions cancelled by the user.",
	})

	UploadsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proofbot_uploads_failed_total",
		Help: "Total number of media files that failed to upload to remote storage.",
	})

	ReportsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "proofbot_reports_published_total",
		Help: "Total number of reports published to the company group.",
	})

	ActiveSubmissions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "proofbot_active_submissions",
		Help: "Current number of in-progress submissions.",
	})
)
