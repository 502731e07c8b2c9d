// Package metrics exposes the service's Prometheus counters.
package metrics

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	pageViews       *prometheus.CounterVec
	enquiries       *prometheus.CounterVec
	sectionSaves    *prometheus.CounterVec
	imageUploads    *prometheus.CounterVec
	saveDurationSec prometheus.Histogram
)

func initMetrics() {
	once.Do(func() {
		pageViews = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Name:      "page_views_total",
			Help:      "Public landing page renders",
		}, []string{"format"})

		enquiries = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Name:      "enquiries_total",
			Help:      "Enquiry submissions by outcome",
		}, []string{"status"})

		sectionSaves = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Subsystem: "editor",
			Name:      "saves_total",
			Help:      "Section document saves by outcome",
		}, []string{"status"})

		imageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "landing",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Image uploads by storage backend and outcome",
		}, []string{"storage", "status"})

		saveDurationSec = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "landing",
			Subsystem: "editor",
			Name:      "save_duration_seconds",
			Help:      "Time spent persisting a section document",
			Buckets:   prometheus.DefBuckets,
		})
	})
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// PageViewed counts a public render; format is "html" or "json".
func PageViewed(format string) {
	initMetrics()
	pageViews.WithLabelValues(format).Inc()
}

func EnquiryReceived(err error) {
	initMetrics()
	enquiries.WithLabelValues(status(err)).Inc()
}

func SectionsSaved(seconds float64, err error) {
	initMetrics()
	sectionSaves.WithLabelValues(status(err)).Inc()
	if err == nil {
		saveDurationSec.Observe(seconds)
	}
}

func ImageUploaded(storage string, err error) {
	initMetrics()
	imageUploads.WithLabelValues(storage, status(err)).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	initMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
