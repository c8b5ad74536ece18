// Package services – queue depth metrics.
//
// The pending-consultations gauge is recomputed from the queue table after
// every submit, claim, and cancellation. Recomputing (rather than
// incrementing) keeps the gauge honest across restarts and lost races.
package services

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/tbourn/go-consult-backend/internal/repo"
)

// queuePending gauges the number of PENDING consultations per priority
// bucket. The bucket label is a small int, so cardinality is bounded by the
// configured tier count.
var queuePending = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "consultation_queue_pending",
		Help: "Number of pending consultations per priority bucket.",
	},
	[]string{"bucket"},
)

func init() {
	prometheus.MustRegister(queuePending)
}

// refreshQueueGauge recomputes the per-bucket queue depth. Best effort: a
// failed refresh leaves the previous values in place and is not surfaced to
// the caller, since the triggering operation has already committed.
func refreshQueueGauge(ctx context.Context, db *gorm.DB) {
	rows, err := repo.CountQueueByBucket(ctx, db)
	if err != nil {
		return
	}
	queuePending.Reset()
	for _, r := range rows {
		queuePending.WithLabelValues(strconv.Itoa(r.PriorityBucket)).Set(float64(r.Count))
	}
}
