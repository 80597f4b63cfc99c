// Package observability registers service-level Prometheus metrics.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	userRegisteredGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "persistence",
		Name:      "last_user_registered_timestamp_seconds",
		Help:      "Unix timestamp of the most recent user persisted to Postgres.",
	})
	exerciseLoggedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tracker",
		Subsystem: "persistence",
		Name:      "last_exercise_logged_timestamp_seconds",
		Help:      "Unix timestamp of the most recent exercise persisted to Postgres.",
	})
	usersCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tracker",
		Subsystem: "persistence",
		Name:      "users_created_total",
		Help:      "Number of user records created since process start.",
	})
	exercisesCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tracker",
		Subsystem: "persistence",
		Name:      "exercises_created_total",
		Help:      "Number of exercise records created since process start.",
	})
)

func init() {
	prometheus.MustRegister(userRegisteredGauge, exerciseLoggedGauge, usersCreatedCounter, exercisesCreatedCounter)
}

// RecordUserRegistered updates the user persistence watermark.
func RecordUserRegistered(ts time.Time) {
	if ts.IsZero() {
		return
	}
	userRegisteredGauge.Set(float64(ts.Unix()))
	usersCreatedCounter.Inc()
}

// RecordExerciseLogged updates the exercise persistence watermark.
func RecordExerciseLogged(ts time.Time) {
	if ts.IsZero() {
		return
	}
	exerciseLoggedGauge.Set(float64(ts.Unix()))
	exercisesCreatedCounter.Inc()
}
