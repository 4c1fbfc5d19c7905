package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is created without a meter
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Registration outcomes
const (
	OutcomeRegistered = "registered"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
	OutcomePartial    = "partial"
)

// HandleMetrics records handle registration attempts and registry round trips.
type HandleMetrics struct {
	registrations      *Counter
	submissionDuration *Histogram
}

// NewHandleMetrics registers the handle registration instruments on meter
func NewHandleMetrics(meter metric.Meter) (*HandleMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	registrations, err := NewCounter(
		meter,
		"pidreg_handle_registrations_total",
		"Total number of handle registration attempts by outcome",
		"{attempts}",
	)
	if err != nil {
		return nil, err
	}

	submissionDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "pidreg_handle_submission_duration_seconds",
		Description: "Duration of handle submissions to the registry",
		Unit:        "s",
		Boundaries:  SubmissionDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &HandleMetrics{
		registrations:      registrations,
		submissionDuration: submissionDuration,
	}, nil
}

// RecordRegistration counts one registration attempt. category is empty on success.
func (m *HandleMetrics) RecordRegistration(ctx context.Context, outcome, category string) {
	attrs := []attribute.KeyValue{AttrOutcome.String(outcome)}
	if category != "" {
		attrs = append(attrs, AttrCategory.String(category))
	}
	m.registrations.Inc(ctx, attrs...)
}

// RecordSubmission records the duration of one registry request
func (m *HandleMetrics) RecordSubmission(ctx context.Context, serverName string, d time.Duration, err error) {
	outcome := OutcomeRegistered
	if err != nil {
		outcome = OutcomeFailed
	}
	m.submissionDuration.RecordDuration(ctx, d,
		AttrServerName.String(serverName),
		AttrOutcome.String(outcome),
	)
}
