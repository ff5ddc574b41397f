package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the onboarding instruments. A nil *Metrics is valid and all
// record methods are no-ops, so callers run unchanged without a configured
// meter provider.
type Metrics struct {
	stepSubmissions metric.Int64Counter
	gateDenials     metric.Int64Counter
	intakes         metric.Int64Counter
}

// NewMetrics creates the onboarding counters on the given meter provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter("applicant-onboarding/backend")

	stepSubmissions, err := meter.Int64Counter("onboarding.step.submissions",
		metric.WithDescription("Accepted step submissions, by step number"))
	if err != nil {
		return nil, err
	}
	gateDenials, err := meter.Int64Counter("onboarding.gate.denials",
		metric.WithDescription("Access gate denials, by reason"))
	if err != nil {
		return nil, err
	}
	intakes, err := meter.Int64Counter("onboarding.intakes",
		metric.WithDescription("New submissions created through the intake form"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		stepSubmissions: stepSubmissions,
		gateDenials:     gateDenials,
		intakes:         intakes,
	}, nil
}

// RecordStepSubmission counts one accepted step submission.
func (m *Metrics) RecordStepSubmission(ctx context.Context, step int) {
	if m == nil {
		return
	}
	m.stepSubmissions.Add(ctx, 1, metric.WithAttributes(attribute.Int("step", step)))
}

// RecordGateDenial counts one denied access check.
func (m *Metrics) RecordGateDenial(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.gateDenials.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// RecordIntake counts one new submission.
func (m *Metrics) RecordIntake(ctx context.Context) {
	if m == nil {
		return
	}
	m.intakes.Add(ctx, 1)
}
