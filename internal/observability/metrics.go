package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("github.com/immobarok/mailbox-backend")

var (
	authEvents, _ = meter.Int64Counter("auth_events_total",
		metric.WithDescription("Authentication flow events by operation and outcome"))
	repoOps, _ = meter.Int64Counter("repository_operations_total",
		metric.WithDescription("Repository operations by entity, operation and outcome"))
	mailEvents, _ = meter.Int64Counter("mail_dispatch_total",
		metric.WithDescription("Verification mail dispatch outcomes"))
)

// RecordAuthEvent counts one auth-flow event, e.g. ("register", "conflict").
func RecordAuthEvent(ctx context.Context, operation, outcome string) {
	authEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordRepositoryOperation(ctx context.Context, entity, operation, outcome string) {
	repoOps.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}

func RecordMailDispatch(ctx context.Context, outcome string) {
	mailEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}
