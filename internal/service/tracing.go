package service

import (
	"context"
	"errors"

	"shareit/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("shareit/internal/service")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan closes span, marking it failed only for unexpected errors;
// domain rejections are ordinary outcomes.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if !isDomainError(err) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func isDomainError(err error) bool {
	for _, kind := range []error{
		domain.ErrNotFound,
		domain.ErrAccessDenied,
		domain.ErrItemUnavailable,
		domain.ErrBookingUnavailable,
		domain.ErrValidation,
		domain.ErrConflict,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
