// Salonkeeper - Salon Customer Records and Treatment Photo Archive
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonkeeper

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
	operationKey     contextKey = "operation"
)

// GenerateCorrelationID returns a short id, the first 8 characters of a UUID.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a full UUID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns ctx carrying id as correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID attaches a freshly generated correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns "" when no correlation ID is set.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns ctx carrying the HTTP request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when no request ID is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithOperation tags ctx with a backup operation name
// ("snapshot", "restore", "validate", "prune"), emitted by Ctx.
func ContextWithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns "" when no operation is set.
func OperationFromContext(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok {
		return op
	}
	return ""
}

// Ctx returns the global logger enriched with correlation_id, request_id
// and operation when present in ctx.
//
//	logging.Ctx(ctx).Info().Msg("Restore finished")
func Ctx(ctx context.Context) *zerolog.Logger {
	return CtxWith(ctx, Logger())
}

// CtxWith enriches base, typically a component logger, the way Ctx
// enriches the global logger.
func CtxWith(ctx context.Context, base zerolog.Logger) *zerolog.Logger {
	logCtx := base.With()

	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}
	if op := OperationFromContext(ctx); op != "" {
		logCtx = logCtx.Str("operation", op)
	}

	logger := logCtx.Logger()
	return &logger
}

// WithComponent creates a child logger tagged with a component field.
//
//	log := logging.WithComponent("restore")
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
