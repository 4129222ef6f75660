package ctxutil

import (
	"context"
	"time"

	"github.com/Payphone-Digital/review-platform/internal/constants"
)

const (
	requestIDKey     = constants.CtxKeyRequestID
	userIDKey        = constants.CtxKeyUserID
	clientIPKey      = constants.CtxKeyClientIP
	correlationIDKey = constants.CtxKeyCorrelationID
	startTimeKey     = constants.CtxKeyStartTime
	moduleKey        = constants.CtxKeyModule
	functionKey      = constants.CtxKeyFunction
)

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// WithFunction tags ctx with the layer and function that is handling it.
func WithFunction(ctx context.Context, module, function string) context.Context {
	ctx = context.WithValue(ctx, moduleKey, module)
	return context.WithValue(ctx, functionKey, function)
}

// Getter functions
func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(requestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetCorrelationID(ctx context.Context) string {
	if val, ok := ctx.Value(correlationIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(clientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserID(ctx context.Context) (uint, bool) {
	if val, ok := ctx.Value(userIDKey).(uint); ok {
		return val, true
	}
	return 0, false
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(startTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

func GetModule(ctx context.Context) string {
	if val, ok := ctx.Value(moduleKey).(string); ok {
		return val
	}
	return ""
}

func GetFunction(ctx context.Context) string {
	if val, ok := ctx.Value(functionKey).(string); ok {
		return val
	}
	return ""
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

// NewRequestContext stores the request tracking values set by the context
// middleware.
func NewRequestContext(ctx context.Context, requestID, correlationID, clientIP string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = context.WithValue(ctx, requestIDKey, requestID)
	ctx = context.WithValue(ctx, correlationIDKey, correlationID)
	ctx = context.WithValue(ctx, clientIPKey, clientIP)

	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, startTimeKey, time.Now())
	}

	return ctx
}

// NewContextWithRequest tags a handler context with module and function
func NewContextWithRequest(ctx context.Context, module, function string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	ctx = WithFunction(ctx, module, function)

	if GetStartTime(ctx).IsZero() {
		ctx = context.WithValue(ctx, startTimeKey, time.Now())
	}

	return ctx
}
