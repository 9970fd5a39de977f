// Package metadata defines the headers that carry request context across the
// DuelService gRPC boundary.
package metadata

import (
	"context"
	"strings"

	"github.com/louisbranch/spellduel/internal/platform/id"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	// RequestIDHeader is the gRPC metadata key for request correlation IDs.
	RequestIDHeader = "x-spellduel-request-id"
	// InvocationIDHeader is the gRPC metadata key for MCP tool invocation IDs.
	InvocationIDHeader = "x-spellduel-invocation-id"
	// LocaleHeader selects the language of localized error messages.
	LocaleHeader = "x-spellduel-locale"
)

type contextKey string

const requestIDContextKey contextKey = "spellduel-request-id"

// RequestIDFromContext returns the request ID stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey).(string)
	return value
}

// WithRequestID stores the request ID in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// LocaleFromContext returns the caller locale from incoming metadata.
func LocaleFromContext(ctx context.Context) string {
	return incomingValue(ctx, LocaleHeader)
}

// InvocationIDFromContext returns the invocation ID from incoming metadata.
func InvocationIDFromContext(ctx context.Context) string {
	return incomingValue(ctx, InvocationIDHeader)
}

// WithOutgoing appends non-empty header values to outgoing metadata.
func WithOutgoing(ctx context.Context, kv map[string]string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	var pairs []string
	for key, value := range kv {
		if value = strings.TrimSpace(value); value != "" && IsPrintableASCII(value) {
			pairs = append(pairs, key, value)
		}
	}
	if len(pairs) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, pairs...)
}

// IsPrintableASCII reports whether a string contains only printable ASCII characters.
func IsPrintableASCII(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < 0x20 || value[i] > 0x7e {
			return false
		}
	}
	return true
}

// FirstMetadataValue returns the first printable ASCII metadata value for a key.
func FirstMetadataValue(md metadata.MD, key string) string {
	for mdKey, values := range md {
		if !strings.EqualFold(mdKey, key) {
			continue
		}
		for _, value := range values {
			if IsPrintableASCII(value) {
				return value
			}
		}
	}
	return ""
}

// UnaryServerInterceptor guarantees every unary call a request ID, echoes it
// in the response header and tags the active span with it.
func UnaryServerInterceptor(idGenerator func() (string, error)) grpc.UnaryServerInterceptor {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := incomingValue(ctx, RequestIDHeader)
		if requestID == "" {
			generated, err := idGenerator()
			if err != nil {
				return nil, status.Errorf(codes.Internal, "ensure request metadata: %v", err)
			}
			requestID = generated
		}
		ctx = WithRequestID(ctx, requestID)
		if err := grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID)); err != nil {
			return nil, status.Errorf(codes.Internal, "set response metadata: %v", err)
		}
		attrs := []attribute.KeyValue{attribute.String("spellduel.request_id", requestID)}
		if invocationID := InvocationIDFromContext(ctx); invocationID != "" {
			attrs = append(attrs, attribute.String("spellduel.invocation_id", invocationID))
		}
		trace.SpanFromContext(ctx).SetAttributes(attrs...)
		return handler(ctx, req)
	}
}

func incomingValue(ctx context.Context, key string) string {
	if ctx == nil {
		return ""
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	return FirstMetadataValue(md, key)
}
