package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/spellduel/internal/platform/id"
	"github.com/louisbranch/spellduel/internal/services/duel/api/grpc/metadata"
)

// NewInvocationID returns an identifier for one tool invocation.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// newCallContext bounds a DuelService call and tags it with a fresh
// invocation ID.
func newCallContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	invocationID, err := NewInvocationID()
	if err != nil {
		return nil, nil, fmt.Errorf("generate invocation id: %w", err)
	}
	runCtx, cancel := context.WithTimeout(ctx, grpcCallTimeout)
	return metadata.WithOutgoing(runCtx, map[string]string{metadata.InvocationIDHeader: invocationID}), cancel, nil
}
