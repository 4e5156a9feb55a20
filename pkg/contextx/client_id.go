package contextx

import (
	"context"
	"fmt"
)

type ClientID string

type contextKeyClientID struct{}

func (c ClientID) String() string {
	return string(c)
}

func WithClientID(ctx context.Context, clientID ClientID) context.Context {
	return context.WithValue(ctx, contextKeyClientID{}, clientID)
}

func ClientIDFromContext(ctx context.Context) (ClientID, error) {
	clientID, ok := ctx.Value(contextKeyClientID{}).(ClientID)
	if !ok {
		return "", fmt.Errorf("client id: %w", ErrNoValue)
	}

	return clientID, nil
}
