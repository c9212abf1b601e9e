package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/internal/connection"
)

// ConnectionModules adapts the connection service to the orchestrator's
// module source. Each call builds a fresh remote handle from the store's
// current credentials.
type ConnectionModules struct {
	connections *connection.Service
}

// NewConnectionModules wraps the connection service.
func NewConnectionModules(connections *connection.Service) *ConnectionModules {
	return &ConnectionModules{connections: connections}
}

// CheckoutModule returns the shop module for the store.
func (m *ConnectionModules) CheckoutModule(ctx context.Context, storeID uuid.UUID) (RemoteCheckout, error) {
	module, err := m.connections.ShopModule(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return module, nil
}
