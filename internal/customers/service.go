package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/storekeeper/connector/internal/connection"
	"github.com/storekeeper/connector/pkg/db/models"
	pkgerrors "github.com/storekeeper/connector/pkg/errors"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/storekeeper"
	"github.com/storekeeper/connector/pkg/types"
)

// RemoteRelations is the remote customer surface the service consumes.
type RemoteRelations interface {
	FindShopCustomerBySubuserEmail(ctx context.Context, email string) (int64, error)
	NewShopCustomer(ctx context.Context, payload storekeeper.RelationPayload) (int64, error)
}

// ModuleSource hands out a remote relation handle per store.
type ModuleSource interface {
	RelationModule(ctx context.Context, storeID uuid.UUID) (RemoteRelations, error)
}

// ConnectionModules adapts the connection service to the module source.
type ConnectionModules struct {
	connections *connection.Service
}

// NewConnectionModules wraps the connection service.
func NewConnectionModules(connections *connection.Service) *ConnectionModules {
	return &ConnectionModules{connections: connections}
}

// RelationModule returns the shop module for the store.
func (m *ConnectionModules) RelationModule(ctx context.Context, storeID uuid.UUID) (RemoteRelations, error) {
	module, err := m.connections.ShopModule(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return module, nil
}

// Service syncs storefront customers to remote relations.
type Service struct {
	modules ModuleSource
	logger  *logger.Logger
}

// NewService builds the customer sync service.
func NewService(modules ModuleSource, logg *logger.Logger) (*Service, error) {
	if modules == nil {
		return nil, fmt.Errorf("module source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{modules: modules, logger: logg}, nil
}

// FindRelationDataIDByEmail looks up the remote relation for a customer
// email. An absent relation is a normal outcome and returns zero; only real
// failures surface as errors.
func (s *Service) FindRelationDataIDByEmail(ctx context.Context, storeID uuid.UUID, email string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	remote, err := s.modules.RelationModule(ctx, storeID)
	if err != nil {
		return 0, err
	}

	relationID, err := remote.FindShopCustomerBySubuserEmail(ctx, email)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			s.logger.Info(s.logger.WithStoreID(ctx, storeID.String()), "no remote relation for customer email")
			return 0, nil
		}
		return 0, err
	}
	return relationID, nil
}

// CreateFromOrder creates a remote relation from the order's customer and
// address data and returns the new relation id.
func (s *Service) CreateFromOrder(ctx context.Context, order *models.Order) (int64, error) {
	if order == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order is required")
	}
	if strings.TrimSpace(order.CustomerEmail) == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "order has no customer email")
	}

	remote, err := s.modules.RelationModule(ctx, order.StoreID)
	if err != nil {
		return 0, err
	}

	relationID, err := remote.NewShopCustomer(ctx, relationFromOrder(order))
	if err != nil {
		return 0, err
	}

	ctx = s.logger.WithStoreID(ctx, order.StoreID.String())
	s.logger.Info(s.logger.WithField(ctx, "relation_data_id", relationID), "remote relation created")
	return relationID, nil
}

// relationFromOrder maps the order's customer and addresses onto the remote
// relation shape. A billing company name makes the relation a business.
func relationFromOrder(order *models.Order) storekeeper.RelationPayload {
	billing := order.BillingAddress
	contactName := types.ComposeName(order.CustomerFirstname, order.CustomerMiddlename, order.CustomerLastname)
	if contactName == "" {
		contactName = billing.ContactName()
	}

	contactSet := storekeeper.ContactSet{
		Email: order.CustomerEmail,
		Phone: billing.Telephone,
		Name:  contactName,
	}

	relation := storekeeper.Relation{
		ContactPerson: storekeeper.ContactPerson{
			Familyname: order.CustomerLastname,
			Firstname:  order.CustomerFirstname,
			ContactSet: contactSet,
		},
		ContactSet:     contactSet,
		AddressBilling: snapshotFromAddress(billing),
		Subuser: storekeeper.Subuser{
			Login: order.CustomerEmail,
			Email: order.CustomerEmail,
		},
	}

	if company := strings.TrimSpace(billing.Company); company != "" {
		relation.BusinessData = &storekeeper.BusinessData{
			Name:        company,
			CountryISO2: billing.CountryISO2,
		}
	}

	if order.ShippingAddress != nil && !order.ShippingAddress.IsZero() {
		relation.ContactAddress = snapshotFromAddress(*order.ShippingAddress)
	} else {
		relation.ContactAddress = snapshotFromAddress(billing)
	}

	return storekeeper.RelationPayload{Relation: relation}
}

func snapshotFromAddress(address types.OrderAddress) *storekeeper.AddressSnapshot {
	if address.IsZero() {
		return nil
	}
	street, number := types.SplitStreet(address.Street)
	return &storekeeper.AddressSnapshot{
		Name:         address.ContactName(),
		City:         address.City,
		Zipcode:      address.Postcode,
		Street:       street,
		Streetnumber: number,
		CountryISO2:  address.CountryISO2,
	}
}
