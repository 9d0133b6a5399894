package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/keycloak"
	"github.com/ablecloud-team/ablecloud-crm/services/gateway/internal/client"
)

// CustomerService serves the customer detail view
type CustomerService interface {
	GetCustomer(ctx context.Context, caller Caller, id string) (map[string]interface{}, error)
}

type customerService struct {
	proxy     ProxyService
	customers *Entity
	idp       client.IdentityProvider
	companies client.CompanyDirectory
	logger    *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(proxy ProxyService, customers *Entity, idp client.IdentityProvider, companies client.CompanyDirectory, logger *zap.Logger) CustomerService {
	return &customerService{proxy: proxy, customers: customers, idp: idp, companies: companies, logger: logger}
}

// GetCustomer returns the customer with its manager's name, type and company.
// Manager lookups that fail leave those fields out.
func (s *customerService) GetCustomer(ctx context.Context, caller Caller, id string) (map[string]interface{}, error) {
	raw, err := s.proxy.Get(ctx, s.customers, caller, id)
	if err != nil {
		return nil, err
	}

	customer := map[string]interface{}{}
	if err := json.Unmarshal(raw, &customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}

	managerID, _ := customer["manager_id"].(string)
	if managerID == "" {
		return customer, nil
	}

	var manager *keycloak.User
	err = withServiceToken(ctx, s.idp, func(token string) error {
		var err error
		manager, err = s.idp.GetUser(ctx, token, managerID)
		return err
	})
	if err != nil {
		level := s.logger.Warn
		if errors.Is(err, keycloak.ErrNotFound) {
			level = s.logger.Debug
		}
		level("Customer manager lookup failed",
			zap.String("customer_id", id),
			zap.String("manager_id", managerID),
			zap.Error(err),
		)
		return customer, nil
	}

	managerType := manager.Attr("type")
	companyID := manager.Attr("company_id")
	customer["manager_name"] = manager.Username
	customer["manager_type"] = managerType
	customer["manager_company_id"] = companyID

	company, err := s.companies.CompanyName(ctx, managerType, companyID, caller.Token)
	if err != nil {
		s.logger.Warn("Customer manager company lookup failed",
			zap.String("customer_id", id),
			zap.String("type", managerType),
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return customer, nil
	}
	customer["manager_company"] = company
	return customer, nil
}
