package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/shared"
)

// PartnerService covers customer and supplier bookkeeping.
type PartnerService struct {
	customers partner.CustomerRepository
	suppliers partner.SupplierRepository
}

func NewPartnerService(customers partner.CustomerRepository, suppliers partner.SupplierRepository) *PartnerService {
	return &PartnerService{customers: customers, suppliers: suppliers}
}

func (s *PartnerService) CreateCustomer(ctx context.Context, req CreatePartnerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(req.Name, req.Phone, req.Note)
	if err != nil {
		return nil, err
	}
	if customer.Phone != "" {
		exists, err := s.customers.ExistsByPhone(ctx, customer.Phone)
		if err != nil {
			return nil, fmt.Errorf("checking phone: %w", err)
		}
		if exists {
			return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists,
				"a customer with phone %q already exists", customer.Phone)
		}
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("saving customer: %w", err)
	}
	return NewCustomerResponse(customer), nil
}

func (s *PartnerService) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewCustomerResponse(customer), nil
}

func (s *PartnerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdatePartnerRequest) (*CustomerResponse, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, req.Phone, req.Note); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("saving customer: %w", err)
	}
	return NewCustomerResponse(customer), nil
}

func (s *PartnerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.customers.Delete(ctx, id)
}

func (s *PartnerService) ListCustomers(ctx context.Context, req ListPartnersRequest) (*shared.Paginated[CustomerResponse], error) {
	filter := paginationFilter(req)
	customers, total, err := s.customers.Search(ctx, req.Search, filter)
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	responses := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, *NewCustomerResponse(&customers[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

func (s *PartnerService) CreateSupplier(ctx context.Context, req CreatePartnerRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(req.Name, req.Phone, req.Note)
	if err != nil {
		return nil, err
	}
	exists, err := s.suppliers.ExistsByName(ctx, supplier.Name)
	if err != nil {
		return nil, fmt.Errorf("checking name: %w", err)
	}
	if exists {
		return nil, shared.NewDomainErrorf(shared.CodeAlreadyExists,
			"a supplier named %q already exists", supplier.Name)
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("saving supplier: %w", err)
	}
	return NewSupplierResponse(supplier), nil
}

func (s *PartnerService) GetSupplier(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewSupplierResponse(supplier), nil
}

func (s *PartnerService) UpdateSupplier(ctx context.Context, id uuid.UUID, req UpdatePartnerRequest) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.Phone, req.Note); err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("saving supplier: %w", err)
	}
	return NewSupplierResponse(supplier), nil
}

func (s *PartnerService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return s.suppliers.Delete(ctx, id)
}

func (s *PartnerService) ListSuppliers(ctx context.Context, req ListPartnersRequest) (*shared.Paginated[SupplierResponse], error) {
	filter := paginationFilter(req)
	suppliers, total, err := s.suppliers.Search(ctx, req.Search, filter)
	if err != nil {
		return nil, fmt.Errorf("listing suppliers: %w", err)
	}
	responses := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		responses = append(responses, *NewSupplierResponse(&suppliers[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

func paginationFilter(req ListPartnersRequest) shared.Filter {
	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset
	return filter
}
