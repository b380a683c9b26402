package partner

import (
	"context"

	"github.com/mjpos/backend/internal/domain/shared"
)

type CustomerRepository interface {
	shared.Repository[Customer]
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Search(ctx context.Context, query string, filter shared.Filter) ([]Customer, int64, error)
}

type SupplierRepository interface {
	shared.Repository[Supplier]
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByName(ctx context.Context, name string) (*Supplier, error)
	Search(ctx context.Context, query string, filter shared.Filter) ([]Supplier, int64, error)
}
