package finance

import (
	"context"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/shared"
)

type CashboxRepository interface {
	shared.Repository[Cashbox]
	FindByCode(ctx context.Context, code string) (*Cashbox, error)
	FindAllOrdered(ctx context.Context) ([]Cashbox, error)
}

type CashboxEntryRepository interface {
	shared.Repository[CashboxEntry]
	FindByCashbox(ctx context.Context, cashboxID uuid.UUID, filter shared.Filter) ([]CashboxEntry, int64, error)
}
