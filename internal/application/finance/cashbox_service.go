package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/shared"
)

type CashboxResponse struct {
	ID      uuid.UUID       `json:"id"`
	Code    string          `json:"code"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}

type EntryResponse struct {
	ID        uuid.UUID       `json:"id"`
	CashboxID uuid.UUID       `json:"cashbox_id"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source"`
	RefID     *uuid.UUID      `json:"ref_id,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type ListEntriesRequest struct {
	Kind   string `form:"kind"`
	Source string `form:"source"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

type ManualEntryRequest struct {
	Kind   string          `json:"kind" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note"`
}

// CashboxService manages the shop's cash drawers and their ledgers.
type CashboxService struct {
	scope appinventory.TransactionScope
}

func NewCashboxService(scope appinventory.TransactionScope) *CashboxService {
	return &CashboxService{scope: scope}
}

func (s *CashboxService) List(ctx context.Context) ([]CashboxResponse, error) {
	var responses []CashboxResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		boxes, err := repos.Cashboxes().FindAllOrdered(ctx)
		if err != nil {
			return err
		}
		for i := range boxes {
			responses = append(responses, CashboxResponse{
				ID:      boxes[i].ID,
				Code:    boxes[i].Code,
				Name:    boxes[i].Name,
				Balance: boxes[i].Balance,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing cashboxes: %w", err)
	}
	return responses, nil
}

func (s *CashboxService) Entries(ctx context.Context, code string, req ListEntriesRequest) (*shared.Paginated[EntryResponse], error) {
	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset
	if req.Kind != "" {
		filter.WithFilter("kind", req.Kind)
	}
	if req.Source != "" {
		filter.WithFilter("source", req.Source)
	}

	var (
		entries []finance.CashboxEntry
		total   int64
	)
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		box, err := repos.Cashboxes().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		entries, total, err = repos.CashboxEntries().FindByCashbox(ctx, box.ID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}

	responses := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		responses = append(responses, EntryResponse{
			ID:        e.ID,
			CashboxID: e.CashboxID,
			Kind:      string(e.Kind),
			Amount:    e.Amount,
			Source:    string(e.Source),
			RefID:     e.RefID,
			Note:      e.Note,
			CreatedAt: e.CreatedAt,
		})
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

// RecordManualEntry books a hand-entered deposit or expense against a drawer.
func (s *CashboxService) RecordManualEntry(ctx context.Context, userID uuid.UUID, code string, req ManualEntryRequest) (*CashboxResponse, error) {
	kind := finance.EntryKind(req.Kind)
	if !kind.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown entry kind %q", req.Kind)
	}

	var resp *CashboxResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		box, err := repos.Cashboxes().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := box.Apply(kind, req.Amount); err != nil {
			return err
		}
		if err := repos.Cashboxes().Save(ctx, box); err != nil {
			return fmt.Errorf("saving cashbox: %w", err)
		}
		entry, err := finance.NewCashboxEntry(box.ID, kind, req.Amount, finance.SourceManual, nil, req.Note, userID)
		if err != nil {
			return err
		}
		if err := repos.CashboxEntries().Save(ctx, entry); err != nil {
			return fmt.Errorf("saving entry: %w", err)
		}
		resp = &CashboxResponse{ID: box.ID, Code: box.Code, Name: box.Name, Balance: box.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
