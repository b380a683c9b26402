package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
)

// Return resolution actions accepted by Resolve.
const (
	ReturnActionRestock          = "restock"
	ReturnActionTrash            = "trash"
	ReturnActionReturnToSupplier = "returnToSupplier"
)

// ReturnService runs the customer-return workflow. A sold unit is flagged,
// stays sold while pending, and is resolved exactly once.
type ReturnService struct {
	scope TransactionScope
}

func NewReturnService(scope TransactionScope) *ReturnService {
	return &ReturnService{scope: scope}
}

// Request flags a sold unit for return. The unit may be given by id or by
// barcode.
func (s *ReturnService) Request(ctx context.Context, req RequestReturnRequest) (*ReturnResponse, error) {
	outcome := inventory.ReturnOutcome(req.RequestedOutcome)
	if !outcome.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput,
			"unknown requested outcome %q", req.RequestedOutcome)
	}

	var resp *ReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		unit, err := s.resolveUnit(ctx, repos, req)
		if err != nil {
			return err
		}
		if unit.Status != inventory.UnitSold {
			return shared.NewDomainErrorf(shared.CodeInvalidState,
				"only sold units can be returned, unit is %s", unit.Status)
		}

		pending, err := repos.Returns().ExistsPendingByUnit(ctx, unit.ID)
		if err != nil {
			return fmt.Errorf("checking pending returns: %w", err)
		}
		if pending {
			return shared.NewDomainError(shared.CodeConflict,
				"a pending return already exists for this unit")
		}

		var txID *uuid.UUID
		sales, err := repos.Transactions().FindByUnit(ctx, unit.ID)
		if err != nil {
			return fmt.Errorf("loading sale: %w", err)
		}
		if len(sales) > 0 {
			txID = &sales[0].ID
		}

		rec, err := inventory.NewReturnRecord(unit.ID, txID, outcome, req.Reason)
		if err != nil {
			return err
		}
		if err := repos.Returns().Save(ctx, rec); err != nil {
			return fmt.Errorf("saving return: %w", err)
		}
		resp = NewReturnResponse(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Resolve closes a pending return. Restock puts the unit back on the shelf
// and credits item stock; trash and return-to-supplier write the unit off.
func (s *ReturnService) Resolve(ctx context.Context, recordID uuid.UUID, req ResolveReturnRequest) (*ReturnResponse, error) {
	var resp *ReturnResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		rec, err := repos.Returns().FindByID(ctx, recordID)
		if err != nil {
			return err
		}
		unit, err := repos.Units().FindByID(ctx, rec.UnitID)
		if err != nil {
			return err
		}

		switch req.Action {
		case ReturnActionRestock:
			if err := rec.ResolveRestocked(); err != nil {
				return err
			}
			if err := unit.Release(); err != nil {
				return err
			}
			if err := repos.Items().AdjustStock(ctx, unit.ItemID, decimal.NewFromInt(1)); err != nil {
				return fmt.Errorf("crediting stock: %w", err)
			}
		case ReturnActionTrash:
			if err := rec.ResolveTrashed(); err != nil {
				return err
			}
			if err := unit.MarkDefective(); err != nil {
				return err
			}
		case ReturnActionReturnToSupplier:
			if req.SupplierID == nil {
				return shared.NewDomainError(shared.CodeInvalidInput,
					"returning to supplier requires a supplier")
			}
			if _, err := repos.Suppliers().FindByID(ctx, *req.SupplierID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError(shared.CodeInvalidInput, "unknown supplier")
				}
				return err
			}
			if err := rec.ResolveReturnedToSupplier(*req.SupplierID, req.Note); err != nil {
				return err
			}
			if err := unit.MarkDefective(); err != nil {
				return err
			}
		default:
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown action %q", req.Action)
		}

		if err := repos.Units().Save(ctx, unit); err != nil {
			return fmt.Errorf("saving unit: %w", err)
		}
		if err := repos.Returns().Save(ctx, rec); err != nil {
			return fmt.Errorf("saving return: %w", err)
		}
		resp = NewReturnResponse(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *ReturnService) List(ctx context.Context, req ListReturnsRequest) (*shared.Paginated[ReturnResponse], error) {
	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset

	status := inventory.ReturnStatus(req.Status)
	if req.Status != "" && !status.Valid() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown return status %q", req.Status)
	}

	var (
		records []inventory.ReturnRecord
		total   int64
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		records, total, err = repos.Returns().FindByStatus(ctx, status, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing returns: %w", err)
	}

	responses := make([]ReturnResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *NewReturnResponse(&records[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

func (s *ReturnService) resolveUnit(ctx context.Context, repos TransactionalRepositories, req RequestReturnRequest) (*inventory.InventoryUnit, error) {
	if req.UnitID != nil {
		return repos.Units().FindByID(ctx, *req.UnitID)
	}
	code, err := inventory.NormalizeBarcode(req.Barcode)
	if err != nil {
		return nil, err
	}
	if code == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "unit id or barcode is required")
	}
	return repos.Units().FindByBarcode(ctx, code)
}
