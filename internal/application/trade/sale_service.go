package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

// SaleService runs checkout and sale amendment. Each call is one atomic
// transaction: all lines commit or none do.
type SaleService struct {
	scope appinventory.TransactionScope
}

func NewSaleService(scope appinventory.TransactionScope) *SaleService {
	return &SaleService{scope: scope}
}

func (s *SaleService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*TransactionResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "sale requires at least one line")
	}

	var resp *TransactionResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		customerID := uuid.Nil
		if req.CustomerID != nil {
			customer, err := repos.Customers().FindByID(ctx, *req.CustomerID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError(shared.CodeInvalidInput, "unknown customer")
				}
				return err
			}
			customerID = customer.ID
		}

		tx := trade.NewTransaction(customerID, userID, req.Paid, req.CashboxCode, req.Note)
		for i := range req.Lines {
			if err := s.processLine(ctx, repos, tx, &req.Lines[i], req.Wholesale, nil); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if err := tx.Finalize(); err != nil {
			return err
		}

		if tx.Paid.IsPositive() {
			if err := recordCashMovement(ctx, repos, tx.CashboxCode, finance.EntryIncome,
				tx.Paid, finance.SourceSale, tx.ID, userID); err != nil {
				return err
			}
		}

		if err := repos.Transactions().Save(ctx, tx); err != nil {
			return fmt.Errorf("saving sale: %w", err)
		}
		resp = NewTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// processLine applies one cart line's stock effects and appends it to the
// sale. keptUnits carries unit ids that are already sold by the sale being
// edited and must not be sold or decremented again.
func (s *SaleService) processLine(ctx context.Context, repos appinventory.TransactionalRepositories, tx *trade.Transaction, line *SaleLineRequest, wholesale bool, keptUnits map[uuid.UUID]bool) error {
	item, err := repos.Items().FindByID(ctx, line.ItemID)
	if err != nil {
		return err
	}
	price := item.RetailPrice
	if wholesale {
		price = item.WholesalePrice
	}
	if line.UnitPrice != nil {
		if line.UnitPrice.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "unit price must not be negative")
		}
		price = *line.UnitPrice
	}

	switch catalog.StockUnit(line.Mode) {
	case catalog.UnitEach:
		return s.processEachLine(ctx, repos, tx, item, line, price, keptUnits)
	case catalog.UnitMeter:
		return s.processMeterLine(ctx, repos, tx, item, line, price)
	default:
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown line mode %q", line.Mode)
	}
}

func (s *SaleService) processEachLine(ctx context.Context, repos appinventory.TransactionalRepositories, tx *trade.Transaction, item *catalog.Item, line *SaleLineRequest, price decimal.Decimal, keptUnits map[uuid.UUID]bool) error {
	unitIDs, err := s.resolveUnitIDs(ctx, repos, line)
	if err != nil {
		return err
	}

	if len(unitIDs) == 0 {
		// legacy non-serialized path: plain quantity decrement
		if line.Quantity <= 0 {
			return shared.NewDomainError(shared.CodeInvalidInput, "quantity must be positive")
		}
		if _, err := tx.AddEachLine(item.ID, line.Quantity, nil, price); err != nil {
			return err
		}
		return repos.Items().AdjustStock(ctx, item.ID, decimal.NewFromInt(int64(-line.Quantity)))
	}

	decremented := 0
	for _, unitID := range unitIDs {
		unit, err := repos.Units().FindByID(ctx, unitID)
		if err != nil {
			return err
		}
		if unit.ItemID != item.ID {
			return shared.NewDomainErrorf(shared.CodeInvalidInput,
				"unit %s does not belong to item %q", unitID, item.Name)
		}
		if keptUnits != nil && keptUnits[unitID] {
			// already sold by this sale, carried over unchanged
			continue
		}
		linked, err := repos.Transactions().IsUnitLinked(ctx, unitID)
		if err != nil {
			return fmt.Errorf("checking link: %w", err)
		}
		if linked {
			return shared.NewDomainErrorf(shared.CodeConflict,
				"unit %s is already sold on another sale", unitID)
		}
		if err := unit.MarkSold(); err != nil {
			return err
		}
		if err := repos.Units().Save(ctx, unit); err != nil {
			return fmt.Errorf("saving unit: %w", err)
		}
		decremented++
	}

	if _, err := tx.AddEachLine(item.ID, 0, unitIDs, price); err != nil {
		return err
	}
	if decremented > 0 {
		if err := repos.Items().AdjustStock(ctx, item.ID, decimal.NewFromInt(int64(-decremented))); err != nil {
			return err
		}
	}
	return nil
}

func (s *SaleService) processMeterLine(ctx context.Context, repos appinventory.TransactionalRepositories, tx *trade.Transaction, item *catalog.Item, line *SaleLineRequest, price decimal.Decimal) error {
	if !line.LengthM.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "cut length must be positive")
	}

	if line.RollID != nil {
		roll, err := repos.Rolls().FindByID(ctx, *line.RollID)
		if err != nil {
			return err
		}
		if roll.ItemID != item.ID {
			return shared.NewDomainErrorf(shared.CodeInvalidInput,
				"roll %s does not belong to item %q", roll.ID, item.Name)
		}
		if err := repos.Rolls().Consume(ctx, roll.ID, line.LengthM); err != nil {
			return err
		}
		_, err = tx.AddMeterLine(item.ID, roll.ID, line.LengthM, price)
		return err
	}

	// no roll picked: cut from the item's aggregate meter stock
	if err := repos.Items().AdjustStock(ctx, item.ID, line.LengthM.Neg()); err != nil {
		return err
	}
	lineEntry, err := tx.AddMeterLine(item.ID, uuid.Nil, line.LengthM, price)
	if err != nil {
		return err
	}
	lineEntry.RollID = nil
	return nil
}

func (s *SaleService) resolveUnitIDs(ctx context.Context, repos appinventory.TransactionalRepositories, line *SaleLineRequest) ([]uuid.UUID, error) {
	ids := append([]uuid.UUID(nil), line.UnitIDs...)
	for _, code := range line.Barcodes {
		code, err := inventory.NormalizeBarcode(code)
		if err != nil {
			return nil, err
		}
		unit, err := repos.Units().FindByBarcode(ctx, code)
		if err != nil {
			return nil, err
		}
		ids = append(ids, unit.ID)
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, shared.NewDomainErrorf(shared.CodeInvalidInput, "unit %s appears twice in the cart", id)
		}
		seen[id] = true
	}
	return ids, nil
}

// Edit amends a sale in place. The previous lines' stock effects are undone,
// the new lines applied, and the line set overwritten. Units dropped by the
// amendment go back to available unless a pending return holds them.
func (s *SaleService) Edit(ctx context.Context, userID, id uuid.UUID, req EditTransactionRequest) (*TransactionResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "sale requires at least one line")
	}

	var resp *TransactionResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		tx, err := repos.Transactions().FindByIDWithItems(ctx, id)
		if err != nil {
			return err
		}
		oldLines := tx.Items
		oldPaid := tx.Paid

		if err := tx.BeginEdit(req.EditNote); err != nil {
			return err
		}
		if req.Paid != nil {
			if req.Paid.IsNegative() {
				return shared.NewDomainError(shared.CodeInvalidInput, "paid amount must not be negative")
			}
			tx.Paid = *req.Paid
		}
		if req.Note != nil {
			tx.Note = *req.Note
		}
		if req.CashboxCode != nil {
			tx.CashboxCode = *req.CashboxCode
		}

		keptUnits, err := s.keptUnitSet(ctx, repos, oldLines, req.Lines)
		if err != nil {
			return err
		}
		if err := s.undoLines(ctx, repos, oldLines, keptUnits); err != nil {
			return err
		}

		for i := range req.Lines {
			if err := s.processLine(ctx, repos, tx, &req.Lines[i], req.Wholesale, keptUnits); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if err := tx.Finalize(); err != nil {
			return err
		}

		if err := s.adjustPayment(ctx, repos, tx, oldPaid, userID); err != nil {
			return err
		}

		if err := repos.Transactions().ReplaceItems(ctx, tx.ID, tx.Items); err != nil {
			return fmt.Errorf("replacing lines: %w", err)
		}
		if err := repos.Transactions().Save(ctx, tx); err != nil {
			return fmt.Errorf("saving sale: %w", err)
		}
		resp = NewTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// keptUnitSet computes which previously linked units stay on the amended sale.
func (s *SaleService) keptUnitSet(ctx context.Context, repos appinventory.TransactionalRepositories, oldLines []trade.TransactionItem, newLines []SaleLineRequest) (map[uuid.UUID]bool, error) {
	oldSet := make(map[uuid.UUID]bool)
	for i := range oldLines {
		for _, link := range oldLines[i].Units {
			oldSet[link.InventoryUnitID] = true
		}
	}
	kept := make(map[uuid.UUID]bool)
	for i := range newLines {
		ids, err := s.resolveUnitIDs(ctx, repos, &newLines[i])
		if err != nil {
			return nil, err
		}
		for _, unitID := range ids {
			if oldSet[unitID] {
				kept[unitID] = true
			}
		}
	}
	return kept, nil
}

// undoLines reverses the stock effects of a sale's previous line set.
func (s *SaleService) undoLines(ctx context.Context, repos appinventory.TransactionalRepositories, oldLines []trade.TransactionItem, keptUnits map[uuid.UUID]bool) error {
	for i := range oldLines {
		line := &oldLines[i]
		switch line.Mode {
		case catalog.UnitEach:
			if len(line.Units) == 0 {
				qty := decimal.NewFromInt(line.Quantity.IntPart())
				if err := repos.Items().AdjustStock(ctx, line.ItemID, qty); err != nil {
					return err
				}
				continue
			}
			for _, link := range line.Units {
				if keptUnits[link.InventoryUnitID] {
					continue
				}
				unit, err := repos.Units().FindByID(ctx, link.InventoryUnitID)
				if err != nil {
					return err
				}
				pending, err := repos.Returns().ExistsPendingByUnit(ctx, unit.ID)
				if err != nil {
					return fmt.Errorf("checking pending returns: %w", err)
				}
				if pending {
					// queued for return: stays sold, the resolver decides
					continue
				}
				if err := unit.Release(); err != nil {
					return err
				}
				if err := repos.Units().Save(ctx, unit); err != nil {
					return fmt.Errorf("saving unit: %w", err)
				}
				if err := repos.Items().AdjustStock(ctx, line.ItemID, decimal.NewFromInt(1)); err != nil {
					return err
				}
			}
		case catalog.UnitMeter:
			if line.RollID != nil {
				if err := repos.Rolls().Restore(ctx, *line.RollID, line.Quantity); err != nil {
					return err
				}
			} else {
				if err := repos.Items().AdjustStock(ctx, line.ItemID, line.Quantity); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// adjustPayment posts the cash delta between the sale's previous and amended
// paid amounts.
func (s *SaleService) adjustPayment(ctx context.Context, repos appinventory.TransactionalRepositories, tx *trade.Transaction, oldPaid decimal.Decimal, userID uuid.UUID) error {
	diff := tx.Paid.Sub(oldPaid)
	if diff.IsZero() {
		return nil
	}
	kind := finance.EntryIncome
	if diff.IsNegative() {
		kind = finance.EntryExpense
		diff = diff.Neg()
	}
	return recordCashMovement(ctx, repos, tx.CashboxCode, kind, diff, finance.SourceSale, tx.ID, userID)
}

func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*TransactionResponse, error) {
	var resp *TransactionResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		tx, err := repos.Transactions().FindByIDWithItems(ctx, id)
		if err != nil {
			return err
		}
		resp = NewTransactionResponse(tx)
		return s.fillSaleNames(ctx, repos, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *SaleService) Recent(ctx context.Context, req ListTransactionsRequest) (*shared.Paginated[TransactionResponse], error) {
	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset

	var (
		sales []trade.Transaction
		total int64
	)
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		sales, total, err = repos.Transactions().FindRecent(ctx, filter)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing sales: %w", err)
	}

	responses := make([]TransactionResponse, 0, len(sales))
	for i := range sales {
		responses = append(responses, *NewTransactionResponse(&sales[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

func (s *SaleService) fillSaleNames(ctx context.Context, repos appinventory.TransactionalRepositories, resp *TransactionResponse) error {
	if resp.CustomerID != uuid.Nil {
		customer, err := repos.Customers().FindByID(ctx, resp.CustomerID)
		if err == nil {
			resp.CustomerName = customer.Name
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
	}
	for i := range resp.Lines {
		item, err := repos.Items().FindByID(ctx, resp.Lines[i].ItemID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
		resp.Lines[i].ItemName = item.Name
	}
	return nil
}
