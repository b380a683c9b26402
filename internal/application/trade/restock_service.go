package trade

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/partner"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

// RestockService processes goods receipts. The whole receipt is one atomic
// transaction: any bad line aborts everything.
type RestockService struct {
	scope appinventory.TransactionScope
}

func NewRestockService(scope appinventory.TransactionScope) *RestockService {
	return &RestockService{scope: scope}
}

func (s *RestockService) Create(ctx context.Context, userID uuid.UUID, req CreateRestockRequest) (*RestockResponse, error) {
	if len(req.Lines) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "restock requires at least one line")
	}

	var resp *RestockResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		supplierID, err := s.resolveSupplier(ctx, repos, req)
		if err != nil {
			return err
		}

		restock, err := trade.NewRestock(supplierID, userID, req.Date, req.Tax, req.Paid, req.CashboxCode, req.Note)
		if err != nil {
			return err
		}

		for i := range req.Lines {
			if err := s.processLine(ctx, repos, restock, &req.Lines[i]); err != nil {
				return fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		if err := restock.Finalize(); err != nil {
			return err
		}

		if restock.Paid.IsPositive() {
			if err := recordCashMovement(ctx, repos, req.CashboxCode, finance.EntryExpense,
				restock.Paid, finance.SourceRestock, restock.ID, userID); err != nil {
				return err
			}
		}

		if err := repos.Restocks().Save(ctx, restock); err != nil {
			return fmt.Errorf("saving restock: %w", err)
		}
		resp = NewRestockResponse(restock)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *RestockService) processLine(ctx context.Context, repos appinventory.TransactionalRepositories, restock *trade.Restock, line *RestockLineRequest) error {
	item, err := s.resolveItem(ctx, repos, line)
	if err != nil {
		return err
	}

	switch catalog.StockUnit(line.Mode) {
	case catalog.UnitEach:
		return s.processEachLine(ctx, repos, restock, item, line)
	case catalog.UnitMeter:
		return s.processMeterLine(ctx, repos, restock, item, line)
	default:
		return shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown line mode %q", line.Mode)
	}
}

func (s *RestockService) processEachLine(ctx context.Context, repos appinventory.TransactionalRepositories, restock *trade.Restock, item *catalog.Item, line *RestockLineRequest) error {
	if item.IsMeterTracked() {
		return shared.NewDomainErrorf(shared.CodeInvalidInput,
			"item %q is meter tracked, line mode must be METER", item.Name)
	}
	qty := line.Quantity
	if len(line.Serials) > 0 {
		if qty == 0 {
			qty = len(line.Serials)
		} else if qty != len(line.Serials) {
			return shared.NewDomainErrorf(shared.CodeInvalidInput,
				"%d serials given for quantity %d", len(line.Serials), qty)
		}
	}

	restockLine, err := restock.AddEachLine(item.ID, qty, line.UnitCost)
	if err != nil {
		return err
	}

	// Stock for EACH items lives on the aggregate counter.
	if err := repos.Items().AdjustStock(ctx, item.ID, decimal.NewFromInt(int64(qty))); err != nil {
		return fmt.Errorf("incrementing stock: %w", err)
	}

	// One unit per piece, placeholder-barcoded when no serial was scanned.
	units := make([]*inventory.InventoryUnit, 0, qty)
	for i := 0; i < qty; i++ {
		serial := ""
		if i < len(line.Serials) {
			serial = line.Serials[i]
		}
		unit, err := inventory.NewUnit(item.ID, serial, line.UnitCost)
		if err != nil {
			return err
		}
		lineID := restockLine.ID
		unit.RestockItemID = &lineID
		units = append(units, unit)
	}
	if err := repos.Units().SaveBatch(ctx, units); err != nil {
		return fmt.Errorf("saving units: %w", err)
	}
	return nil
}

func (s *RestockService) processMeterLine(ctx context.Context, repos appinventory.TransactionalRepositories, restock *trade.Restock, item *catalog.Item, line *RestockLineRequest) error {
	if !item.IsMeterTracked() {
		return shared.NewDomainErrorf(shared.CodeInvalidInput,
			"item %q is piece tracked, line mode must be EACH", item.Name)
	}
	if len(line.NewRolls) == 0 {
		return shared.NewDomainError(shared.CodeInvalidInput, "METER line requires at least one roll length")
	}

	totalMeters := decimal.Zero
	for _, length := range line.NewRolls {
		if !length.IsPositive() {
			return shared.NewDomainError(shared.CodeInvalidInput, "roll lengths must be positive")
		}
		totalMeters = totalMeters.Add(length)
	}

	restockLine, err := restock.AddMeterLine(item.ID, totalMeters, line.UnitCost)
	if err != nil {
		return err
	}

	// Meter stock is tracked per roll; the aggregate counter stays put.
	for _, length := range line.NewRolls {
		roll, err := catalog.NewRoll(item.ID, length)
		if err != nil {
			return err
		}
		if err := repos.Rolls().Save(ctx, roll); err != nil {
			return fmt.Errorf("saving roll: %w", err)
		}
		restockLine.LinkRoll(roll.ID, length)

		unit, err := inventory.NewRollUnit(item.ID, roll.ID, "", line.UnitCost)
		if err != nil {
			return err
		}
		lineID := restockLine.ID
		unit.RestockItemID = &lineID
		if err := repos.Units().Save(ctx, unit); err != nil {
			return fmt.Errorf("saving roll unit: %w", err)
		}
	}
	return nil
}

func (s *RestockService) resolveItem(ctx context.Context, repos appinventory.TransactionalRepositories, line *RestockLineRequest) (*catalog.Item, error) {
	if line.ItemID != nil {
		return repos.Items().FindByID(ctx, *line.ItemID)
	}
	if line.NewItem == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "line requires an item or a new item spec")
	}
	spec := line.NewItem
	item, err := catalog.NewItem(spec.Name, catalog.Category(spec.Category),
		catalog.StockUnit(line.Mode), spec.RetailPrice, spec.WholesalePrice)
	if err != nil {
		return nil, err
	}
	if err := repos.Items().Save(ctx, item); err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}
	return item, nil
}

func (s *RestockService) resolveSupplier(ctx context.Context, repos appinventory.TransactionalRepositories, req CreateRestockRequest) (*uuid.UUID, error) {
	if req.SupplierID != nil {
		if _, err := repos.Suppliers().FindByID(ctx, *req.SupplierID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError(shared.CodeInvalidInput, "unknown supplier")
			}
			return nil, err
		}
		return req.SupplierID, nil
	}
	name := strings.TrimSpace(req.SupplierName)
	if name == "" {
		return nil, nil
	}
	supplier, err := repos.Suppliers().FindByName(ctx, name)
	if err == nil {
		return &supplier.ID, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("looking up supplier: %w", err)
	}
	supplier, err = partner.NewSupplier(name, "", "")
	if err != nil {
		return nil, err
	}
	if err := repos.Suppliers().Save(ctx, supplier); err != nil {
		return nil, fmt.Errorf("creating supplier: %w", err)
	}
	return &supplier.ID, nil
}

func (s *RestockService) GetByID(ctx context.Context, id uuid.UUID) (*RestockResponse, error) {
	var resp *RestockResponse
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		restock, err := repos.Restocks().FindByIDWithItems(ctx, id)
		if err != nil {
			return err
		}
		resp = NewRestockResponse(restock)
		return s.fillNames(ctx, repos, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *RestockService) History(ctx context.Context, req RestockHistoryRequest) (*shared.Paginated[RestockResponse], error) {
	filter := shared.DefaultFilter()
	if req.Limit > 0 {
		filter.Limit = req.Limit
	}
	filter.Offset = req.Offset

	var (
		restocks []trade.Restock
		total    int64
	)
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		var err error
		switch {
		case req.SupplierID != nil:
			restocks, total, err = repos.Restocks().FindBySupplier(ctx, *req.SupplierID, filter)
		case req.From != nil && req.To != nil:
			restocks, total, err = repos.Restocks().FindBetween(ctx, *req.From, *req.To, filter)
		default:
			restocks, err = repos.Restocks().FindAll(ctx, filter)
			if err == nil {
				total, err = repos.Restocks().Count(ctx, filter)
			}
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing restocks: %w", err)
	}

	responses := make([]RestockResponse, 0, len(restocks))
	for i := range restocks {
		responses = append(responses, *NewRestockResponse(&restocks[i]))
	}
	return shared.NewPaginated(responses, total, filter.Limit, filter.Offset), nil
}

func (s *RestockService) fillNames(ctx context.Context, repos appinventory.TransactionalRepositories, resp *RestockResponse) error {
	if resp.SupplierID != nil {
		supplier, err := repos.Suppliers().FindByID(ctx, *resp.SupplierID)
		if err == nil {
			resp.SupplierName = supplier.Name
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

// recordCashMovement applies a ledger movement to the named cashbox and
// writes its entry, inside the caller's transaction.
func recordCashMovement(ctx context.Context, repos appinventory.TransactionalRepositories, code string, kind finance.EntryKind, amount decimal.Decimal, source finance.EntrySource, refID uuid.UUID, userID uuid.UUID) error {
	if strings.TrimSpace(code) == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, "a cashbox is required when money moves")
	}
	box, err := repos.Cashboxes().FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainErrorf(shared.CodeInvalidInput, "unknown cashbox %q", code)
		}
		return err
	}
	if err := box.Apply(kind, amount); err != nil {
		return err
	}
	if err := repos.Cashboxes().Save(ctx, box); err != nil {
		return fmt.Errorf("saving cashbox: %w", err)
	}
	ref := refID
	entry, err := finance.NewCashboxEntry(box.ID, kind, amount, source, &ref, "", userID)
	if err != nil {
		return err
	}
	if err := repos.CashboxEntries().Save(ctx, entry); err != nil {
		return fmt.Errorf("saving cashbox entry: %w", err)
	}
	return nil
}
