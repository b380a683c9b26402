package partner

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appinventory "github.com/mjpos/backend/internal/application/inventory"
	"github.com/mjpos/backend/internal/domain/finance"
	"github.com/mjpos/backend/internal/domain/shared"
)

// DebtQueries is the read side of the supplier debt ledger, answered with an
// aggregate query in persistence.
type DebtQueries interface {
	SupplierDebts(ctx context.Context) ([]SupplierDebtSummary, error)
}

// DebtService tracks what the shop owes suppliers. Debt is derived from the
// outstanding amounts on restocks; payments settle the oldest delivery first.
type DebtService struct {
	scope   appinventory.TransactionScope
	queries DebtQueries
}

func NewDebtService(scope appinventory.TransactionScope, queries DebtQueries) *DebtService {
	return &DebtService{scope: scope, queries: queries}
}

func (s *DebtService) ListDebts(ctx context.Context) ([]SupplierDebtSummary, error) {
	debts, err := s.queries.SupplierDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing supplier debts: %w", err)
	}
	return debts, nil
}

func (s *DebtService) GetDebt(ctx context.Context, supplierID uuid.UUID) (*SupplierDebtDetail, error) {
	var detail *SupplierDebtDetail
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		supplier, err := repos.Suppliers().FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		open, err := repos.Restocks().FindOutstandingBySupplier(ctx, supplierID)
		if err != nil {
			return fmt.Errorf("loading outstanding restocks: %w", err)
		}

		detail = &SupplierDebtDetail{
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			Outstanding:  decimal.Zero,
		}
		for i := range open {
			r := &open[i]
			detail.Outstanding = detail.Outstanding.Add(r.Outstanding)
			detail.Restocks = append(detail.Restocks, OutstandingRestock{
				RestockID:   r.ID,
				Date:        r.Date,
				Total:       r.Total,
				Paid:        r.Paid,
				Outstanding: r.Outstanding,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// RecordPayment pays down a supplier's debt oldest delivery first and books
// the cash out of the chosen drawer, all in one transaction.
func (s *DebtService) RecordPayment(ctx context.Context, userID, supplierID uuid.UUID, req RecordPaymentRequest) (*PaymentResult, error) {
	if !req.Amount.IsPositive() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "payment must be positive")
	}

	var result *PaymentResult
	err := s.scope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
		if _, err := repos.Suppliers().FindByID(ctx, supplierID); err != nil {
			return err
		}
		open, err := repos.Restocks().FindOutstandingBySupplier(ctx, supplierID)
		if err != nil {
			return fmt.Errorf("loading outstanding restocks: %w", err)
		}
		if len(open) == 0 {
			return shared.NewDomainError(shared.CodeInvalidState, "supplier has no outstanding debt")
		}

		result = &PaymentResult{SupplierID: supplierID, Amount: req.Amount, Applied: decimal.Zero}
		remaining := req.Amount
		outstanding := decimal.Zero
		for i := range open {
			r := &open[i]
			if remaining.IsPositive() {
				applied, err := r.ApplyPayment(remaining)
				if err != nil {
					return err
				}
				if applied.IsPositive() {
					remaining = remaining.Sub(applied)
					result.Applied = result.Applied.Add(applied)
					result.Allocations = append(result.Allocations, PaymentAllocation{
						RestockID: r.ID,
						Applied:   applied,
					})
					if err := repos.Restocks().Save(ctx, r); err != nil {
						return fmt.Errorf("saving restock: %w", err)
					}
				}
			}
			outstanding = outstanding.Add(r.Outstanding)
		}
		result.Outstanding = outstanding

		if result.Applied.IsZero() {
			return shared.NewDomainError(shared.CodeInvalidState, "supplier has no outstanding debt")
		}

		box, err := repos.Cashboxes().FindByCode(ctx, req.CashboxCode)
		if err != nil {
			return err
		}
		if err := box.Apply(finance.EntryExpense, result.Applied); err != nil {
			return err
		}
		if err := repos.Cashboxes().Save(ctx, box); err != nil {
			return fmt.Errorf("saving cashbox: %w", err)
		}
		ref := supplierID
		entry, err := finance.NewCashboxEntry(box.ID, finance.EntryExpense, result.Applied,
			finance.SourceSupplierPayment, &ref, req.Note, userID)
		if err != nil {
			return err
		}
		if err := repos.CashboxEntries().Save(ctx, entry); err != nil {
			return fmt.Errorf("saving cashbox entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
