package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mjpos/backend/internal/domain/catalog"
	"github.com/mjpos/backend/internal/domain/inventory"
	"github.com/mjpos/backend/internal/domain/shared"
	"github.com/mjpos/backend/internal/domain/trade"
)

const defaultBackfillBatchSize = 100

// BackfillService creates the serialized units historical restock lines are
// missing. It walks restock lines in fixed-size batches and is idempotent: a
// line whose expected unit count already exists is skipped, so the job can be
// re-run or resumed from any offset.
type BackfillService struct {
	scope  TransactionScope
	logger *zap.Logger
}

func NewBackfillService(scope TransactionScope, logger *zap.Logger) *BackfillService {
	return &BackfillService{scope: scope, logger: logger}
}

// RunBatch processes one batch of restock lines and reports where to resume.
func (s *BackfillService) RunBatch(ctx context.Context, req BackfillRequest) (*BackfillResult, error) {
	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBackfillBatchSize
	}
	if req.Offset < 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "offset must not be negative")
	}

	result := &BackfillResult{DryRun: req.DryRun}
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lines, err := repos.Restocks().FindItemsPage(ctx, batchSize, req.Offset)
		if err != nil {
			return fmt.Errorf("loading restock lines: %w", err)
		}
		result.LinesScanned = len(lines)
		result.NextOffset = req.Offset + len(lines)
		result.Done = len(lines) < batchSize

		for i := range lines {
			created, skipped, err := s.backfillLine(ctx, repos, &lines[i], req.DryRun)
			if err != nil {
				return fmt.Errorf("line %s: %w", lines[i].ID, err)
			}
			result.UnitsCreated += created
			if skipped {
				result.LinesSkipped++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("backfill batch finished",
		zap.Int("offset", req.Offset),
		zap.Int("scanned", result.LinesScanned),
		zap.Int("skipped", result.LinesSkipped),
		zap.Int("created", result.UnitsCreated),
		zap.Bool("dry_run", result.DryRun))
	return result, nil
}

// Run drains all restock lines starting at the given offset.
func (s *BackfillService) Run(ctx context.Context, req BackfillRequest) (*BackfillResult, error) {
	total := &BackfillResult{DryRun: req.DryRun, NextOffset: req.Offset}
	for {
		req.Offset = total.NextOffset
		batch, err := s.RunBatch(ctx, req)
		if err != nil {
			return nil, err
		}
		total.LinesScanned += batch.LinesScanned
		total.LinesSkipped += batch.LinesSkipped
		total.UnitsCreated += batch.UnitsCreated
		total.NextOffset = batch.NextOffset
		total.Done = batch.Done
		if batch.Done {
			return total, nil
		}
	}
}

func (s *BackfillService) backfillLine(ctx context.Context, repos TransactionalRepositories, line *trade.RestockItem, dryRun bool) (created int, skipped bool, err error) {
	switch line.Mode {
	case catalog.UnitEach:
		return s.backfillEachLine(ctx, repos, line, dryRun)
	case catalog.UnitMeter:
		return s.backfillMeterLine(ctx, repos, line, dryRun)
	default:
		return 0, false, shared.NewDomainErrorf(shared.CodeInvalidState, "line has unknown mode %q", line.Mode)
	}
}

func (s *BackfillService) backfillEachLine(ctx context.Context, repos TransactionalRepositories, line *trade.RestockItem, dryRun bool) (int, bool, error) {
	expected := int(line.Quantity.IntPart())
	if expected < 1 {
		expected = 1
	}
	existing, err := repos.Units().CountByRestockItem(ctx, line.ID)
	if err != nil {
		return 0, false, fmt.Errorf("counting units: %w", err)
	}
	missing := expected - int(existing)
	if missing <= 0 {
		return 0, true, nil
	}
	if dryRun {
		return missing, false, nil
	}

	units := make([]*inventory.InventoryUnit, 0, missing)
	for i := 0; i < missing; i++ {
		unit, err := inventory.NewUnit(line.ItemID, "", line.UnitCost)
		if err != nil {
			return 0, false, err
		}
		lineID := line.ID
		unit.RestockItemID = &lineID
		units = append(units, unit)
	}
	if err := repos.Units().SaveBatch(ctx, units); err != nil {
		return 0, false, fmt.Errorf("saving units: %w", err)
	}
	return missing, false, nil
}

func (s *BackfillService) backfillMeterLine(ctx context.Context, repos TransactionalRepositories, line *trade.RestockItem, dryRun bool) (int, bool, error) {
	// Meter lines written before rolls were linked get count-based
	// placeholder units, same as EACH lines.
	if len(line.Rolls) == 0 {
		return s.backfillEachLine(ctx, repos, line, dryRun)
	}
	created := 0
	for i := range line.Rolls {
		rollID := line.Rolls[i].RollID
		_, err := repos.Units().FindByRoll(ctx, rollID)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return created, false, fmt.Errorf("checking roll unit: %w", err)
		}
		if dryRun {
			created++
			continue
		}

		unit, err := inventory.NewRollUnit(line.ItemID, rollID, "", line.UnitCost)
		if err != nil {
			return created, false, err
		}
		lineID := line.ID
		unit.RestockItemID = &lineID
		if err := repos.Units().Save(ctx, unit); err != nil {
			return created, false, fmt.Errorf("saving roll unit: %w", err)
		}
		created++
	}
	return created, created == 0, nil
}
