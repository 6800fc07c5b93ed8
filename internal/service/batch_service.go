package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type BatchService interface {
	Create(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error)
	List(ctx context.Context) ([]dto.BatchResponse, error)
}

type batchService struct {
	repo        repository.BatchRepository
	products    repository.ProductRepository
	ledger      LedgerService
	notifier    LedgerNotifier
	warehouseID string
}

func NewBatchService(
	repo repository.BatchRepository,
	products repository.ProductRepository,
	ledger LedgerService,
	notifier LedgerNotifier,
	warehouseID string,
) BatchService {
	return &batchService{
		repo:        repo,
		products:    products,
		ledger:      ledger,
		notifier:    notifier,
		warehouseID: warehouseID,
	}
}

// ── Create ───────────────────────────────────────────────────────────────────
// One transaction: reject a reused batch id or an unknown product, insert the
// batch with its lines, then credit every line to the main warehouse.

func (s *batchService) Create(ctx context.Context, req dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	manufactured, err := time.Parse(dateLayout, req.DateManufactured)
	if err != nil {
		return nil, fmt.Errorf("%w: date_manufactured: %v", ErrInvalidInput, err)
	}
	expiry := manufactured.AddDate(0, 0, model.DefaultShelfLifeDays)
	if req.ExpiryDate != nil {
		expiry, err = time.Parse(dateLayout, *req.ExpiryDate)
		if err != nil {
			return nil, fmt.Errorf("%w: expiry_date: %v", ErrInvalidInput, err)
		}
	}
	if len(req.Items) == 0 {
		return nil, ErrEmptyBatch
	}

	batch := &model.Batch{
		BatchID:          req.BatchID,
		DateManufactured: manufactured,
		ExpiryDate:       &expiry,
		Remarks:          req.Remarks,
		Lines:            make([]model.BatchLine, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		batch.Lines = append(batch.Lines, model.BatchLine{
			BatchID:          req.BatchID,
			ProductID:        item.ProductID,
			QuantityProduced: item.QuantityProduced,
		})
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		exists, err := s.repo.ExistsTx(tx, batch.BatchID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: batch %s", ErrDuplicate, batch.BatchID)
		}

		seen := make(map[string]bool, len(batch.Lines))
		for _, line := range batch.Lines {
			if seen[line.ProductID] {
				continue
			}
			if _, err := s.products.FindByIDTx(tx, line.ProductID); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("%w: %s", ErrUnknownProduct, line.ProductID)
				}
				return err
			}
			seen[line.ProductID] = true
		}

		if err := s.repo.CreateTx(tx, batch); err != nil {
			return duplicateOr(err, "batch", batch.BatchID)
		}
		return s.ledger.FoldBatchIntake(ctx, tx, batch, batch.Lines, s.warehouseID)
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, EventBatchIntake, batch.BatchID)
	log.Info().Str("batch_id", batch.BatchID).Int("lines", len(batch.Lines)).Msg("batch recorded")
	return batchToResponse(batch), nil
}

func (s *batchService) List(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.BatchResponse, len(batches))
	for i := range batches {
		resp[i] = *batchToResponse(&batches[i])
	}
	return resp, nil
}

// notify is best effort: the events are committed, a lost notification only
// leaves a cached aggregate stale until its TTL runs out.
func notify(ctx context.Context, n LedgerNotifier, kind, ref string) {
	if n == nil {
		return
	}
	if err := n.LedgerChanged(ctx, kind, ref); err != nil {
		log.Warn().Err(err).Str("kind", kind).Str("ref", ref).Msg("ledger notification not delivered")
	}
}

func batchToResponse(b *model.Batch) *dto.BatchResponse {
	resp := &dto.BatchResponse{
		BatchID:          b.BatchID,
		DateManufactured: b.DateManufactured.Format(dateLayout),
		Remarks:          b.Remarks,
		Items:            linesToResponse(b.Lines),
	}
	if b.ExpiryDate != nil {
		exp := b.ExpiryDate.Format(dateLayout)
		resp.ExpiryDate = &exp
	}
	return resp
}

func linesToResponse(lines []model.BatchLine) []dto.BatchLineResponse {
	items := make([]dto.BatchLineResponse, len(lines))
	for i, l := range lines {
		items[i] = dto.BatchLineResponse{ProductID: l.ProductID, QuantityProduced: l.QuantityProduced}
	}
	return items
}
