package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type MovementService interface {
	Create(ctx context.Context, req dto.CreateMovementRequest) (*dto.MovementResponse, error)
	List(ctx context.Context) ([]dto.MovementResponse, error)
}

type movementService struct {
	repo      repository.MovementRepository
	products  repository.ProductRepository
	batches   repository.BatchRepository
	locations repository.LocationRepository
	ledger    LedgerService
	notifier  LedgerNotifier
	now       func() time.Time
}

func NewMovementService(
	repo repository.MovementRepository,
	products repository.ProductRepository,
	batches repository.BatchRepository,
	locations repository.LocationRepository,
	ledger LedgerService,
	notifier LedgerNotifier,
) MovementService {
	return &movementService{
		repo:      repo,
		products:  products,
		batches:   batches,
		locations: locations,
		ledger:    ledger,
		notifier:  notifier,
		now:       time.Now,
	}
}

func (s *movementService) Create(ctx context.Context, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	movedAt := s.now()
	if req.MovementDate != nil && *req.MovementDate != "" {
		t, err := time.Parse(time.RFC3339, *req.MovementDate)
		if err != nil {
			return nil, fmt.Errorf("%w: movement_date: %v", ErrInvalidInput, err)
		}
		movedAt = t
	}

	m := &model.StockMovement{
		MovementID:            req.MovementID,
		ProductID:             req.ProductID,
		BatchID:               req.BatchID,
		MovementDate:          movedAt,
		MovementType:          req.MovementType,
		SourceLocationID:      blankToNil(req.SourceLocationID),
		DestinationLocationID: blankToNil(req.DestinationLocationID),
		Quantity:              req.Quantity,
		AgentID:               blankToNil(req.AgentID),
		Remarks:               req.Remarks,
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		exists, err := s.repo.ExistsTx(tx, m.MovementID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: movement %s", ErrDuplicate, m.MovementID)
		}
		if _, err := s.products.FindByIDTx(tx, m.ProductID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: %s", ErrUnknownProduct, m.ProductID)
			}
			return err
		}
		if _, err := s.batches.FindByIDTx(tx, m.BatchID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: %s", ErrUnknownBatch, m.BatchID)
			}
			return err
		}
		// Stock held at a location outside the catalog would fall out of
		// every rollup, so both ends must be known locations.
		for _, loc := range []*string{m.SourceLocationID, m.DestinationLocationID} {
			if err := s.checkLocation(ctx, loc); err != nil {
				return err
			}
		}
		if err := s.repo.CreateTx(tx, m); err != nil {
			return duplicateOr(err, "movement", m.MovementID)
		}
		return s.ledger.FoldMovement(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, EventMovement, m.MovementID)
	log.Info().
		Str("movement_id", m.MovementID).
		Str("type", m.MovementType).
		Int("quantity", m.Quantity).
		Msg("stock movement recorded")
	return movementToResponse(m), nil
}

func (s *movementService) List(ctx context.Context) ([]dto.MovementResponse, error) {
	moves, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovementResponse, len(moves))
	for i := range moves {
		resp[i] = *movementToResponse(&moves[i])
	}
	return resp, nil
}

func (s *movementService) checkLocation(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.locations.FindByID(ctx, *id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrUnknownLocation, *id)
		}
		return err
	}
	return nil
}

// blankToNil treats an empty string the same as an absent location so a
// form that posts "" does not create a ledger row keyed by "".
func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		MovementID:            m.MovementID,
		ProductID:             m.ProductID,
		BatchID:               m.BatchID,
		MovementDate:          m.MovementDate.Format(time.RFC3339),
		MovementType:          m.MovementType,
		SourceLocationID:      m.SourceLocationID,
		DestinationLocationID: m.DestinationLocationID,
		Quantity:              m.Quantity,
		AgentID:               m.AgentID,
		Remarks:               m.Remarks,
	}
}
