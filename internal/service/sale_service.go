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

type SaleService interface {
	Create(ctx context.Context, req dto.CreateRetailSaleRequest) (*dto.RetailSaleResponse, error)
	List(ctx context.Context) ([]dto.RetailSaleResponse, error)
}

type saleService struct {
	repo     repository.SaleRepository
	products repository.ProductRepository
	batches  repository.BatchRepository
	ledger   LedgerService
	notifier LedgerNotifier
}

func NewSaleService(
	repo repository.SaleRepository,
	products repository.ProductRepository,
	batches repository.BatchRepository,
	ledger LedgerService,
	notifier LedgerNotifier,
) SaleService {
	return &saleService{repo: repo, products: products, batches: batches, ledger: ledger, notifier: notifier}
}

// Create records the sale and folds it into the ledger. The store id is not
// checked here: a sale from a store that is not registered is still kept as
// a record, it just has no ledger effect.
func (s *saleService) Create(ctx context.Context, req dto.CreateRetailSaleRequest) (*dto.RetailSaleResponse, error) {
	day, err := time.Parse(dateLayout, req.SaleDate)
	if err != nil {
		return nil, fmt.Errorf("%w: sale_date: %v", ErrInvalidInput, err)
	}

	sale := &model.RetailSale{
		SaleID:           req.SaleID,
		SaleDate:         day,
		StoreID:          req.StoreID,
		ProductID:        req.ProductID,
		BatchID:          blankToNil(req.BatchID),
		QuantitySold:     req.QuantitySold,
		SalesAgentID:     blankToNil(req.SalesAgentID),
		SalePricePerUnit: req.SalePricePerUnit,
		Remarks:          req.Remarks,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		exists, err := s.repo.ExistsTx(tx, sale.SaleID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: sale %s", ErrDuplicate, sale.SaleID)
		}
		if _, err := s.products.FindByIDTx(tx, sale.ProductID); err != nil {
			if isNotFound(err) {
				return fmt.Errorf("%w: %s", ErrUnknownProduct, sale.ProductID)
			}
			return err
		}
		if sale.BatchID != nil {
			if _, err := s.batches.FindByIDTx(tx, *sale.BatchID); err != nil {
				if isNotFound(err) {
					return fmt.Errorf("%w: %s", ErrUnknownBatch, *sale.BatchID)
				}
				return err
			}
		}
		if err := s.repo.CreateTx(tx, sale); err != nil {
			return duplicateOr(err, "sale", sale.SaleID)
		}
		return s.ledger.FoldSale(ctx, tx, sale)
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, EventSale, sale.SaleID)
	log.Info().
		Str("sale_id", sale.SaleID).
		Str("store_id", sale.StoreID).
		Int("quantity", sale.QuantitySold).
		Msg("retail sale recorded")
	return saleToResponse(sale), nil
}

func (s *saleService) List(ctx context.Context) ([]dto.RetailSaleResponse, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return salesToResponse(sales), nil
}

func salesToResponse(sales []model.RetailSale) []dto.RetailSaleResponse {
	resp := make([]dto.RetailSaleResponse, len(sales))
	for i := range sales {
		resp[i] = *saleToResponse(&sales[i])
	}
	return resp
}

func saleToResponse(s *model.RetailSale) *dto.RetailSaleResponse {
	return &dto.RetailSaleResponse{
		SaleID:           s.SaleID,
		SaleDate:         s.SaleDate.Format(dateLayout),
		StoreID:          s.StoreID,
		ProductID:        s.ProductID,
		BatchID:          s.BatchID,
		QuantitySold:     s.QuantitySold,
		SalePricePerUnit: s.SalePricePerUnit,
	}
}
