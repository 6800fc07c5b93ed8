package service

import (
	"context"
	"fmt"
	"io"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// CatalogService maintains the reference data the ledger points at:
// products, locations, agents and retail partners.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	// SyncProducts upserts every product found in a CSV or XLSX sheet.
	SyncProducts(ctx context.Context, r io.Reader, filename string) (int, error)

	ListLocations(ctx context.Context) ([]dto.LocationResponse, error)
	CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)

	ListAgents(ctx context.Context) ([]dto.AgentResponse, error)
	CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*dto.AgentResponse, error)

	ListRetailPartners(ctx context.Context) ([]dto.RetailPartnerResponse, error)
	CreateRetailPartner(ctx context.Context, req dto.CreateRetailPartnerRequest) (*dto.RetailPartnerResponse, error)
}

type catalogService struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
	agents    repository.AgentRepository
	partners  repository.RetailPartnerRepository
	notifier  LedgerNotifier
}

func NewCatalogService(
	products repository.ProductRepository,
	locations repository.LocationRepository,
	agents repository.AgentRepository,
	partners repository.RetailPartnerRepository,
	notifier LedgerNotifier,
) CatalogService {
	return &catalogService{
		products:  products,
		locations: locations,
		agents:    agents,
		partners:  partners,
		notifier:  notifier,
	}
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *catalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductResponse, len(products))
	for i := range products {
		resp[i] = productToResponse(&products[i])
	}
	return resp, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if _, err := s.products.FindByID(ctx, req.ProductID); err == nil {
		return nil, fmt.Errorf("%w: product %s", ErrDuplicate, req.ProductID)
	} else if !isNotFound(err) {
		return nil, err
	}
	p := &model.Product{
		ProductID:        req.ProductID,
		ProductName:      req.ProductName,
		UnitOfMeasure:    req.UnitOfMeasure,
		StandardPackSize: req.StandardPackSize,
		MRP:              req.MRP,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, duplicateOr(err, "product", p.ProductID)
	}
	notify(ctx, s.notifier, "product", p.ProductID)
	resp := productToResponse(p)
	return &resp, nil
}

func (s *catalogService) SyncProducts(ctx context.Context, r io.Reader, filename string) (int, error) {
	products, err := ParseProductSheet(r, filename)
	if err != nil {
		return 0, err
	}
	err = runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		for i := range products {
			if err := s.products.UpsertTx(tx, &products[i]); err != nil {
				return fmt.Errorf("upsert %s: %w", products[i].ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	notify(ctx, s.notifier, "product_sync", filename)
	log.Info().Str("source", filename).Int("count", len(products)).Msg("products synced")
	return len(products), nil
}

func productToResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ProductID:        p.ProductID,
		ProductName:      p.ProductName,
		UnitOfMeasure:    p.UnitOfMeasure,
		StandardPackSize: p.StandardPackSize,
		MRP:              p.MRP,
	}
}

// ── Locations ────────────────────────────────────────────────────────────────

func (s *catalogService) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locs, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.LocationResponse, len(locs))
	for i, l := range locs {
		resp[i] = dto.LocationResponse{LocationID: l.LocationID, LocationName: l.LocationName, LocationType: l.LocationType}
	}
	return resp, nil
}

func (s *catalogService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if _, err := s.locations.FindByID(ctx, req.LocationID); err == nil {
		return nil, fmt.Errorf("%w: location %s", ErrDuplicate, req.LocationID)
	} else if !isNotFound(err) {
		return nil, err
	}
	country := req.Country
	if country == "" {
		country = "India"
	}
	l := &model.Location{
		LocationID:   req.LocationID,
		LocationName: req.LocationName,
		LocationType: req.LocationType,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Country:      country,
	}
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, duplicateOr(err, "location", l.LocationID)
	}
	return &dto.LocationResponse{LocationID: l.LocationID, LocationName: l.LocationName, LocationType: l.LocationType}, nil
}

// ── Agents ───────────────────────────────────────────────────────────────────

func (s *catalogService) ListAgents(ctx context.Context) ([]dto.AgentResponse, error) {
	agents, err := s.agents.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.AgentResponse, len(agents))
	for i, a := range agents {
		resp[i] = dto.AgentResponse{AgentID: a.AgentID, AgentName: a.AgentName, ContactNumber: a.ContactNumber, Email: a.Email}
	}
	return resp, nil
}

func (s *catalogService) CreateAgent(ctx context.Context, req dto.CreateAgentRequest) (*dto.AgentResponse, error) {
	a := &model.Agent{AgentID: req.AgentID, AgentName: req.AgentName, ContactNumber: req.ContactNumber, Email: req.Email}
	if err := s.agents.Create(ctx, a); err != nil {
		return nil, duplicateOr(err, "agent", a.AgentID)
	}
	return &dto.AgentResponse{AgentID: a.AgentID, AgentName: a.AgentName, ContactNumber: a.ContactNumber, Email: a.Email}, nil
}

// ── Retail partners ──────────────────────────────────────────────────────────

func (s *catalogService) ListRetailPartners(ctx context.Context) ([]dto.RetailPartnerResponse, error) {
	partners, err := s.partners.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RetailPartnerResponse, len(partners))
	for i, p := range partners {
		resp[i] = dto.RetailPartnerResponse{StoreID: p.StoreID, LocationID: p.LocationID, StoreName: p.StoreName}
	}
	return resp, nil
}

func (s *catalogService) CreateRetailPartner(ctx context.Context, req dto.CreateRetailPartnerRequest) (*dto.RetailPartnerResponse, error) {
	p := partnerFromRequest(req)
	err := runTx(ctx, s.partners.DB(), func(tx *gorm.DB) error {
		return createPartnerTx(ctx, tx, s.partners, s.locations, p)
	})
	if err != nil {
		return nil, err
	}
	return &dto.RetailPartnerResponse{StoreID: p.StoreID, LocationID: p.LocationID, StoreName: p.StoreName}, nil
}

func partnerFromRequest(req dto.CreateRetailPartnerRequest) *model.RetailPartner {
	return &model.RetailPartner{
		StoreID:       req.StoreID,
		LocationID:    req.LocationID,
		StoreName:     req.StoreName,
		ContactPerson: req.ContactPerson,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
	}
}

// createPartnerTx rejects a reused store id or an unknown location and then
// inserts the partner. Shared by the plain partner route and the store
// account route, which also creates a user in the same transaction.
func createPartnerTx(ctx context.Context, tx *gorm.DB, partners repository.RetailPartnerRepository, locations repository.LocationRepository, p *model.RetailPartner) error {
	if _, err := partners.FindByStoreIDTx(tx, p.StoreID); err == nil {
		return fmt.Errorf("%w: store %s", ErrDuplicate, p.StoreID)
	} else if !isNotFound(err) {
		return err
	}
	if _, err := locations.FindByID(ctx, p.LocationID); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%w: %s", ErrUnknownLocation, p.LocationID)
		}
		return err
	}
	return duplicateOr(partners.CreateTx(tx, p), "store", p.StoreID)
}
