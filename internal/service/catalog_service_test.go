package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	products  *stubProductRepo
	locations *stubLocationRepo
	agents    *stubAgentRepo
	partners  *stubPartnerRepo
	notifier  *recordingNotifier
	svc       service.CatalogService
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products:  newStubProductRepo(),
		locations: newStubLocationRepo(model.Location{LocationID: storeLoc, LocationType: model.LocationRetailStore}),
		agents:    newStubAgentRepo(),
		partners:  newStubPartnerRepo(),
		notifier:  &recordingNotifier{},
	}
	f.svc = service.NewCatalogService(f.products, f.locations, f.agents, f.partners, f.notifier)
	return f
}

func TestCatalog_CreateProductRejectsDuplicate(t *testing.T) {
	f := newCatalogFixture()
	req := dto.CreateProductRequest{ProductID: "MS500G", ProductName: "Millet Soup", UnitOfMeasure: "g", StandardPackSize: decimal.NewFromInt(500)}

	_, err := f.svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	_, err = f.svc.CreateProduct(context.Background(), req)

	assert.ErrorIs(t, err, service.ErrDuplicate)
	list, err := f.svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalog_SyncProductsUpserts(t *testing.T) {
	f := newCatalogFixture()
	f.products.products["MS500G"] = &model.Product{ProductID: "MS500G", ProductName: "Old Name", UnitOfMeasure: "g"}
	sheet := "Product Name,Quantity,measurement,Price (₹)\nMillet Soup,500,g,120\nRagi Malt,1,kg,90\n"

	n, err := f.svc.SyncProducts(context.Background(), strings.NewReader(sheet), "products.csv")

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, f.products.products, 2)
	assert.Equal(t, "Millet Soup", f.products.products["MS500G"].ProductName)
	assert.Equal(t, []string{"product_sync:products.csv"}, f.notifier.events)
}

func TestCatalog_CreateLocationDefaultsCountry(t *testing.T) {
	f := newCatalogFixture()

	_, err := f.svc.CreateLocation(context.Background(), dto.CreateLocationRequest{
		LocationID: "WH2", LocationName: "Second Warehouse", LocationType: model.LocationWarehouse,
	})

	require.NoError(t, err)
	assert.Equal(t, "India", f.locations.locations["WH2"].Country)

	_, err = f.svc.CreateLocation(context.Background(), dto.CreateLocationRequest{LocationID: "WH2", LocationName: "x", LocationType: "x"})
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestCatalog_CreateRetailPartner(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	resp, err := f.svc.CreateRetailPartner(ctx, dto.CreateRetailPartnerRequest{StoreID: storeID, LocationID: storeLoc, StoreName: "Store One"})
	require.NoError(t, err)
	assert.Equal(t, storeLoc, resp.LocationID)

	_, err = f.svc.CreateRetailPartner(ctx, dto.CreateRetailPartnerRequest{StoreID: storeID, LocationID: storeLoc, StoreName: "Again"})
	assert.ErrorIs(t, err, service.ErrDuplicate)

	_, err = f.svc.CreateRetailPartner(ctx, dto.CreateRetailPartnerRequest{StoreID: "ST2", LocationID: "NOWHERE", StoreName: "Lost"})
	assert.ErrorIs(t, err, service.ErrUnknownLocation)

	partners, err := f.svc.ListRetailPartners(ctx)
	require.NoError(t, err)
	assert.Len(t, partners, 1)
}

func TestCatalog_Agents(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	_, err := f.svc.CreateAgent(ctx, dto.CreateAgentRequest{AgentID: "A1", AgentName: "Ravi"})
	require.NoError(t, err)
	_, err = f.svc.CreateAgent(ctx, dto.CreateAgentRequest{AgentID: "A1", AgentName: "Ravi"})
	assert.ErrorIs(t, err, service.ErrDuplicate)

	agents, err := f.svc.ListAgents(ctx)
	require.NoError(t, err)
	assert.Len(t, agents, 1)
}
