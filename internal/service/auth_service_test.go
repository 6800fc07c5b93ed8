package service_test

import (
	"context"
	"testing"

	"github.com/yashas-13/inv-123/internal/config"
	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	users    *stubUserRepo
	partners *stubPartnerRepo
	svc      service.AuthService
	cfg      *config.Config
}

func newAuthFixture() *authFixture {
	cfg := &config.Config{JWTSecret: "test-secret-test-secret-test-secret", JWTExpirationHours: 8, JWTRefreshHours: 24}
	f := &authFixture{
		users:    newStubUserRepo(),
		partners: newStubPartnerRepo(),
		cfg:      cfg,
	}
	locations := newStubLocationRepo(model.Location{LocationID: storeLoc, LocationType: model.LocationRetailStore})
	f.svc = service.NewAuthService(f.users, f.partners, locations, cfg)
	service.SetAuthCost(f.svc, bcrypt.MinCost)
	return f
}

func parseClaims(t *testing.T, secret, token string) jwt.MapClaims {
	t.Helper()
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) { return []byte(secret), nil })
	require.NoError(t, err)
	return claims
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, err := f.svc.Register(ctx, dto.RegisterRequest{Username: "ops", Password: "s3cret-pass", Role: model.RoleArivu})
	require.NoError(t, err)
	assert.Equal(t, model.RoleArivu, user.Role)

	resp, err := f.svc.Login(ctx, dto.LoginRequest{Username: "ops", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)

	claims := parseClaims(t, f.cfg.JWTSecret, resp.AccessToken)
	assert.Equal(t, "ops", claims["username"])
	assert.Equal(t, model.RoleArivu, claims["role"])
	assert.Equal(t, model.TokenTypeAccess, claims["typ"])
	assert.NotContains(t, claims, "store_id")

	refresh := parseClaims(t, f.cfg.JWTSecret, resp.RefreshToken)
	assert.Equal(t, model.TokenTypeRefresh, refresh["typ"])
}

func TestAuth_LoginRejectsBadPassword(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, dto.RegisterRequest{Username: "ops", Password: "s3cret-pass", Role: model.RoleAdmin})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "ops", Password: "wrong-pass"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_RegisterRejections(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	_, err := f.svc.Register(ctx, dto.RegisterRequest{Username: "shop", Password: "s3cret-pass", Role: model.RoleStore})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = f.svc.Register(ctx, dto.RegisterRequest{Username: "ops", Password: "s3cret-pass", Role: model.RoleArivu})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, dto.RegisterRequest{Username: "ops", Password: "other-pass", Role: model.RoleArivu})
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestAuth_RefreshIssuesNewPair(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, dto.RegisterRequest{Username: "ops", Password: "s3cret-pass", Role: model.RoleArivu})
	require.NoError(t, err)
	login, err := f.svc.Login(ctx, dto.LoginRequest{Username: "ops", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "ops", refreshed.User.Username)

	_, err = f.svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_RefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, err := f.svc.Register(ctx, dto.RegisterRequest{Username: "ops", Password: "s3cret-pass", Role: model.RoleArivu})
	require.NoError(t, err)
	login, err := f.svc.Login(ctx, dto.LoginRequest{Username: "ops", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, login.AccessToken)

	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_CreateStorePartnerAccount(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	req := dto.CreateStorePartnerAccountRequest{
		CreateRetailPartnerRequest: dto.CreateRetailPartnerRequest{StoreID: storeID, LocationID: storeLoc, StoreName: "Store One"},
		Username:                   "store1",
		Password:                   "s3cret-pass",
	}

	resp, err := f.svc.CreateStorePartnerAccount(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, storeID, resp.StoreID)
	assert.Contains(t, f.partners.partners, storeID)

	login, err := f.svc.Login(ctx, dto.LoginRequest{Username: "store1", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStore, login.Role)
	require.NotNil(t, login.StoreID)
	assert.Equal(t, storeID, *login.StoreID)
	assert.Equal(t, storeID, parseClaims(t, f.cfg.JWTSecret, login.AccessToken)["store_id"])

	req.Username = "store1-bis"
	_, err = f.svc.CreateStorePartnerAccount(ctx, req)
	assert.ErrorIs(t, err, service.ErrDuplicate)
}

func TestAuth_StoreAccountUnknownLocation(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.CreateStorePartnerAccount(context.Background(), dto.CreateStorePartnerAccountRequest{
		CreateRetailPartnerRequest: dto.CreateRetailPartnerRequest{StoreID: "ST9", LocationID: "NOWHERE", StoreName: "x"},
		Username:                   "store9",
		Password:                   "s3cret-pass",
	})

	assert.ErrorIs(t, err, service.ErrUnknownLocation)
	assert.Empty(t, f.users.users)
}
