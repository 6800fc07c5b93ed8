package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yashas-13/inv-123/internal/config"
	"github.com/yashas-13/inv-123/internal/dto"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 12

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	// CreateStorePartnerAccount registers a retail partner and its store
	// login in one transaction.
	CreateStorePartnerAccount(ctx context.Context, req dto.CreateStorePartnerAccountRequest) (*dto.StorePartnerAccountResponse, error)
}

type authService struct {
	repo      repository.UserRepository
	partners  repository.RetailPartnerRepository
	locations repository.LocationRepository
	cfg       *config.Config
	cost      int
}

func NewAuthService(
	repo repository.UserRepository,
	partners repository.RetailPartnerRepository,
	locations repository.LocationRepository,
	cfg *config.Config,
) AuthService {
	return &authService{repo: repo, partners: partners, locations: locations, cfg: cfg, cost: bcryptCost}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	if req.Role == model.RoleStore && (req.StoreID == nil || *req.StoreID == "") {
		return nil, fmt.Errorf("%w: store users need a store_id", ErrInvalidInput)
	}
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: username %s", ErrDuplicate, req.Username)
	}
	user, err := s.newUser(req.Username, req.Password, req.Role, req.StoreID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicateOr(err, "username", user.Username)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: refresh token invalid or expired", ErrInvalidCredentials)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: malformed claims", ErrInvalidCredentials)
	}
	if typ, _ := claims["typ"].(string); typ != model.TokenTypeRefresh {
		return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidCredentials)
	}
	userIDStr, _ := claims["user_id"].(string)
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed token", ErrInvalidCredentials)
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, fmt.Errorf("%w: user not found or inactive", ErrInvalidCredentials)
	}
	return s.issueTokens(user)
}

func (s *authService) CreateStorePartnerAccount(ctx context.Context, req dto.CreateStorePartnerAccountRequest) (*dto.StorePartnerAccountResponse, error) {
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: username %s", ErrDuplicate, req.Username)
	}

	partner := partnerFromRequest(req.CreateRetailPartnerRequest)
	storeID := partner.StoreID
	user, err := s.newUser(req.Username, req.Password, model.RoleStore, &storeID)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.partners.DB(), func(tx *gorm.DB) error {
		if err := createPartnerTx(ctx, tx, s.partners, s.locations, partner); err != nil {
			return err
		}
		return duplicateOr(s.repo.CreateTx(tx, user), "username", user.Username)
	})
	if err != nil {
		return nil, err
	}
	return &dto.StorePartnerAccountResponse{
		StoreID: partner.StoreID,
		UserID:  user.ID.String(),
		Message: "Store partner account created",
	}, nil
}

func (s *authService) newUser(username, password, role string, storeID *string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	return &model.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		StoreID:      storeID,
		Active:       true,
	}, nil
}

func (s *authService) issueTokens(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, model.TokenTypeAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, model.TokenTypeRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Role:         user.Role,
		StoreID:      user.StoreID,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, tokenType string, duration time.Duration) (string, error) {
	if s.cfg.JWTSecret == "" {
		return "", errors.New("jwt secret not configured")
	}
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"typ":      tokenType,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	if user.StoreID != nil {
		claims["store_id"] = *user.StoreID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Role:     u.Role,
		StoreID:  u.StoreID,
		Active:   u.Active,
	}
}
