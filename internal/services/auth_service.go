package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"IndoHomz/internal/models"
	"IndoHomz/internal/repositories"
	"IndoHomz/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are carried by both access and refresh tokens.
type Claims struct {
	Email string `json:"email"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// AdminID is the numeric subject of the token.
func (c *Claims) AdminID() (int, error) {
	return strconv.Atoi(c.Subject)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.Administrator, *models.TokenResponse, error)
	Authenticate(ctx context.Context, email, password string) (*models.Administrator, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error)
	ParseAccess(token string) (*Claims, error)
	Admin(ctx context.Context, id int) (*models.Administrator, error)
	CreateAdmin(ctx context.Context, email, password, name string) (*models.Administrator, bool, error)
}

type authService struct {
	admins     repositories.AdminRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewAuthService(admins repositories.AdminRepository, secret string, accessTTL, refreshTTL time.Duration) AuthService {
	return &authService{
		admins:     admins,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Authenticate checks the password and records the login time.
// Unknown emails and bad passwords both yield ErrInvalidCredentials.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*models.Administrator, error) {
	a, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, a.PasswordHash) {
		return nil, utils.ErrInvalidCredentials
	}
	if !a.IsActive {
		return nil, utils.ErrAccountDisabled
	}
	now := s.now()
	if err := s.admins.TouchLastLogin(ctx, a.ID, now); err != nil {
		return nil, err
	}
	a.LastLogin = &now
	return a, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.Administrator, *models.TokenResponse, error) {
	a, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	tokens, err := s.issue(a)
	if err != nil {
		return nil, nil, err
	}
	return a, tokens, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenResponse, error) {
	claims, err := s.parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}
	id, err := claims.AdminID()
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	a, err := s.admins.GetByID(ctx, id)
	if errors.Is(err, utils.ErrNotFound) {
		return nil, utils.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !a.IsActive {
		return nil, utils.ErrAccountDisabled
	}
	return s.issue(a)
}

func (s *authService) ParseAccess(token string) (*Claims, error) {
	return s.parse(token, TokenTypeAccess)
}

func (s *authService) Admin(ctx context.Context, id int) (*models.Administrator, error) {
	return s.admins.GetByID(ctx, id)
}

// CreateAdmin creates an administrator, or re-activates and re-keys an
// existing one with the same email. created reports which happened.
func (s *authService) CreateAdmin(ctx context.Context, email, password, name string) (*models.Administrator, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, false, utils.NewAppError(http.StatusBadRequest, utils.ErrCodeValidation, "Email is required", nil)
	}
	if !utils.ValidatePasswordStrength(password) {
		return nil, false, utils.ErrWeakPassword
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	a, err := s.admins.GetByEmail(ctx, email)
	created := false
	switch {
	case errors.Is(err, utils.ErrNotFound):
		a = &models.Administrator{Email: email}
		created = true
	case err != nil:
		return nil, false, err
	}
	a.PasswordHash = hash
	a.IsActive = true
	if name != "" {
		a.Name = name
	}
	if a.Name == "" {
		a.Name = "Administrator"
	}
	if err := s.admins.Save(ctx, a); err != nil {
		return nil, false, err
	}
	return a, created, nil
}

func (s *authService) issue(a *models.Administrator) (*models.TokenResponse, error) {
	access, err := s.sign(a, TokenTypeAccess, s.accessTTL, "")
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(a, TokenTypeRefresh, s.refreshTTL, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &models.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(s.accessTTL.Seconds()),
	}, nil
}

func (s *authService) sign(a *models.Administrator, typ string, ttl time.Duration, jti string) (string, error) {
	now := s.now()
	claims := Claims{
		Email: a.Email,
		Type:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(a.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (s *authService) parse(token, wantType string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, utils.ErrInvalidToken
	}
	return claims, nil
}
