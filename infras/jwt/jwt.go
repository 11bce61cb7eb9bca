package jwt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetops/config"
	"fleetops/infras/otel"
	"fleetops/shared/constant"
	"fleetops/shared/timezone"
	"fleetops/shared/validator"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

const (
	bearerPrefix = "Bearer "
	clockSkew    = 30 * time.Second
)

// Claims identifies the console actor a token was issued to.
type Claims struct {
	UserID  string `json:"user_id" validate:"required"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role"    validate:"required,role"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}

type JWT interface {
	GenerateAccessToken(userID, name, role string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

type Service struct {
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) JWT {
	return &Service{
		config: cfg,
		otel:   otl,
	}
}

// GenerateAccessToken signs an access token for the actor. Login lives
// outside this service; this is used by the token command and tests.
func (s *Service) GenerateAccessToken(userID, name, role string) (string, error) {
	issuedAt := timezone.Now()
	expiresAt := issuedAt.Add(time.Duration(s.config.JWT.AccessExpireMin) * time.Minute)
	tokenID := uuid.NewString()

	claims := Claims{
		UserID:  userID,
		Name:    name,
		Role:    role,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
			Issuer:    s.config.App.Name,
			Subject:   userID,
			ID:        tokenID,
		},
	}

	if err := validator.ValidateStruct(&claims); err != nil {
		return constant.Empty, fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString([]byte(s.config.JWT.AccessSecret))
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken accepts only HS256 tokens issued by this service.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (res *Claims, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".jwt.ValidateToken")
	defer scope.End()
	defer scope.TraceIfError(&err)

	claims := &Claims{}

	_, err = jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return []byte(s.config.JWT.AccessSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.config.App.Name),
		jwt.WithLeeway(clockSkew),
	)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if err = validator.ValidateStruct(claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidClaim, err)
	}

	return claims, nil
}

var (
	errMissingHeader = errors.New("authorization header is required")
	errNotBearer     = errors.New("authorization header must use the Bearer scheme")
)

// ExtractTokenFromHeader returns the token of a "Bearer <token>" header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == constant.Empty {
		return constant.Empty, errMissingHeader
	}

	token, ok := strings.CutPrefix(authHeader, bearerPrefix)
	if !ok || strings.TrimSpace(token) == constant.Empty {
		return constant.Empty, errNotBearer
	}

	return strings.TrimSpace(token), nil
}
