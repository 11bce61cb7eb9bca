package jwt_test

import (
	"context"
	"testing"
	"time"

	"fleetops/config"
	"fleetops/infras/jwt"
	"fleetops/infras/otel/mocks"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(expireMin int) jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "fleetops"
	cfg.JWT.AccessSecret = "test-secret"
	cfg.JWT.AccessExpireMin = expireMin

	return jwt.New(cfg, mocks.NewOtel())
}

func TestService_GenerateAndValidate(t *testing.T) {
	svc := newService(15)

	token, err := svc.GenerateAccessToken("u-7", "Sam Surveyor", "surveyor")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u-7", claims.UserID)
	assert.Equal(t, "surveyor", claims.Role)
	assert.Equal(t, "fleetops", claims.Issuer)
	assert.NotEmpty(t, claims.TokenID)
}

func TestService_GenerateRejectsUnknownRole(t *testing.T) {
	svc := newService(15)

	_, err := svc.GenerateAccessToken("u-7", "Sam", "captain")

	assert.ErrorIs(t, err, jwt.ErrInvalidClaim)
}

func TestService_ValidateToken(t *testing.T) {
	svc := newService(15)

	sign := func(claims gojwt.Claims, secret string) string {
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		return token
	}

	future := gojwt.NewNumericDate(time.Now().Add(time.Hour))
	past := gojwt.NewNumericDate(time.Now().Add(-time.Hour))

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "wrong secret",
			token: sign(&jwt.Claims{UserID: "u-1", Role: "owner", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "fleetops", ExpiresAt: future}},
				"other-secret"),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "expired",
			token: sign(&jwt.Claims{UserID: "u-1", Role: "owner", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "fleetops", ExpiresAt: past}},
				"test-secret"),
			wantErr: jwt.ErrExpiredToken,
		},
		{
			name: "foreign issuer",
			token: sign(&jwt.Claims{UserID: "u-1", Role: "owner", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "elsewhere", ExpiresAt: future}},
				"test-secret"),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name:    "none algorithm",
			token:   unsigned(t, &jwt.Claims{UserID: "u-1", Role: "admin", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "fleetops", ExpiresAt: future}}),
			wantErr: jwt.ErrInvalidToken,
		},
		{
			name: "missing role",
			token: sign(&jwt.Claims{UserID: "u-1", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "fleetops", ExpiresAt: future}},
				"test-secret"),
			wantErr: jwt.ErrInvalidClaim,
		},
		{
			name: "missing user",
			token: sign(&jwt.Claims{Role: "admin", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "fleetops", ExpiresAt: future}},
				"test-secret"),
			wantErr: jwt.ErrInvalidClaim,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(context.Background(), tt.token)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func unsigned(t *testing.T, claims gojwt.Claims) string {
	t.Helper()

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	return token
}

func TestExtractTokenFromHeader(t *testing.T) {
	token, err := jwt.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = jwt.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Basic dXNlcg==")
	assert.Error(t, err)

	_, err = jwt.ExtractTokenFromHeader("Bearer   ")
	assert.Error(t, err)
}
