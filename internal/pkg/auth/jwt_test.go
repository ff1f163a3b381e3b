package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/uniportal/internal/app/models"
	"github.com/yigit/uniportal/internal/pkg/apperrors"
)

const testSecret = "test-secret"

var issuedAt = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func newTestJWTService(issuer string, now time.Time) *JWTService {
	s := NewJWTService(JWTConfig{
		SecretKey:      testSecret,
		AccessTokenExp: time.Hour,
		TokenIssuer:    issuer,
	})
	s.now = func() time.Time { return now }
	return s
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims *Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func validClaims(userID int64) *Claims {
	return &Claims{
		UserID: userID,
		Email:  "s@uni.edu",
		Role:   string(models.RoleStudent),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    "uniportal",
			ID:        "token-1",
		},
	}
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	s := newTestJWTService("uniportal", issuedAt)
	user := &models.User{ID: 42, Email: "ada@uni.edu", Role: models.RoleFaculty}

	issued, err := s.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, issuedAt.Add(time.Hour), issued.ExpiresAt)
	assert.Equal(t, 3600, issued.ExpiresIn)

	claims, err := s.ValidateToken(issued.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada@uni.edu", claims.Email)
	assert.Equal(t, string(models.RoleFaculty), claims.Role)
	assert.Equal(t, issued.TokenID, claims.ID)
	assert.Equal(t, "42", claims.Subject)

	other, err := s.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEqual(t, issued.TokenID, other.TokenID)
}

func TestJWTService_GenerateToken_RequiresPersistedUser(t *testing.T) {
	s := newTestJWTService("uniportal", issuedAt)

	_, err := s.GenerateToken(nil)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = s.GenerateToken(&models.User{Email: "new@uni.edu"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestJWTService_ValidateToken(t *testing.T) {
	issuer := newTestJWTService("uniportal", issuedAt)
	issued, err := issuer.GenerateToken(&models.User{ID: 7, Email: "s@uni.edu", Role: models.RoleStudent})
	require.NoError(t, err)

	noUser := validClaims(0)
	noID := validClaims(7)
	noID.ID = ""

	tests := []struct {
		name      string
		validator *JWTService
		token     string
		wantErr   error
	}{
		{
			name:      "valid before expiry",
			validator: newTestJWTService("uniportal", issuedAt.Add(59*time.Minute)),
			token:     issued.AccessToken,
		},
		{
			name:      "expired",
			validator: newTestJWTService("uniportal", issuedAt.Add(2*time.Hour)),
			token:     issued.AccessToken,
			wantErr:   apperrors.ErrTokenExpired,
		},
		{
			name:      "wrong issuer",
			validator: newTestJWTService("someone-else", issuedAt),
			token:     issued.AccessToken,
			wantErr:   apperrors.ErrTokenInvalid,
		},
		{
			name: "wrong secret",
			validator: func() *JWTService {
				s := newTestJWTService("uniportal", issuedAt)
				s.config.SecretKey = "another-secret"
				return s
			}(),
			token:   issued.AccessToken,
			wantErr: apperrors.ErrTokenInvalid,
		},
		{
			name:      "unsigned token",
			validator: issuer,
			token:     signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, validClaims(7)),
			wantErr:   apperrors.ErrTokenInvalid,
		},
		{
			name:      "tampered signature",
			validator: issuer,
			token:     issued.AccessToken[:len(issued.AccessToken)-4] + "AAAA",
			wantErr:   apperrors.ErrTokenInvalid,
		},
		{
			name:      "missing user id",
			validator: issuer,
			token:     signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), noUser),
			wantErr:   apperrors.ErrTokenInvalid,
		},
		{
			name:      "missing token id",
			validator: issuer,
			token:     signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), noID),
			wantErr:   apperrors.ErrTokenInvalid,
		},
		{
			name:      "blank",
			validator: issuer,
			token:     "  ",
			wantErr:   apperrors.ErrTokenInvalid,
		},
		{
			name:      "garbage",
			validator: issuer,
			token:     "not.a.jwt",
			wantErr:   apperrors.ErrTokenInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tt.validator.ValidateToken(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(7), claims.UserID)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"standard", "Bearer abc.def.ghi", "abc.def.ghi", false},
		{"scheme is case insensitive", "bearer abc", "abc", false},
		{"surrounding whitespace", "  Bearer   abc  ", "abc", false},
		{"empty", "", "", true},
		{"scheme only", "Bearer", "", true},
		{"scheme and blank token", "Bearer    ", "", true},
		{"basic auth", "Basic dXNlcjpwYXNz", "", true},
		{"token without scheme", "abc.def.ghi", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(4)

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, h.Verify(hash, "correct horse"))
	assert.False(t, h.Verify(hash, "wrong horse"))
	assert.False(t, h.Verify("not-a-hash", "correct horse"))

	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).cost)
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).cost)
}
