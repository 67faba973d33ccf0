package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signClaims(t *testing.T, claims Claims, key []byte) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	assert.NoError(t, err)
	return signed
}

func TestParseJWT(t *testing.T) {
	validClaims := Claims{
		AccountID: "admin-1",
		Role:      string(RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "auth_service",
		},
	}

	t.Run("合法 token 解析回相同 claims", func(t *testing.T) {
		claims, err := ParseJWT(signClaims(t, validClaims, JWTSecret))
		assert.NoError(t, err)
		assert.Equal(t, "admin-1", claims.AccountID)
		assert.Equal(t, string(RoleAdmin), claims.Role)
		assert.Equal(t, "auth_service", claims.Issuer)
	})

	t.Run("亂字串解析失敗", func(t *testing.T) {
		_, err := ParseJWT("not-a-token")
		assert.Error(t, err)
	})

	t.Run("錯誤簽名金鑰解析失敗", func(t *testing.T) {
		_, err := ParseJWT(signClaims(t, validClaims, []byte("wrong_key")))
		assert.Error(t, err)
	})

	t.Run("過期 token 解析失敗", func(t *testing.T) {
		expired := validClaims
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := ParseJWT(signClaims(t, expired, JWTSecret))
		assert.Error(t, err)
	})

	t.Run("非 HMAC 簽名方法拒絕", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		assert.NoError(t, err)

		_, err = ParseJWT(unsigned)
		assert.Error(t, err)
	})
}
