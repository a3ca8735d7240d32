package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-be/internal/apperror"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = apperror.New(apperror.KindUnauthenticated, "invalid or expired token")

type CustomClaims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier turns a bearer token into a Principal.
type Verifier interface {
	Verify(token string) (Principal, error)
}

// HMACVerifier checks HS256 tokens signed by the identity service.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&CustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Principal{}, apperror.Wrap(apperror.KindUnauthenticated, err, ErrInvalidToken.Message)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return Principal{}, ErrInvalidToken
	}

	role := Role(strings.ToUpper(claims.Role))
	if role != RoleAdmin {
		role = RoleUser
	}
	return Principal{UserID: claims.UserID, Role: role}, nil
}

// Sign issues a token for p. Production tokens come from the identity
// service; this exists for local tooling and tests.
func (v *HMACVerifier) Sign(p Principal, ttl time.Duration) (string, error) {
	if p.UserID == 0 {
		return "", fmt.Errorf("sign token: missing user id")
	}
	claims := CustomClaims{
		UserID: p.UserID,
		Role:   string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

func ExtractAccessToken(r *http.Request) string {
	// cookie first
	if cookie, err := r.Cookie("access_token"); err == nil {
		if cookie.Value != "" {
			return cookie.Value
		}
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return ""
}
