package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTTL  = time.Hour
	refreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	UserID  uint `json:"uid"`
	Admin   bool `json:"adm"`
	Refresh bool `json:"rfs,omitempty"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// IssueTokens mints an access/refresh pair for the principal.
func IssueTokens(secret string, userID uint, admin bool, now time.Time) (TokenPair, error) {
	access, err := sign(secret, userID, admin, false, now, accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := sign(secret, userID, admin, true, now, refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func sign(secret string, userID uint, admin, refresh bool, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID:  userID,
		Admin:   admin,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

var errNotAccessToken = errors.New("refresh token used where an access token is required")

// ParseAccess validates a bearer token and rejects refresh tokens outright:
// only access tokens authenticate requests.
func ParseAccess(secret, token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Claims{}, err
	}
	if claims.Refresh {
		return Claims{}, errNotAccessToken
	}
	return claims, nil
}
