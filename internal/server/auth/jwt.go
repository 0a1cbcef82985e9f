// Package auth issues and validates signed, time-limited session tokens.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the identity fact set embedded in a session token.
// CredentialVersion is the user's credential version at issuance time.
type Claims struct {
	jwt.RegisteredClaims
	UserID            int64  `json:"id"`
	Email             string `json:"email"`
	Username          string `json:"username"`
	CredentialVersion int64  `json:"ver"`
}

// Codec signs and validates session tokens with a process-wide HMAC secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Issue returns a token for claims that expires ttl from now.
func (c *Codec) Issue(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(claims.UserID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Validate checks signature and expiry and returns the embedded claims.
// Expired tokens yield common.ErrTokenExpired, everything else that fails
// yields common.ErrInvalidToken. Both match common.ErrInvalidToken.
func (c *Codec) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
