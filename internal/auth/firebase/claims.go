package firebase

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// idTokenClaims is the subset of Firebase ID-token claims passvault reads.
// The subject claim carries the stable user id.
type idTokenClaims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Name     string `json:"name"`
	Firebase struct {
		SignInProvider string `json:"sign_in_provider"`
	} `json:"firebase"`
}

// decodeIDToken extracts claims without verifying the signature: the token is
// received directly from the provider over TLS and is never accepted from any
// other source.
func decodeIDToken(token string) (*idTokenClaims, error) {
	claims := &idTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	return claims, nil
}
