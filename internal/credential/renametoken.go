package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const renamePurpose = "rename"

var errBadRenameToken = errors.New("invalid rename token")

// RenameTokens issues and verifies the short-lived signed capability tokens
// that authorize a holder identity change. The administrator issues a token
// for one specific account; the holder presents it with the rename request.
type RenameTokens struct {
	secret []byte
	ttl    time.Duration
}

func NewRenameTokens(secret []byte, ttl time.Duration) *RenameTokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RenameTokens{secret: secret, ttl: ttl}
}

// Issue signs a rename capability bound to the current holder id.
func (r *RenameTokens) Issue(accountID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     accountID,
		"purpose": renamePurpose,
		"iat":     now.Unix(),
		"exp":     now.Add(r.ttl).Unix(),
	})
	return token.SignedString(r.secret)
}

// AuthorizeRename verifies the token signature, expiry, purpose, and that it
// was issued for the account being renamed.
func (r *RenameTokens) AuthorizeRename(currentID, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return r.secret, nil
	})
	if err != nil || !token.Valid {
		return errBadRenameToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errBadRenameToken
	}
	if purpose, _ := claims["purpose"].(string); purpose != renamePurpose {
		return errBadRenameToken
	}
	if sub, _ := claims["sub"].(string); sub != currentID {
		return errBadRenameToken
	}
	return nil
}
