package remote

import (
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims mirrors the claims issued by the document server.
type tokenClaims struct {
	jwt.RegisteredClaims
	UserID string
}

// NamespaceFromToken reads the user id out of an access token. The signature
// is not checked here; the server verifies it on every call.
func NamespaceFromToken(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	if claims.UserID == "" {
		return "", false
	}
	return common.UserNamespace(claims.UserID), true
}
