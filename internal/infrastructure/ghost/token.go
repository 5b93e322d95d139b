package ghost

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminToken builds the short-lived JWT the Ghost Admin API expects.
// The admin key has the form "<id>:<hex secret>"; the id becomes the
// token's kid header and the decoded secret signs it.
func adminToken(adminAPIKey string, now time.Time) (string, error) {
	id, secretHex, ok := strings.Cut(adminAPIKey, ":")
	if !ok || id == "" || secretHex == "" {
		return "", fmt.Errorf("admin api key must be id:secret")
	}

	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		return "", fmt.Errorf("decode admin api secret: %w", err)
	}

	claims := jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": "/admin/",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = id

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}
