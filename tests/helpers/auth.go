package helpers

import (
	"crypto/rand"
	"math/big"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// RandomUserID returns a fresh user id so tests sharing a database stay isolated
func RandomUserID() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

	id := make([]byte, 12)
	for i := range id {
		id[i] = alphabet[randInt(len(alphabet))]
	}
	return "user-" + string(id)
}

// SignToken issues an HS256 token carrying userID in the "id" claim
func SignToken(t *testing.T, secret, userID string, ttl time.Duration) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}
