package ai

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyHMAC verifies a sha256 HMAC hex signature against payload and secret
func VerifyHMAC(secret string, payload []byte, signatureHex string) bool {
	if secret == "" || signatureHex == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHex))
}

// SecureCompare compares a received webhook auth header value against
// the configured secret in constant time
func SecureCompare(secret, received string) bool {
	if secret == "" || received == "" {
		return false
	}
	return hmac.Equal([]byte(secret), []byte(received))
}
