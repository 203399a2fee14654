package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignPayload returns the hex HMAC-SHA256 of payload under secret
func SignPayload(payload []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPayload checks payload against a checksum produced by SignPayload
func VerifyPayload(payload []byte, checksum, secret string) error {
	want, err := hex.DecodeString(checksum)
	if err != nil {
		return fmt.Errorf("failed to decode checksum: %w", err)
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	if !hmac.Equal(h.Sum(nil), want) {
		return fmt.Errorf("checksum does not match payload")
	}
	return nil
}
