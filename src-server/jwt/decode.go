package jwt

import (
	"crypto/hmac"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

func Decode(token string, secret string, now time.Time) (*Payload, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid token length: %w", ErrInvalidToken)
	}

	// signature first, nothing else is trusted before it checks out
	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("can't decode signature: %w", ErrInvalidToken)
	}
	if !hmac.Equal(sign(parts[0]+"."+parts[1], secret), signature) {
		return nil, fmt.Errorf("invalid signature: %w", ErrInvalidToken)
	}

	// payload
	payloadJson, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("can't decode payload: %w", ErrInvalidToken)
	}
	var payload Payload
	if err := json.Unmarshal(payloadJson, &payload); err != nil {
		return nil, fmt.Errorf("can't unmarshal payload: %w", ErrInvalidToken)
	}
	if payload.ExpiresAt != 0 && now.Unix() >= payload.ExpiresAt {
		return nil, ErrExpired
	}

	return &payload, nil
}
