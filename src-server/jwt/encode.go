package jwt

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// New issues a payload for userName valid for ttl from now.
func New(userName string, now time.Time, ttl time.Duration) Payload {
	return Payload{
		ID:        uuid.NewString(),
		UserName:  userName,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

func sign(signingInput, secret string) []byte {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write([]byte(signingInput))
	return h.Sum(nil)
}

func Encode(payload Payload, secret string) (string, error) {
	// payload
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("can't marshal payload: %v", err)
	}
	payloadBase64 := base64.RawURLEncoding.EncodeToString(payloadJson)

	// header
	headerJson, err := json.Marshal(Header{Algorithm: "HS512", Type: "JWT"})
	if err != nil {
		return "", fmt.Errorf("can't marshal header: %v", err)
	}
	headerBase64 := base64.RawURLEncoding.EncodeToString(headerJson)

	// signature
	signingInput := headerBase64 + "." + payloadBase64
	sigBase64 := base64.RawURLEncoding.EncodeToString(sign(signingInput, secret))

	return signingInput + "." + sigBase64, nil
}
