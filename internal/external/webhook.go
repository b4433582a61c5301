package external

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Webhook delivery headers set by the store.
const (
	HeaderWebhookTopic      = "X-WC-Webhook-Topic"
	HeaderWebhookResource   = "X-WC-Webhook-Resource"
	HeaderWebhookDeliveryID = "X-WC-Webhook-Delivery-ID"
	HeaderWebhookSignature  = "X-WC-Webhook-Signature"
)

// SignatureMode decides what a signature mismatch does.
type SignatureMode string

const (
	// SignaturePermissive logs mismatches and processes the delivery anyway.
	SignaturePermissive SignatureMode = "permissive"
	// SignatureStrict rejects deliveries without a valid signature.
	SignatureStrict SignatureMode = "strict"
)

// SignWebhook returns base64(HMAC-SHA256(body, secret)).
func SignWebhook(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyWebhookSignature compares signature with the expected value in
// constant time.
func VerifyWebhookSignature(body []byte, secret, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(SignWebhook(body, secret)), []byte(signature))
}
