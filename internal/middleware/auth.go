package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// publicPaths are excluded from API-key authentication: health/docs are
// unauthenticated by design, and the chat-provider webhook carries its
// own HMAC signature check instead of an API key.
var publicPaths = map[string]bool{
	"/health":        true,
	"/docs":          true,
	"/openapi.json":  true,
	"/openapi.yaml":  true,
	"/webhooks/chat": true,
}

// APIKeyAuth validates API key authentication for every Huma operation
// outside publicPaths: requests must include an "X-API-Key" header
// matching apiKey. The server registers it only when an API key is
// configured; /metrics is a chi route and checks the header itself.
func APIKeyAuth(api huma.API, apiKey string) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		if publicPaths[ctx.URL().Path] {
			next(ctx)
			return
		}

		providedKey := ctx.Header("X-API-Key")
		if !secureCompare(providedKey, apiKey) {
			_ = huma.WriteErr(api, ctx, http.StatusUnauthorized, "Invalid or missing API key")
			return
		}

		next(ctx)
	}
}

// secureCompare performs a constant-time comparison of two strings to
// prevent timing attacks. Pads inputs to equal length to avoid leaking
// information about the expected key length.
func secureCompare(a, b string) bool {
	aBytes := []byte(a)
	bBytes := []byte(b)

	maxLen := len(aBytes)
	if len(bBytes) > maxLen {
		maxLen = len(bBytes)
	}

	aPadded := make([]byte, maxLen)
	bPadded := make([]byte, maxLen)
	copy(aPadded, aBytes)
	copy(bPadded, bBytes)

	match := subtle.ConstantTimeCompare(aPadded, bPadded)
	lengthMatch := subtle.ConstantTimeEq(int32(len(aBytes)), int32(len(bBytes)))

	return match == 1 && lengthMatch == 1
}
