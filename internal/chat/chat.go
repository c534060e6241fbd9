// Package chat is the client for the chat-provider integration (spec.md
// §6.1): outbound message send, rate-limited to the provider's global
// cap, and inbound webhook verification (HMAC signature check and the
// GET challenge echo) used by internal/api.
package chat

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client sends outbound text messages through the chat provider's
// messages endpoint, rate-limited application-side per spec.md §6.1.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient builds a chat-provider client. rps/burst bound the global
// outbound send rate (config: ChatSendRPS/ChatSendBurst).
func NewClient(baseURL, token string, rps, burst int, timeoutSeconds int, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		logger:  logger,
	}
}

type outboundText struct {
	MessagingProduct string           `json:"messaging_product"`
	To               string           `json:"to"`
	Type             string           `json:"type"`
	Text             outboundTextBody `json:"text"`
}

type outboundTextBody struct {
	Body string `json:"body"`
}

// SendError distinguishes a 4xx (do not retry) from other transport
// failures (caller decides whether to retry), per spec.md §6.1.
type SendError struct {
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("chat send failed (status=%d retryable=%v): %v", e.StatusCode, e.Retryable, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// Send delivers a plain-text message to handle. It blocks on the
// outbound rate limiter before dispatching.
func (c *Client) Send(ctx context.Context, handle, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &SendError{Retryable: true, Err: err}
	}

	payload := outboundText{
		MessagingProduct: "whatsapp",
		To:               handle,
		Type:             "text",
		Text:             outboundTextBody{Body: text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return &SendError{Retryable: false, Err: fmt.Errorf("marshal outbound payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return &SendError{Retryable: false, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SendError{Retryable: true, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	sendErr := fmt.Errorf("provider returned %d: %s", resp.StatusCode, respBody)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		c.logger.Warn("chat send rejected by provider", "handle", handle, "status", resp.StatusCode)
		return &SendError{StatusCode: resp.StatusCode, Retryable: false, Err: sendErr}
	}

	return &SendError{StatusCode: resp.StatusCode, Retryable: true, Err: sendErr}
}

// VerifySignature checks the X-Hub-Signature-256 header against an
// HMAC-SHA-256 digest of the raw body using the shared webhook secret
// (spec.md §6.1: "All POST bodies are signature-verified with
// HMAC-SHA-256 over the raw body").
func VerifySignature(secret string, body []byte, header string) bool {
	const prefix = "sha256="
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		return false
	}
	expected := hex.EncodeToString(computeHMAC(secret, body))
	return hmac.Equal([]byte(expected), []byte(header[len(prefix):]))
}

func computeHMAC(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// VerifyChallenge implements the GET verification handshake: on
// hub.verify_token match, the caller echoes hub.challenge with 200.
func VerifyChallenge(configuredToken, mode, verifyToken string) bool {
	return mode == "subscribe" && verifyToken != "" && verifyToken == configuredToken
}
