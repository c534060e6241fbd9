// Package config handles application configuration from environment variables
// and CLI arguments. Configuration is automatically loaded by Huma CLI with
// the SERVICE_ prefix, exactly as the teacher service does.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds the application configuration. Huma CLI automatically reads
// from environment variables with the SERVICE_ prefix or command-line flags.
type Config struct {
	// Database configuration
	DatabaseURL       string `help:"PostgreSQL connection string" env:"DATABASE_URL" required:"true"`
	DBMaxOpenConns    int    `help:"Maximum number of open database connections" default:"25"`
	DBMaxIdleConns    int    `help:"Maximum number of idle database connections" default:"5"`
	DBConnMaxLifetime int    `help:"Maximum connection lifetime in minutes" default:"5"`
	DBConnMaxIdleTime int    `help:"Maximum connection idle time in minutes" default:"5"`

	// Server configuration
	Host string `help:"Host to bind to" default:"0.0.0.0"`
	Port int    `help:"Port to listen on" short:"p" default:"8080"`

	// Environment
	Environment string `help:"Environment (development/production)" default:"development"`

	// Security
	APIKey        string `help:"API key required for write and metrics endpoints" env:"API_KEY"`
	WebhookSecret string `help:"Shared secret for chat-provider inbound HMAC verification" env:"WEBHOOK_SECRET"`
	VerifyToken   string `help:"Chat-provider webhook verification token" env:"VERIFY_TOKEN"`

	// Chat provider (external collaborator, §6.1)
	ChatBaseURL   string `help:"Chat provider API base URL" env:"CHAT_BASE_URL"`
	ChatToken     string `help:"Chat provider access token" env:"CHAT_TOKEN"`
	ChatSendRPS   int    `help:"Global outbound chat-send rate limit (requests/sec)" default:"20"`
	ChatSendBurst int    `help:"Burst size for outbound chat-send rate limiter" default:"40"`

	// AI model configuration
	OpenAIKey             string `help:"OpenAI API key for enrichment and embeddings" env:"OPENAI_API_KEY"`
	OpenAIEnrichmentModel string `help:"OpenAI model used to enrich raw postings" default:"gpt-4o-mini"`
	OpenAIEmbeddingModel  string `help:"OpenAI model used to generate embeddings" default:"text-embedding-3-small"`
	EnrichmentTimeout     int    `help:"Per-call enrichment timeout in seconds" default:"30"`
	EmbeddingTimeout      int    `help:"Per-call embedding timeout in seconds" default:"10"`
	ChatSendTimeout       int    `help:"Per-call chat-send timeout in seconds" default:"10"`

	// Worker pool configuration
	EnrichmentWorkers      int `help:"Number of concurrent enrichment workers" default:"2"`
	EnrichmentBatchSize    int `help:"Raw postings pulled per enrichment batch" default:"50"`
	EnrichmentPollInterval int `help:"Worker poll interval in seconds" default:"2"`
	EnrichmentMaxAttempts  int `help:"Max attempts per record for transient failures" default:"3"`

	// Matching & delivery configuration
	EmbeddingSimThreshold float64 `help:"Minimum cosine similarity for the embedding matcher" default:"0.65"`
	RuleMatchThreshold    int     `help:"Minimum weighted score for the rule matcher" default:"39"`
	MatchTopL             int     `help:"Top-L candidates returned by the embedding matcher" default:"20"`
	DailyCap              int     `help:"Maximum alerts delivered to one user per calendar day" default:"10"`
	CanonicalMaxAgeDays   int     `help:"Canonical postings older than this are not served to matching" default:"60"`

	// Window & reminder configuration
	WindowDurationHours int `help:"Outbound window duration in hours" default:"24"`
	ReminderCadenceMin  int `help:"Reminder daemon scan cadence in minutes" default:"5"`

	// Scheduler cadences (hours unless noted)
	EnrichmentTriggerCadenceHours int `help:"Cadence for the enrichment-worker trigger" default:"2"`
	EmbeddingBackfillCadenceMin   int `help:"Cadence for the embedding back-fill scan in minutes" default:"15"`
	StaleEmbeddingMaxAgeDays      int `help:"Embeddings older than this are refreshed" default:"30"`
	DuplicatePurgeCadenceHours    int `help:"Cadence for the duplicate-canonical-posting purge" default:"5"`
	OldRecordMaxAgeDays           int `help:"Canonical postings with no delivery older than this are purged" default:"5"`

	// Webhook configuration (operational integration hooks)
	WebhookUrls string `help:"Comma-separated operational webhook URLs"`

	// Logging
	LogLevel string `help:"Log level (debug/info/warn/error)" default:"info" enum:"debug,info,warn,error"`

	// Rate limiting (inbound HTTP)
	RateLimitPerIP       int `help:"Max requests per second per IP address" default:"100"`
	RateLimitBurst       int `help:"Burst size for rate limiter" default:"200"`
	RateLimitGlobal      int `help:"Max requests per second globally" default:"1000"`
	RateLimitGlobalBurst int `help:"Global burst size" default:"2000"`
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsEnrichmentEnabled returns true if OpenAI enrichment is configured.
func (c *Config) IsEnrichmentEnabled() bool {
	return c.OpenAIKey != "" && c.OpenAIEnrichmentModel != ""
}

// IsEmbeddingEnabled returns true if OpenAI embeddings are configured.
func (c *Config) IsEmbeddingEnabled() bool {
	return c.OpenAIKey != "" && c.OpenAIEmbeddingModel != ""
}

// IsChatEnabled returns true if the chat-provider client is configured.
func (c *Config) IsChatEnabled() bool {
	return c.ChatBaseURL != "" && c.ChatToken != ""
}

// GetWebhookURLs parses and returns the configured webhook URLs as a slice.
func (c *Config) GetWebhookURLs() []string {
	if c.WebhookUrls == "" {
		return []string{}
	}
	urls := strings.Split(c.WebhookUrls, ",")
	result := make([]string, 0, len(urls))
	for _, url := range urls {
		trimmed := strings.TrimSpace(url)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// WindowDuration returns the configured outbound window duration.
func (c *Config) WindowDuration() time.Duration {
	return time.Duration(c.WindowDurationHours) * time.Hour
}

// EnrichmentPollIntervalDuration returns the worker poll interval as a Duration.
func (c *Config) EnrichmentPollIntervalDuration() time.Duration {
	return time.Duration(c.EnrichmentPollInterval) * time.Second
}
