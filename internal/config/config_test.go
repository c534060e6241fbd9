package config

import (
	"testing"
	"time"
)

func TestAddress_CombinesHostAndPort(t *testing.T) {
	c := &Config{Host: "0.0.0.0", Port: 8080}
	if got := c.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address() = %q, want %q", got, "0.0.0.0:8080")
	}
}

func TestIsDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"development", true},
		{"production", false},
		{"", false},
	}
	for _, tt := range tests {
		c := &Config{Environment: tt.env}
		if got := c.IsDevelopment(); got != tt.want {
			t.Errorf("IsDevelopment() with Environment=%q = %v, want %v", tt.env, got, tt.want)
		}
	}
}

func TestIsEnrichmentEnabled_RequiresBothKeyAndModel(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		model string
		want  bool
	}{
		{"both set", "sk-key", "gpt-4o-mini", true},
		{"missing key", "", "gpt-4o-mini", false},
		{"missing model", "sk-key", "", false},
		{"neither set", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{OpenAIKey: tt.key, OpenAIEnrichmentModel: tt.model}
			if got := c.IsEnrichmentEnabled(); got != tt.want {
				t.Errorf("IsEnrichmentEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEmbeddingEnabled_RequiresBothKeyAndModel(t *testing.T) {
	c := &Config{OpenAIKey: "sk-key", OpenAIEmbeddingModel: "text-embedding-3-small"}
	if !c.IsEmbeddingEnabled() {
		t.Error("expected embeddings to be enabled when both key and model are set")
	}

	c2 := &Config{OpenAIKey: "sk-key"}
	if c2.IsEmbeddingEnabled() {
		t.Error("expected embeddings to be disabled when the model is missing")
	}
}

func TestIsChatEnabled_RequiresBothBaseURLAndToken(t *testing.T) {
	c := &Config{ChatBaseURL: "https://chat.example.com", ChatToken: "tok"}
	if !c.IsChatEnabled() {
		t.Error("expected chat to be enabled when both base URL and token are set")
	}

	c2 := &Config{ChatBaseURL: "https://chat.example.com"}
	if c2.IsChatEnabled() {
		t.Error("expected chat to be disabled when the token is missing")
	}
}

func TestGetWebhookURLs_EmptyConfigReturnsEmptySlice(t *testing.T) {
	c := &Config{}
	urls := c.GetWebhookURLs()
	if len(urls) != 0 {
		t.Errorf("expected an empty slice, got %v", urls)
	}
}

func TestGetWebhookURLs_SplitsTrimsAndDropsBlankEntries(t *testing.T) {
	c := &Config{WebhookUrls: "https://a.example.com, https://b.example.com ,, https://c.example.com"}
	urls := c.GetWebhookURLs()

	want := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}
	if len(urls) != len(want) {
		t.Fatalf("got %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestWindowDuration_ConvertsHoursToDuration(t *testing.T) {
	c := &Config{WindowDurationHours: 24}
	if got := c.WindowDuration(); got != 24*time.Hour {
		t.Errorf("WindowDuration() = %v, want %v", got, 24*time.Hour)
	}
}

func TestEnrichmentPollIntervalDuration_ConvertsSecondsToDuration(t *testing.T) {
	c := &Config{EnrichmentPollInterval: 2}
	if got := c.EnrichmentPollIntervalDuration(); got != 2*time.Second {
		t.Errorf("EnrichmentPollIntervalDuration() = %v, want %v", got, 2*time.Second)
	}
}
