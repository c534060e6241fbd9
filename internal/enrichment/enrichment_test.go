package enrichment

import (
	"log/slog"
	"strings"
	"testing"
)

func TestValidate_RejectsEmptyJobTitles(t *testing.T) {
	r := &Response{WorkArrangement: "remote"}
	if err := validate(r); err == nil {
		t.Error("expected an error when ai_job_titles is empty")
	}
}

func TestValidate_RejectsUnknownWorkArrangement(t *testing.T) {
	r := &Response{JobTitles: []string{"Backend Engineer"}, WorkArrangement: "remote-ish"}
	if err := validate(r); err == nil {
		t.Error("expected an error for an unrecognized work arrangement")
	}
}

func TestValidate_AcceptsEachKnownWorkArrangement(t *testing.T) {
	for _, wa := range []string{"remote", "hybrid", "on-site"} {
		r := &Response{JobTitles: []string{"Backend Engineer"}, WorkArrangement: wa}
		if err := validate(r); err != nil {
			t.Errorf("expected %q to be accepted, got error: %v", wa, err)
		}
	}
}

func TestValidate_TruncatesOverlongSummary(t *testing.T) {
	long := strings.Repeat("a", 400)
	r := &Response{JobTitles: []string{"Backend Engineer"}, WorkArrangement: "remote", Summary: long}
	if err := validate(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Summary) != 280 {
		t.Errorf("expected Summary to be truncated to 280 chars, got %d", len(r.Summary))
	}
}

func TestValidate_LeavesShortSummaryUnchanged(t *testing.T) {
	r := &Response{JobTitles: []string{"Backend Engineer"}, WorkArrangement: "remote", Summary: "short summary"}
	if err := validate(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Summary != "short summary" {
		t.Errorf("expected Summary to be unchanged, got %q", r.Summary)
	}
}

func TestBuildPrompt_IncludesAllHints(t *testing.T) {
	s := &Service{model: "gpt-4o-mini", logger: slog.Default()}
	prompt := s.buildPrompt(Hints{
		TitleHint:       "Backend Engineer",
		CompanyHint:     "Paystack",
		DescriptionHint: "We build payment infrastructure.",
		RawPayloadHints: "category: engineering",
	})

	for _, want := range []string{"Backend Engineer", "Paystack", "category: engineering", "We build payment infrastructure."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestBuildPrompt_TruncatesOverlongDescription(t *testing.T) {
	s := &Service{model: "gpt-4o-mini", logger: slog.Default()}
	long := strings.Repeat("x", maxTextLength+500)
	prompt := s.buildPrompt(Hints{DescriptionHint: long})

	if strings.Contains(prompt, strings.Repeat("x", maxTextLength+1)) {
		t.Error("expected the description to be truncated below maxTextLength")
	}
	if !strings.Contains(prompt, "...") {
		t.Error("expected a truncation ellipsis in the prompt")
	}
}

func TestModel_ReturnsConfiguredModel(t *testing.T) {
	s := &Service{model: "gpt-4o-mini"}
	if got := s.Model(); got != "gpt-4o-mini" {
		t.Errorf("Model() = %q, want %q", got, "gpt-4o-mini")
	}
}
