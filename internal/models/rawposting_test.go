package models

import "testing"

func TestTitleHint_PrefersTitleOverFallbackKeys(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{
		"title":    "Backend Engineer",
		"job_title": "Software Engineer",
	}}
	if got := rp.TitleHint(); got != "Backend Engineer" {
		t.Errorf("TitleHint() = %q, want %q", got, "Backend Engineer")
	}
}

func TestTitleHint_FallsBackWhenPrimaryKeyMissing(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{"job_title": "Software Engineer"}}
	if got := rp.TitleHint(); got != "Software Engineer" {
		t.Errorf("TitleHint() = %q, want %q", got, "Software Engineer")
	}
}

func TestTitleHint_SkipsEmptyStringValue(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{"title": "", "position": "Engineer"}}
	if got := rp.TitleHint(); got != "Engineer" {
		t.Errorf("TitleHint() = %q, want %q", got, "Engineer")
	}
}

func TestTitleHint_ReturnsEmptyWhenNoKeyPresent(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{}}
	if got := rp.TitleHint(); got != "" {
		t.Errorf("TitleHint() = %q, want empty", got)
	}
}

func TestCompanyHint_ChecksAllKnownKeys(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{"employer": "Paystack"}}
	if got := rp.CompanyHint(); got != "Paystack" {
		t.Errorf("CompanyHint() = %q, want %q", got, "Paystack")
	}
}

func TestDescriptionHint_ChecksAllKnownKeys(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{"body": "We build payments infrastructure."}}
	if got := rp.DescriptionHint(); got != "We build payments infrastructure." {
		t.Errorf("DescriptionHint() = %q, want the body text", got)
	}
}

func TestDescriptionHint_IgnoresNonStringValue(t *testing.T) {
	rp := &RawPosting{Payload: map[string]interface{}{"description": 12345}}
	if got := rp.DescriptionHint(); got != "" {
		t.Errorf("DescriptionHint() = %q, want empty for a non-string value", got)
	}
}
