// Package enrichment is the language-model half of the Enrichment Worker:
// it turns one raw posting's hints into the structured response schema
// spec.md §6.3 defines. Grounded on the teacher's enrichment.Service (same
// client, model, timeout shape, JSON-mode prompt-then-unmarshal pattern),
// generalized from sentiment analysis to job-posting attribute inference,
// and wrapped with github.com/cenkalti/backoff/v4 retries for the
// transient-failure semantics spec.md §4.2 requires.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// maxTextLength truncates raw description text before it reaches the model.
const maxTextLength = 4000

const defaultTemperature = 0.0

// Response is the strict JSON schema spec.md §6.3 defines.
type Response struct {
	JobTitles           []string `json:"ai_job_titles"`
	RequiredSkills      []string `json:"ai_required_skills"`
	PreferredSkills     []string `json:"ai_preferred_skills"`
	Industry            []string `json:"ai_industry"`
	JobFunction         string   `json:"ai_job_function"`
	JobLevel            []string `json:"ai_job_level"`
	City                string   `json:"ai_city"`
	State               string   `json:"ai_state"`
	Country             string   `json:"ai_country"`
	WorkArrangement     string   `json:"ai_work_arrangement"`
	RemoteAllowed       bool     `json:"ai_remote_allowed"`
	SalaryMin           *int     `json:"ai_salary_min"`
	SalaryMax           *int     `json:"ai_salary_max"`
	SalaryCurrency      *string  `json:"ai_salary_currency"`
	YearsExperienceMin  *int     `json:"ai_years_experience_min"`
	YearsExperienceMax  *int     `json:"ai_years_experience_max"`
	Summary             string   `json:"ai_summary"`
}

// Hints is the per-record input assembled from a raw posting (spec.md
// §4.2 step 2: title hint, company hint, raw description, payload hints).
type Hints struct {
	TitleHint       string
	CompanyHint     string
	DescriptionHint string
	RawPayloadHints string
}

// Service calls the language model to infer structured attributes.
type Service struct {
	client  openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewService builds an Enrichment language-model service.
func NewService(apiKey, model string, timeoutSeconds int, logger *slog.Logger) *Service {
	return &Service{
		client:  openai.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		logger:  logger,
	}
}

// schemaViolation marks a model response that failed validation — not
// retried within the batch (spec.md §4.2 step 3, §7 kind "Schema
// violation").
type schemaViolation struct{ reason string }

func (e *schemaViolation) Error() string { return "schema violation: " + e.reason }

// Enrich infers the structured attributes for one raw posting. It retries
// transient failures (timeouts, 5xx) up to 3 attempts with exponential
// back-off; a schema violation returns immediately without retrying.
func (s *Service) Enrich(ctx context.Context, hints Hints) (*Response, error) {
	var result *Response

	operation := func() error {
		resp, err := s.call(ctx, hints)
		if err != nil {
			var sv *schemaViolation
			if asSchemaViolation(err, &sv) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = resp
		return nil
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2) // 3 attempts total
	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, err
	}
	return result, nil
}

func asSchemaViolation(err error, target **schemaViolation) bool {
	sv, ok := err.(*schemaViolation)
	if ok {
		*target = sv
	}
	return ok
}

func (s *Service) call(ctx context.Context, hints Hints) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := s.buildPrompt(hints)

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(prompt),
					},
				},
			},
		},
		Model: shared.ChatModel(s.model),
	}
	if s.model != "gpt-5-mini" {
		params.Temperature = openai.Float(defaultTemperature)
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	content := resp.Choices[0].Message.Content

	var out Response
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		s.logger.Warn("enrichment response failed to parse", "error", err, "content", content)
		return nil, &schemaViolation{reason: err.Error()}
	}

	if err := validate(&out); err != nil {
		s.logger.Warn("enrichment response failed schema validation", "error", err)
		return nil, &schemaViolation{reason: err.Error()}
	}

	return &out, nil
}

func validate(r *Response) error {
	if len(r.JobTitles) == 0 {
		return fmt.Errorf("ai_job_titles must not be empty")
	}
	switch r.WorkArrangement {
	case "remote", "hybrid", "on-site":
	default:
		return fmt.Errorf("ai_work_arrangement %q is not one of remote/hybrid/on-site", r.WorkArrangement)
	}
	if len(r.Summary) > 280 {
		r.Summary = r.Summary[:280]
	}
	return nil
}

func (s *Service) buildPrompt(h Hints) string {
	description := h.DescriptionHint
	if len(description) > maxTextLength {
		description = description[:maxTextLength] + "..."
	}

	return fmt.Sprintf(`You are a job-posting analysis assistant. Analyze the following scraped job posting and output strict JSON with these exact keys:

{
  "ai_job_titles": string[] (first is authoritative, rest are alternates),
  "ai_required_skills": string[],
  "ai_preferred_skills": string[],
  "ai_industry": string[],
  "ai_job_function": string,
  "ai_job_level": string[],
  "ai_city": string,
  "ai_state": string,
  "ai_country": string,
  "ai_work_arrangement": "remote" | "hybrid" | "on-site",
  "ai_remote_allowed": boolean,
  "ai_salary_min": number or null,
  "ai_salary_max": number or null,
  "ai_salary_currency": string or null,
  "ai_years_experience_min": number or null,
  "ai_years_experience_max": number or null,
  "ai_summary": string, at most 280 characters
}

Rules:
- Output ONLY valid JSON, no additional text.
- If location cannot be determined from the posting, leave city/state/country empty strings.
- If salary is not mentioned, use null for all three salary fields.
- ai_summary must be chat-friendly and under 280 characters.

Title hint: %s
Company hint: %s
Payload hints: %s

Description:
%s`, h.TitleHint, h.CompanyHint, h.RawPayloadHints, description)
}

// Model returns the enrichment model name in use.
func (s *Service) Model() string {
	return s.model
}
