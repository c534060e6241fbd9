package worker

import (
	"strings"
	"time"

	"github.com/hammed103/Aremu/internal/enrichment"
	"github.com/hammed103/Aremu/internal/models"
)

// defaultSourceCurrency is the source region's currency, used when the
// model does not surface a salary currency (spec.md §4.2 step 4).
const defaultSourceCurrency = "NGN"

// composeCanonical builds a canonical posting from a raw posting's direct
// fields and the model's inferred attributes, applying the numeric and
// tie-breaking semantics spec.md §4.2 specifies.
func composeCanonical(rp *models.RawPosting, r *enrichment.Response) *models.CanonicalPosting {
	c := &models.CanonicalPosting{
		RawPostingID:    rp.ID,
		Company:         rp.CompanyHint(),
		DisplayLocation: stringFromPayload(rp.Payload, "location", "display_location"),
		PostingURL:      rp.URL,
		Description:     rp.DescriptionHint(),
		EmploymentType:  stringFromPayload(rp.Payload, "employment_type", "job_type"),
		Source:          rp.Source,
		ScrapedAt:       rp.ScrapedAt,
		PostedDate:      postedDate(rp),
		// AIEnhanced stays false until an embedding actually lands — see
		// canonicalpostings.go's SetCanonicalEmbedding, the only place
		// that flips it (spec.md §3.2 invariant 4).
		AIEnhanced: false,
	}

	// Tie-breaking: first model-returned title is authoritative; the rest
	// become alternates (spec.md §4.2 tie-breaking).
	if len(r.JobTitles) > 0 {
		c.Title = r.JobTitles[0]
		c.AlternateTitles = r.JobTitles[1:]
	} else {
		c.Title = rp.TitleHint()
	}

	c.RequiredSkills = r.RequiredSkills
	c.PreferredSkills = r.PreferredSkills
	c.Industry = r.Industry
	c.JobFunction = r.JobFunction
	c.JobLevel = r.JobLevel
	c.City, c.State, c.Country = r.City, r.State, r.Country
	if c.City == "" && c.State == "" && c.Country == "" {
		c.City, c.State, c.Country = parseDisplayLocation(c.DisplayLocation)
	}
	c.WorkArrangement = models.WorkArrangement(r.WorkArrangement)
	c.RemoteAllowed = r.RemoteAllowed
	c.Summary = r.Summary

	c.InferredSalary = normalizeSalary(r.SalaryMin, r.SalaryMax, r.SalaryCurrency)
	c.YearsExperienceMin, c.YearsExperienceMax = clampYears(r.YearsExperienceMin, r.YearsExperienceMax)

	return c
}

func stringFromPayload(payload map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := payload[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// postedDate defaults to scraped_at's date when the payload carries no
// explicit posting date (spec.md §4.2 step 4).
func postedDate(rp *models.RawPosting) time.Time {
	if v, ok := rp.Payload["posted_date"]; ok {
		if s, ok := v.(string); ok && s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t
			}
			if t, err := time.Parse("2006-01-02", s); err == nil {
				return t
			}
		}
	}
	return rp.ScrapedAt.Truncate(24 * time.Hour)
}

// parseDisplayLocation falls back to a simple "City, State, Country" or
// "City, Country" split when the model returned no location triple
// (spec.md §4.2 tie-breaking: "Missing location triples fall back to
// parsing the display location string").
func parseDisplayLocation(display string) (city, state, country string) {
	parts := strings.Split(display, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 1:
		city = parts[0]
	case 2:
		city, country = parts[0], parts[1]
	case 3:
		city, state, country = parts[0], parts[1], parts[2]
	}
	return city, state, country
}

// normalizeSalary applies the numeric semantics of §4.2: currency
// defaults to NGN when absent; when only one bound is present the other
// equals it.
func normalizeSalary(min, max *int, currency *string) models.SalaryRange {
	var sr models.SalaryRange
	sr.Currency = defaultSourceCurrency
	if currency != nil && *currency != "" {
		sr.Currency = *currency
	}
	sr.Period = "monthly"

	if min == nil && max == nil {
		return sr
	}

	var minF, maxF float64
	switch {
	case min != nil && max != nil:
		minF, maxF = float64(*min), float64(*max)
	case min != nil:
		minF, maxF = float64(*min), float64(*min)
	default:
		minF, maxF = float64(*max), float64(*max)
	}
	sr.Min, sr.Max = &minF, &maxF
	return sr
}

// clampYears clamps the years-of-experience range to [0, 50] (spec.md
// §4.2 numeric semantics).
func clampYears(min, max *int) (*int, *int) {
	clamp := func(v *int) *int {
		if v == nil {
			return nil
		}
		c := *v
		if c < 0 {
			c = 0
		}
		if c > 50 {
			c = 50
		}
		return &c
	}
	return clamp(min), clamp(max)
}
