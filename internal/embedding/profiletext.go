package embedding

import (
	"fmt"
	"strings"

	"github.com/hammed103/Aremu/internal/models"
)

// BuildUserProfileText assembles a fixed-order sentence list from a
// preference bag, generalizing the teacher's two-field BuildEmbeddingText
// helper to the full ordered assembly spec.md §4.3 specifies. Profile
// text is a stable function of its inputs: equal preferences always yield
// equal text, and therefore equal embeddings.
func BuildUserProfileText(p *models.Preference) string {
	var sentences []string

	if s := joinNonEmpty(p.DesiredTitles); s != "" {
		sentences = append(sentences, "Desired roles: "+s)
	}
	if s := joinNonEmpty(p.JobCategories); s != "" {
		sentences = append(sentences, "Job categories: "+s)
	}
	if s := joinNonEmpty(p.DesiredLocations); s != "" {
		sentences = append(sentences, "Desired locations: "+s)
	}
	if s := joinWorkArrangements(p.WorkArrangements); s != "" {
		sentences = append(sentences, "Work arrangement: "+s)
	}
	if s := joinEmploymentTypes(p.EmploymentTypes); s != "" {
		sentences = append(sentences, "Employment type: "+s)
	}
	if p.ExperienceLevel != "" {
		level := string(p.ExperienceLevel)
		if p.YearsExperience != nil {
			sentences = append(sentences, fmt.Sprintf("Experience level: %s, %d years", level, *p.YearsExperience))
		} else {
			sentences = append(sentences, "Experience level: "+level)
		}
	}
	if s := salarySentence(p.Salary); s != "" {
		sentences = append(sentences, s)
	}
	if s := joinNonEmpty(p.RequiredSkills); s != "" {
		sentences = append(sentences, "Required skills: "+s)
	}
	if s := joinNonEmpty(p.SoftSkills); s != "" {
		sentences = append(sentences, "Soft skills: "+s)
	}
	if s := joinNonEmpty(p.Industries); s != "" {
		sentences = append(sentences, "Industries: "+s)
	}
	if s := joinNonEmpty(p.CompanySizePrefs); s != "" {
		sentences = append(sentences, "Company size preference: "+s)
	}
	if p.WillingToRelocate {
		sentences = append(sentences, "Willing to relocate")
	}

	return strings.Join(sentences, ". ")
}

// BuildJobProfileText assembles the job-side counterpart, in the fixed
// order spec.md §4.3 specifies.
func BuildJobProfileText(c *models.CanonicalPosting) string {
	var sentences []string

	sentences = append(sentences, fmt.Sprintf("%s at %s", c.Title, c.Company))

	if s := joinNonEmpty(c.AlternateTitles); s != "" {
		sentences = append(sentences, "Also known as: "+s)
	}
	if c.JobFunction != "" {
		sentences = append(sentences, "Function: "+c.JobFunction)
	}
	if s := joinNonEmpty(c.JobLevel); s != "" {
		sentences = append(sentences, "Level: "+s)
	}
	if s := joinNonEmpty(c.Industry); s != "" {
		sentences = append(sentences, "Industry: "+s)
	}
	if s := locationSentence(c.City, c.State, c.Country); s != "" {
		sentences = append(sentences, s)
	}
	if arrangement := c.ResolvedWorkArrangement(); arrangement != "" {
		sentences = append(sentences, "Work arrangement: "+string(arrangement))
	}
	if c.RemoteAllowed {
		sentences = append(sentences, "Remote allowed")
	}
	if s := joinNonEmpty(c.RequiredSkills); s != "" {
		sentences = append(sentences, "Required skills: "+s)
	}
	if s := joinNonEmpty(c.PreferredSkills); s != "" {
		sentences = append(sentences, "Preferred skills: "+s)
	}
	if s := experienceRangeSentence(c.YearsExperienceMin, c.YearsExperienceMax); s != "" {
		sentences = append(sentences, s)
	}
	if s := salarySentence(c.EffectiveSalary()); s != "" {
		sentences = append(sentences, s)
	}

	if c.Summary != "" {
		sentences = append(sentences, c.Summary)
	} else if c.Description != "" {
		sentences = append(sentences, boundedSnippet(c.Description, 300))
	}

	return strings.Join(sentences, ". ")
}

func joinNonEmpty(values []string) string {
	var kept []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, ", ")
}

func joinWorkArrangements(values []models.WorkArrangement) string {
	strs := make([]string, 0, len(values))
	for _, v := range values {
		strs = append(strs, string(v))
	}
	return strings.Join(strs, ", ")
}

func joinEmploymentTypes(values []models.EmploymentType) string {
	strs := make([]string, 0, len(values))
	for _, v := range values {
		strs = append(strs, string(v))
	}
	return strings.Join(strs, ", ")
}

func salarySentence(salary models.SalaryRange) string {
	if salary.Min == nil && salary.Max == nil {
		return ""
	}
	currency := salary.Currency
	if currency == "" {
		currency = "USD"
	}
	switch {
	case salary.Min != nil && salary.Max != nil:
		return fmt.Sprintf("Salary: %.0f-%.0f %s", *salary.Min, *salary.Max, currency)
	case salary.Min != nil:
		return fmt.Sprintf("Salary: %.0f %s", *salary.Min, currency)
	default:
		return fmt.Sprintf("Salary: %.0f %s", *salary.Max, currency)
	}
}

func locationSentence(city, state, country string) string {
	var parts []string
	for _, p := range []string{city, state, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return "Location: " + strings.Join(parts, ", ")
}

func experienceRangeSentence(min, max *int) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("Experience required: %d-%d years", *min, *max)
	case min != nil:
		return fmt.Sprintf("Experience required: %d+ years", *min)
	case max != nil:
		return fmt.Sprintf("Experience required: up to %d years", *max)
	default:
		return ""
	}
}

func boundedSnippet(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	return strings.TrimSpace(text[:limit]) + "..."
}
