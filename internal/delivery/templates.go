package delivery

import (
	"fmt"
	"strings"

	"github.com/hammed103/Aremu/internal/models"
)

// RenderJobAlert builds the outbound job-alert message body per spec.md
// §6.2: header line with match percent, bold title/company, then
// optional emoji-prefixed lines for salary, location, experience range,
// top skills, summary, and apply link.
func RenderJobAlert(score float64, c *models.CanonicalPosting) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔔 %.0f%% match for you\n\n", score)
	fmt.Fprintf(&b, "**%s** at **%s**\n", c.Title, c.Company)

	if salary := salaryLine(c.EffectiveSalary()); salary != "" {
		b.WriteString(salary + "\n")
	}
	if loc := locationLine(c); loc != "" {
		b.WriteString(loc + "\n")
	}
	if exp := experienceLine(c.YearsExperienceMin, c.YearsExperienceMax); exp != "" {
		b.WriteString(exp + "\n")
	}
	if skills := skillsLine(c.RequiredSkills); skills != "" {
		b.WriteString(skills + "\n")
	}
	if c.Summary != "" {
		b.WriteString("\n" + c.Summary + "\n")
	}
	if c.PostingURL != "" {
		b.WriteString("\n" + c.PostingURL)
	}

	return strings.TrimRight(b.String(), "\n")
}

func salaryLine(s models.SalaryRange) string {
	if s.Min == nil && s.Max == nil {
		return ""
	}
	period := s.Period
	if period == "" {
		period = "monthly"
	}
	currency := s.Currency
	if currency == "" {
		currency = "NGN"
	}
	switch {
	case s.Min != nil && s.Max != nil && *s.Min != *s.Max:
		return fmt.Sprintf("💰 %.0f - %.0f %s/%s", *s.Min, *s.Max, currency, period)
	case s.Min != nil:
		return fmt.Sprintf("💰 %.0f %s/%s", *s.Min, currency, period)
	default:
		return fmt.Sprintf("💰 %.0f %s/%s", *s.Max, currency, period)
	}
}

func locationLine(c *models.CanonicalPosting) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.City, c.State, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if c.ResolvedWorkArrangement() == models.WorkArrangementRemote {
		parts = append(parts, "Remote")
	}
	if len(parts) == 0 {
		return ""
	}
	return "📍 " + strings.Join(parts, ", ")
}

func experienceLine(min, max *int) string {
	switch {
	case min == nil && max == nil:
		return ""
	case min != nil && max != nil:
		return fmt.Sprintf("⏱️ %d-%d years experience", *min, *max)
	case min != nil:
		return fmt.Sprintf("⏱️ %d+ years experience", *min)
	default:
		return fmt.Sprintf("⏱️ up to %d years experience", *max)
	}
}

func skillsLine(skills []string) string {
	if len(skills) == 0 {
		return ""
	}
	top := skills
	if len(top) > 5 {
		top = top[:5]
	}
	return "🎯 " + strings.Join(top, ", ")
}

// RenderReminder builds the stage-specific window-reminder body. S4 and
// S5 carry explicit urgency phrasing (spec.md §6.2).
func RenderReminder(stage models.ReminderStage) string {
	switch stage {
	case models.ReminderS1:
		return "👋 Still there? Let us know if you'd like to keep browsing jobs, or if your preferences have changed."
	case models.ReminderS2:
		return "📋 Quick reminder: your job search is still open. Reply any time to get a personalized summary of what's new."
	case models.ReminderS3:
		return "⏳ Your conversation window is closing soon. Reply now to keep receiving alerts without interruption."
	case models.ReminderS4:
		return "⏰ Last hour before your window closes! Reply now to stay active and keep getting job alerts."
	case models.ReminderS5:
		return "🚨 Last call — this window closes in minutes. Reply now if you still want job alerts."
	default:
		return ""
	}
}

// RenderWelcome is offered when a user has no preferences yet.
func RenderWelcome() string {
	return "👋 Welcome! Tell me the kind of job you're looking for — role, location, salary range — and I'll start sending you matches."
}
