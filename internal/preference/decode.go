package preference

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// rawPreference is the closed set of fields accepted from the upstream
// conversational front-end. Anything outside this set is dropped at the
// boundary with a structured warning rather than stored (spec.md
// §REDESIGN FLAGS: "closed, versioned schema; unknown fields are dropped
// at the boundary with a structured warning").
type rawPreference struct {
	DesiredTitles     []string `json:"desired_titles"`
	JobCategories     []string `json:"job_categories"`
	DesiredLocations  []string `json:"desired_locations"`
	WillingToRelocate *bool    `json:"willing_to_relocate"`
	WorkArrangements  []string `json:"work_arrangements"`
	EmploymentTypes   []string `json:"employment_types"`
	ExperienceLevel   string   `json:"experience_level"`
	YearsExperience   *int     `json:"years_experience"`
	SalaryMin         *float64 `json:"salary_min"`
	SalaryMax         *float64 `json:"salary_max"`
	SalaryCurrency    string   `json:"salary_currency"`
	SalaryPeriod      string   `json:"salary_period"`
	RequiredSkills    []string `json:"required_skills"`
	SoftSkills        []string `json:"soft_skills"`
	Industries        []string `json:"industries"`
	CompanySizePrefs  []string `json:"company_size_prefs"`
	Confirmed         *bool    `json:"confirmed"`
}

// DecodeRaw parses an inbound preference payload into the domain model,
// dropping any unknown top-level fields silently (json.Unmarshal already
// ignores them against a closed struct) but logging a warning when the
// raw payload carries keys the schema doesn't recognize, so operators
// can see drift from the upstream front-end without it breaking writes.
func DecodeRaw(userID uuid.UUID, body []byte, now time.Time, logger *slog.Logger) (*models.Preference, error) {
	var raw rawPreference
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	warnUnknownFields(body, logger)

	p := &models.Preference{
		UserID:            userID,
		DesiredTitles:     raw.DesiredTitles,
		JobCategories:     raw.JobCategories,
		DesiredLocations:  raw.DesiredLocations,
		WillingToRelocate: boolOr(raw.WillingToRelocate, false),
		ExperienceLevel:   models.ExperienceLevel(raw.ExperienceLevel),
		YearsExperience:   raw.YearsExperience,
		Salary: models.SalaryRange{
			Min:      raw.SalaryMin,
			Max:      raw.SalaryMax,
			Currency: raw.SalaryCurrency,
			Period:   raw.SalaryPeriod,
		},
		RequiredSkills:   raw.RequiredSkills,
		SoftSkills:       raw.SoftSkills,
		Industries:       raw.Industries,
		CompanySizePrefs: raw.CompanySizePrefs,
		Confirmed:        boolOr(raw.Confirmed, false),
		UpdatedAt:        now,
	}

	for _, wa := range raw.WorkArrangements {
		w := models.WorkArrangement(wa)
		if w.IsValid() {
			p.WorkArrangements = append(p.WorkArrangements, w)
		}
	}
	for _, et := range raw.EmploymentTypes {
		p.EmploymentTypes = append(p.EmploymentTypes, models.EmploymentType(et))
	}

	return p, nil
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}

var knownFields = map[string]bool{
	"desired_titles": true, "job_categories": true, "desired_locations": true,
	"willing_to_relocate": true, "work_arrangements": true, "employment_types": true,
	"experience_level": true, "years_experience": true,
	"salary_min": true, "salary_max": true, "salary_currency": true, "salary_period": true,
	"required_skills": true, "soft_skills": true, "industries": true,
	"company_size_prefs": true, "confirmed": true,
}

func warnUnknownFields(body []byte, logger *slog.Logger) {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(body, &generic); err != nil {
		return
	}
	for k := range generic {
		if !knownFields[k] {
			logger.Warn("preference payload carries unrecognized field, dropping", "field", k)
		}
	}
}
