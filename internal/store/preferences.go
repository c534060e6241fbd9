package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/models"
)

// GetPreference loads the preference row for a user, if one exists.
func (s *Store) GetPreference(ctx context.Context, userID uuid.UUID) (*models.Preference, error) {
	const q = `
		SELECT user_id, desired_titles, job_categories, desired_locations,
			willing_to_relocate, work_arrangements, employment_types,
			experience_level, years_experience,
			salary_min, salary_max, salary_currency, salary_period,
			required_skills, soft_skills, industries, company_size_prefs,
			confirmed, embedding, embedding_source_text, embedding_version, updated_at
		FROM preferences WHERE user_id = $1`
	return scanPreference(s.db.QueryRowContext(ctx, q, userID))
}

// UpsertPreference writes the full attribute bag for a user, creating the
// row on first write. The Preference Projector calls this after decoding
// an inbound preference update, then separately calls SetPreferenceEmbedding
// once the refreshed embedding is ready.
func (s *Store) UpsertPreference(ctx context.Context, p *models.Preference) error {
	desiredTitles, err := marshalJSON(p.DesiredTitles)
	if err != nil {
		return err
	}
	jobCategories, err := marshalJSON(p.JobCategories)
	if err != nil {
		return err
	}
	desiredLocations, err := marshalJSON(p.DesiredLocations)
	if err != nil {
		return err
	}
	workArrangements, err := marshalJSON(p.WorkArrangements)
	if err != nil {
		return err
	}
	employmentTypes, err := marshalJSON(p.EmploymentTypes)
	if err != nil {
		return err
	}
	requiredSkills, err := marshalJSON(p.RequiredSkills)
	if err != nil {
		return err
	}
	softSkills, err := marshalJSON(p.SoftSkills)
	if err != nil {
		return err
	}
	industries, err := marshalJSON(p.Industries)
	if err != nil {
		return err
	}
	companySizePrefs, err := marshalJSON(p.CompanySizePrefs)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO preferences (
			user_id, desired_titles, job_categories, desired_locations,
			willing_to_relocate, work_arrangements, employment_types,
			experience_level, years_experience,
			salary_min, salary_max, salary_currency, salary_period,
			required_skills, soft_skills, industries, company_size_prefs,
			confirmed, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (user_id) DO UPDATE SET
			desired_titles = $2, job_categories = $3, desired_locations = $4,
			willing_to_relocate = $5, work_arrangements = $6, employment_types = $7,
			experience_level = $8, years_experience = $9,
			salary_min = $10, salary_max = $11, salary_currency = $12, salary_period = $13,
			required_skills = $14, soft_skills = $15, industries = $16, company_size_prefs = $17,
			confirmed = $18, updated_at = $19`

	_, err = s.db.ExecContext(ctx, q,
		p.UserID, desiredTitles, jobCategories, desiredLocations,
		p.WillingToRelocate, workArrangements, employmentTypes,
		string(p.ExperienceLevel), p.YearsExperience,
		p.Salary.Min, p.Salary.Max, p.Salary.Currency, p.Salary.Period,
		requiredSkills, softSkills, industries, companySizePrefs,
		p.Confirmed, p.UpdatedAt,
	)
	return err
}

// SetPreferenceEmbedding writes the refreshed profile embedding produced by
// the Preference Projector after a preference write.
func (s *Store) SetPreferenceEmbedding(ctx context.Context, userID uuid.UUID, vec pgvector.Vector, sourceText, version string) error {
	const q = `UPDATE preferences SET embedding = $2, embedding_source_text = $3, embedding_version = $4
		WHERE user_id = $1`
	_, err := s.db.ExecContext(ctx, q, userID, vec, sourceText, version)
	return err
}

// ListConfirmedWithEmbedding returns every confirmed preference that
// carries a usable embedding, the candidate pool for the Embedding
// Matcher's per-posting comparisons during back-fill scans.
func (s *Store) ListConfirmedWithEmbedding(ctx context.Context) ([]*models.Preference, error) {
	const q = `
		SELECT user_id, desired_titles, job_categories, desired_locations,
			willing_to_relocate, work_arrangements, employment_types,
			experience_level, years_experience,
			salary_min, salary_max, salary_currency, salary_period,
			required_skills, soft_skills, industries, company_size_prefs,
			confirmed, embedding, embedding_source_text, embedding_version, updated_at
		FROM preferences WHERE confirmed = true AND embedding IS NOT NULL`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Preference
	for rows.Next() {
		p, err := scanPreferenceRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListConfirmedPreferences returns every confirmed preference regardless
// of embedding state — the eligible cohort for the Delivery Dispatcher,
// which falls back to the rule matcher when no embedding is available
// (spec.md §4.5, §4.6).
func (s *Store) ListConfirmedPreferences(ctx context.Context) ([]*models.Preference, error) {
	const q = `
		SELECT user_id, desired_titles, job_categories, desired_locations,
			willing_to_relocate, work_arrangements, employment_types,
			experience_level, years_experience,
			salary_min, salary_max, salary_currency, salary_period,
			required_skills, soft_skills, industries, company_size_prefs,
			confirmed, embedding, embedding_source_text, embedding_version, updated_at
		FROM preferences WHERE confirmed = true`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Preference
	for rows.Next() {
		p, err := scanPreferenceRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListMissingEmbeddings returns confirmed preferences that have no
// embedding yet — the work queue for the scheduler's embedding back-fill
// trigger (spec.md §4.9).
func (s *Store) ListMissingEmbeddings(ctx context.Context) ([]*models.Preference, error) {
	const q = `
		SELECT user_id, desired_titles, job_categories, desired_locations,
			willing_to_relocate, work_arrangements, employment_types,
			experience_level, years_experience,
			salary_min, salary_max, salary_currency, salary_period,
			required_skills, soft_skills, industries, company_size_prefs,
			confirmed, embedding, embedding_source_text, embedding_version, updated_at
		FROM preferences WHERE confirmed = true AND embedding IS NULL`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Preference
	for rows.Next() {
		p, err := scanPreferenceRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanPreference(row *sql.Row) (*models.Preference, error) {
	p, err := scanPreferenceRows(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

func scanPreferenceRows(row scannable) (*models.Preference, error) {
	var (
		p                                                                     models.Preference
		desiredTitles, jobCategories, desiredLocations                       []byte
		workArrangements, employmentTypes                                    []byte
		requiredSkills, softSkills, industries, companySizePrefs             []byte
		experienceLevel                                                      string
		salaryMin, salaryMax                                                 sql.NullFloat64
		salaryCurrency, salaryPeriod                                         sql.NullString
		embedding                                                            pgvector.Vector
		embeddingSourceText, embeddingVersion                                sql.NullString
	)

	if err := row.Scan(
		&p.UserID, &desiredTitles, &jobCategories, &desiredLocations,
		&p.WillingToRelocate, &workArrangements, &employmentTypes,
		&experienceLevel, &p.YearsExperience,
		&salaryMin, &salaryMax, &salaryCurrency, &salaryPeriod,
		&requiredSkills, &softSkills, &industries, &companySizePrefs,
		&p.Confirmed, &embedding, &embeddingSourceText, &embeddingVersion, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := unmarshalJSON(desiredTitles, &p.DesiredTitles); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(jobCategories, &p.JobCategories); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(desiredLocations, &p.DesiredLocations); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(workArrangements, &p.WorkArrangements); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(employmentTypes, &p.EmploymentTypes); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(requiredSkills, &p.RequiredSkills); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(softSkills, &p.SoftSkills); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(industries, &p.Industries); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(companySizePrefs, &p.CompanySizePrefs); err != nil {
		return nil, err
	}

	p.ExperienceLevel = models.ExperienceLevel(experienceLevel)
	p.Salary = models.SalaryRange{Currency: salaryCurrency.String, Period: salaryPeriod.String}
	if salaryMin.Valid {
		v := salaryMin.Float64
		p.Salary.Min = &v
	}
	if salaryMax.Valid {
		v := salaryMax.Float64
		p.Salary.Max = &v
	}
	if vec := embedding.Slice(); vec != nil {
		p.Embedding = &embedding
	}
	p.EmbeddingSourceText = embeddingSourceText.String
	p.EmbeddingVersion = embeddingVersion.String

	return &p, nil
}
