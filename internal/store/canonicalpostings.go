package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/hammed103/Aremu/internal/models"
)

// InsertCanonicalPosting writes the structured record the Enrichment
// Worker produces from one raw posting. The embedding is written
// separately via SetCanonicalEmbedding once the Embedding Service returns
// it, matching the teacher's two-phase enrich-then-embed pipeline.
func (s *Store) InsertCanonicalPosting(ctx context.Context, c *models.CanonicalPosting) (uuid.UUID, error) {
	alternateTitles, err := marshalJSON(c.AlternateTitles)
	if err != nil {
		return uuid.Nil, err
	}
	requiredSkills, err := marshalJSON(c.RequiredSkills)
	if err != nil {
		return uuid.Nil, err
	}
	preferredSkills, err := marshalJSON(c.PreferredSkills)
	if err != nil {
		return uuid.Nil, err
	}
	industry, err := marshalJSON(c.Industry)
	if err != nil {
		return uuid.Nil, err
	}
	jobLevel, err := marshalJSON(c.JobLevel)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, err
	}

	const q = `
		INSERT INTO canonical_postings (
			id, raw_posting_id, title, company, display_location, posting_url,
			description, employment_type, salary_min, salary_max, salary_currency,
			posted_date, source, scraped_at,
			alternate_titles, required_skills, preferred_skills, industry, job_function,
			job_level, city, state, country, work_arrangement, remote_allowed,
			inferred_salary_min, inferred_salary_max, inferred_salary_currency,
			years_experience_min, years_experience_max, summary, ai_enhanced, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25,
			$26, $27, $28, $29, $30, $31, $32, $33
		)`

	now := c.CreatedAt
	if now.IsZero() {
		now = c.ScrapedAt
	}

	_, err = s.db.ExecContext(ctx, q,
		id, c.RawPostingID, c.Title, c.Company, c.DisplayLocation, c.PostingURL,
		c.Description, c.EmploymentType, c.Salary.Min, c.Salary.Max, c.Salary.Currency,
		c.PostedDate, c.Source, c.ScrapedAt,
		alternateTitles, requiredSkills, preferredSkills, industry, c.JobFunction,
		jobLevel, c.City, c.State, c.Country, string(c.WorkArrangement), c.RemoteAllowed,
		c.InferredSalary.Min, c.InferredSalary.Max, c.InferredSalary.Currency,
		c.YearsExperienceMin, c.YearsExperienceMax, c.Summary, c.AIEnhanced, now,
	)
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// SetCanonicalEmbedding writes the refreshed job-profile embedding and
// marks the posting AI-enhanced (invariant 4: ai_enhanced is true iff both
// structured enrichment and the embedding are present).
func (s *Store) SetCanonicalEmbedding(ctx context.Context, id uuid.UUID, vec pgvector.Vector, sourceText, version string) error {
	const q = `UPDATE canonical_postings
		SET embedding = $2, embedding_source_text = $3, embedding_version = $4, ai_enhanced = true
		WHERE id = $1`
	_, err := s.db.ExecContext(ctx, q, id, vec, sourceText, version)
	return err
}

// GetCanonicalPosting loads one posting by id.
func (s *Store) GetCanonicalPosting(ctx context.Context, id uuid.UUID) (*models.CanonicalPosting, error) {
	row := s.db.QueryRowContext(ctx, canonicalSelectColumns+` FROM canonical_postings WHERE id = $1`, id)
	return scanCanonicalPosting(row)
}

// TopEmbeddingMatches returns the topL canonical postings closest to the
// given profile embedding by cosine distance, restricted to postings no
// older than maxAge, for the Embedding Matcher (spec.md §4.5.1). Postgres
// computes the ordering using the HNSW/cosine index on embedding; the
// matcher still recomputes exact cosine similarity in Go for the
// threshold decision since the index is approximate.
func (s *Store) TopEmbeddingMatches(ctx context.Context, vec pgvector.Vector, maxAge time.Duration, now time.Time, topL int) ([]*models.CanonicalPosting, error) {
	const q = canonicalSelectColumns + `
		FROM canonical_postings
		WHERE ai_enhanced = true AND embedding IS NOT NULL AND posted_date >= $2
		ORDER BY embedding <=> $1
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, q, vec, now.Add(-maxAge), topL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CanonicalPosting
	for rows.Next() {
		c, err := scanCanonicalPostingRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListRuleMatchCandidates returns enriched postings newer than maxAge for
// the Rule Matcher's location-filtered scoring pass (spec.md §4.5.2),
// which scans the whole eligible pool rather than an embedding-ranked
// subset.
func (s *Store) ListRuleMatchCandidates(ctx context.Context, maxAge time.Duration, now time.Time) ([]*models.CanonicalPosting, error) {
	const q = canonicalSelectColumns + `
		FROM canonical_postings
		WHERE ai_enhanced = true AND posted_date >= $1
		ORDER BY posted_date DESC`

	rows, err := s.db.QueryContext(ctx, q, now.Add(-maxAge))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CanonicalPosting
	for rows.Next() {
		c, err := scanCanonicalPostingRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListForDedup returns postings scraped since cutoff for the scheduler's
// in-memory duplicate-purge pass, which groups by CanonicalPosting.DedupKey.
func (s *Store) ListForDedup(ctx context.Context, since time.Time) ([]*models.CanonicalPosting, error) {
	const q = canonicalSelectColumns + ` FROM canonical_postings WHERE scraped_at >= $1 ORDER BY scraped_at ASC`
	rows, err := s.db.QueryContext(ctx, q, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CanonicalPosting
	for rows.Next() {
		c, err := scanCanonicalPostingRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCanonicalPostings removes postings by id, used by the scheduler's
// duplicate purge once it has picked the survivor of each dedup group.
func (s *Store) DeleteCanonicalPostings(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	uuidStrings := make([]string, len(ids))
	for i, id := range ids {
		uuidStrings[i] = id.String()
	}

	const q = `DELETE FROM canonical_postings WHERE id = ANY($1)`
	res, err := s.db.ExecContext(ctx, q, pq.Array(uuidStrings))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteOldWithoutDelivery purges postings older than cutoff that were
// never referenced by a delivery history row (spec.md §4.9 old-record
// purge), leaving delivered postings intact for audit.
func (s *Store) DeleteOldWithoutDelivery(ctx context.Context, cutoff time.Time) (int64, error) {
	const q = `
		DELETE FROM canonical_postings cp
		WHERE cp.posted_date < $1
		AND NOT EXISTS (SELECT 1 FROM delivery_history dh WHERE dh.canonical_posting_id = cp.id)`
	res, err := s.db.ExecContext(ctx, q, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListStaleEmbeddings returns postings with no recorded embedding version
// or created more than maxAge ago, for the scheduler's embedding-refresh
// sweep.
func (s *Store) ListStaleEmbeddings(ctx context.Context, maxAge time.Duration, now time.Time) ([]*models.CanonicalPosting, error) {
	const q = canonicalSelectColumns + `
		FROM canonical_postings
		WHERE embedding_version IS NULL OR embedding_version = '' OR created_at < $1`
	rows, err := s.db.QueryContext(ctx, q, now.Add(-maxAge))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.CanonicalPosting
	for rows.Next() {
		c, err := scanCanonicalPostingRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const canonicalSelectColumns = `SELECT
	id, raw_posting_id, title, company, display_location, posting_url,
	description, employment_type, salary_min, salary_max, salary_currency,
	posted_date, source, scraped_at,
	alternate_titles, required_skills, preferred_skills, industry, job_function,
	job_level, city, state, country, work_arrangement, remote_allowed,
	inferred_salary_min, inferred_salary_max, inferred_salary_currency,
	years_experience_min, years_experience_max, summary,
	embedding, embedding_source_text, embedding_version, ai_enhanced, created_at`

func scanCanonicalPosting(row *sql.Row) (*models.CanonicalPosting, error) {
	c, err := scanCanonicalPostingRows(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return c, err
}

func scanCanonicalPostingRows(row scannable) (*models.CanonicalPosting, error) {
	var (
		c                                                               models.CanonicalPosting
		alternateTitles, requiredSkills, preferredSkills, industry      []byte
		jobLevel                                                        []byte
		employmentType, city, state, country, workArrangement           sql.NullString
		salaryMin, salaryMax                                            sql.NullFloat64
		salaryCurrency                                                  sql.NullString
		inferredSalaryMin, inferredSalaryMax                            sql.NullFloat64
		inferredSalaryCurrency                                          sql.NullString
		summary                                                         sql.NullString
		embedding                                                       pgvector.Vector
		embeddingSourceText, embeddingVersion                           sql.NullString
	)

	if err := row.Scan(
		&c.ID, &c.RawPostingID, &c.Title, &c.Company, &c.DisplayLocation, &c.PostingURL,
		&c.Description, &employmentType, &salaryMin, &salaryMax, &salaryCurrency,
		&c.PostedDate, &c.Source, &c.ScrapedAt,
		&alternateTitles, &requiredSkills, &preferredSkills, &industry, &c.JobFunction,
		&jobLevel, &city, &state, &country, &workArrangement, &c.RemoteAllowed,
		&inferredSalaryMin, &inferredSalaryMax, &inferredSalaryCurrency,
		&c.YearsExperienceMin, &c.YearsExperienceMax, &summary,
		&embedding, &embeddingSourceText, &embeddingVersion, &c.AIEnhanced, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := unmarshalJSON(alternateTitles, &c.AlternateTitles); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(requiredSkills, &c.RequiredSkills); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(preferredSkills, &c.PreferredSkills); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(industry, &c.Industry); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(jobLevel, &c.JobLevel); err != nil {
		return nil, err
	}

	c.EmploymentType = employmentType.String
	c.City, c.State, c.Country = city.String, state.String, country.String
	c.WorkArrangement = models.WorkArrangement(workArrangement.String)
	c.Summary = summary.String

	c.Salary = models.SalaryRange{Currency: salaryCurrency.String}
	if salaryMin.Valid {
		v := salaryMin.Float64
		c.Salary.Min = &v
	}
	if salaryMax.Valid {
		v := salaryMax.Float64
		c.Salary.Max = &v
	}
	c.InferredSalary = models.SalaryRange{Currency: inferredSalaryCurrency.String}
	if inferredSalaryMin.Valid {
		v := inferredSalaryMin.Float64
		c.InferredSalary.Min = &v
	}
	if inferredSalaryMax.Valid {
		v := inferredSalaryMax.Float64
		c.InferredSalary.Max = &v
	}

	if vec := embedding.Slice(); vec != nil {
		c.Embedding = &embedding
	}
	c.EmbeddingSourceText = embeddingSourceText.String
	c.EmbeddingVersion = embeddingVersion.String

	return &c, nil
}
