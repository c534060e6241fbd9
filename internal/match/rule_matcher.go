package match

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hammed103/Aremu/internal/models"
)

// RuleMatcher is the fallback matcher used when the user's preference or
// the posting has no embedding (spec.md §4.5.2). It applies the location hard filter first, then sums
// eight weighted scoring factors, capped at 100.
type RuleMatcher struct{}

// NewRuleMatcher builds a Rule Matcher. It carries no state: every
// lookup table it consults (location, currency, skill/function
// synonyms) is a package-level static table.
func NewRuleMatcher() *RuleMatcher {
	return &RuleMatcher{}
}

// Match scores every candidate posting that passes the location hard
// filter, keeping only those at or above DispatchThreshold.
func (m *RuleMatcher) Match(userID uuid.UUID, pref *models.Preference, candidates []*models.CanonicalPosting) []Result {
	var results []Result

	hasAnyLocation := false
	for _, c := range candidates {
		if c.City != "" || c.State != "" || c.Country != "" {
			hasAnyLocation = true
			break
		}
	}

	for _, c := range candidates {
		if !PassesLocationFilter(
			pref.DesiredLocations,
			acceptsRemote(pref.WorkArrangements),
			c.RemoteAllowed || c.ResolvedWorkArrangement() == models.WorkArrangementRemote,
			pref.WillingToRelocate,
			hasAnyLocation,
			c.City, c.State, c.Country,
		) {
			continue
		}

		score, reasons := m.score(pref, c)
		if score < DispatchThreshold {
			continue
		}

		results = append(results, Result{
			UserID:    userID,
			PostingID: c.ID,
			Score:     score,
			Reasons:   reasons,
		})
	}

	return results
}

func (m *RuleMatcher) score(pref *models.Preference, c *models.CanonicalPosting) (float64, []string) {
	var reasons []string
	var total float64

	titleS, titleHit := titleScore(pref.DesiredTitles, c.Title, c.AlternateTitles)
	total += titleS
	if titleHit {
		reasons = append(reasons, "title closely matches your desired roles")
	}

	arrangementS, arrangementHit := arrangementScore(pref.WorkArrangements, c.ResolvedWorkArrangement())
	total += arrangementS
	if arrangementHit {
		reasons = append(reasons, fmt.Sprintf("work arrangement (%s) matches your preference", c.ResolvedWorkArrangement()))
	}

	salaryS, salaryHit := salaryScore(pref.Salary, c.EffectiveSalary())
	total += salaryS
	if salaryHit {
		reasons = append(reasons, "salary range is within your expectations")
	}

	expS, expHit := experienceScore(pref.ExperienceLevel, pref.YearsExperience, c.JobLevel, c.YearsExperienceMin, c.YearsExperienceMax)
	total += expS
	if expHit {
		reasons = append(reasons, "experience level fits the role's requirements")
	}

	funcS, funcHit := functionScore(pref.JobCategories, c.JobFunction)
	total += funcS
	if funcHit {
		reasons = append(reasons, "job function matches one of your categories")
	}

	industryS, industryHit := industryScore(pref.Industries, pref.DesiredTitles, c.Industry)
	total += industryS
	if industryHit {
		reasons = append(reasons, "industry matches your preference")
	}

	skillsS, skillsHit := skillsScore(pref.RequiredSkills, pref.SoftSkills, c.RequiredSkills, c.PreferredSkills)
	total += skillsS
	if skillsHit {
		reasons = append(reasons, "your skills overlap with this role's requirements")
	}

	clusterS, clusterHit := semanticClusterScore(titleHit, pref.DesiredTitles, c.Title)
	total += clusterS
	if clusterHit {
		reasons = append(reasons, "role falls in a related job cluster")
	}

	if total > 100 {
		total = 100
	}

	return total, reasons
}

func acceptsRemote(arrangements []models.WorkArrangement) bool {
	if len(arrangements) == 0 {
		return true
	}
	for _, a := range arrangements {
		if a == models.WorkArrangementRemote {
			return true
		}
	}
	return false
}
