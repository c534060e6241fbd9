package match

import (
	"strings"

	"github.com/hammed103/Aremu/internal/models"
)

// Max weights per factor (spec.md §4.5.2 scoring table).
const (
	maxTitleScore      = 35.0
	maxArrangementScore = 20.0
	maxSalaryScore     = 20.0
	maxExperienceScore = 10.0
	maxFunctionScore   = 7.0
	maxIndustryScore   = 5.0
	maxSkillsScore     = 20.0
	maxClusterScore    = 5.0
)

var salesTerms = []string{"sales", "account executive", "business development", "bd rep", "account manager"}

func mentionsSalesFamily(terms []string) bool {
	for _, t := range terms {
		lower := strings.ToLower(t)
		for _, s := range salesTerms {
			if strings.Contains(lower, s) {
				return true
			}
		}
	}
	return false
}

// titleScore rewards overlap between the user's desired titles and the
// job's title + alternate titles, using token-level Jaccard similarity,
// with a bonus when both sides are in the sales family — a cluster where
// titles vary widely in wording but describe the same role (spec.md
// §4.5.2: "sales-family special cases yield higher scores on role-term
// co-occurrence").
func titleScore(desiredTitles []string, jobTitle string, alternateTitles []string) (float64, bool) {
	if len(desiredTitles) == 0 {
		return 0, false
	}

	jobTitles := append([]string{jobTitle}, alternateTitles...)

	best := 0.0
	for _, desired := range desiredTitles {
		for _, jt := range jobTitles {
			sim := tokenJaccard(desired, jt)
			if sim > best {
				best = sim
			}
		}
	}

	score := best * maxTitleScore

	if mentionsSalesFamily(desiredTitles) && mentionsSalesFamily(jobTitles) {
		score = maxTitleScore * 0.9
		if best > 0 {
			score = maxTitleScore
		}
	}

	if score > maxTitleScore {
		score = maxTitleScore
	}
	return score, score >= maxTitleScore*0.5
}

func tokenJaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		tok = strings.Trim(tok, ".,-/()")
		if tok != "" {
			out[tok] = true
		}
	}
	return out
}

// arrangementScore: 20 for an exact match, 18 if the user's arrangement
// preference is broader than the job's (e.g. a hybrid-preferring user
// also matches remote and on-site jobs), 0 otherwise.
func arrangementScore(userArrangements []models.WorkArrangement, jobArrangement models.WorkArrangement) (float64, bool) {
	if len(userArrangements) == 0 {
		return 0, false
	}
	for _, ua := range userArrangements {
		if ua == jobArrangement {
			return maxArrangementScore, true
		}
	}
	for _, ua := range userArrangements {
		if ua == models.WorkArrangementHybrid {
			return 18, true
		}
	}
	return 0, false
}

// salaryScore compares ranges after currency normalization with ±20%
// tolerance. A missing job salary gets a fair baseline of 10.
func salaryScore(userSalary, jobSalary models.SalaryRange) (float64, bool) {
	if jobSalary.Min == nil && jobSalary.Max == nil {
		return 10, false
	}
	if userSalary.Min == nil && userSalary.Max == nil {
		return 10, false
	}

	userMin := toUSD(valueOr(userSalary.Min, 0), userSalary.Currency)
	userMax := toUSD(valueOr(userSalary.Max, userMin), userSalary.Currency)
	jobMin := toUSD(valueOr(jobSalary.Min, 0), jobSalary.Currency)
	jobMax := toUSD(valueOr(jobSalary.Max, jobMin), jobSalary.Currency)

	tolerance := 0.20
	jobMinTol := jobMin * (1 - tolerance)
	jobMaxTol := jobMax * (1 + tolerance)

	if userMax < jobMinTol || userMin > jobMaxTol {
		return 0, false
	}
	return maxSalaryScore, true
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// experienceScore rewards hierarchy adjacency and years-range
// compatibility, with graduated leniency for a zero-years user against
// junior jobs (≤ 3 years required) that tapers off as the job's required
// years grows (spec.md §8).
func experienceScore(userLevel models.ExperienceLevel, userYears *int, jobLevels []string, jobYearsMin, jobYearsMax *int) (float64, bool) {
	levelComponent := 0.0
	if userLevel != "" && len(jobLevels) > 0 {
		userRank := userLevel.Rank()
		bestDistance := -1
		for _, jl := range jobLevels {
			jobRank := models.ExperienceLevel(jl).Rank()
			if jobRank < 0 || userRank < 0 {
				continue
			}
			d := jobRank - userRank
			if d < 0 {
				d = -d
			}
			if bestDistance == -1 || d < bestDistance {
				bestDistance = d
			}
		}
		switch bestDistance {
		case 0:
			levelComponent = 0.6
		case 1:
			levelComponent = 0.35
		default:
			levelComponent = 0
		}
	}

	yearsComponent := 0.0
	if userYears != nil {
		switch {
		case *userYears == 0 && jobYearsMax != nil && *jobYearsMax <= 3:
			yearsComponent = zeroYearsLeniencyCredit(*jobYearsMax)
		case jobYearsMin != nil && jobYearsMax != nil && *userYears >= *jobYearsMin && *userYears <= *jobYearsMax:
			yearsComponent = 0.4
		case jobYearsMin != nil && *userYears >= *jobYearsMin:
			yearsComponent = 0.25
		}
	}

	score := (levelComponent + yearsComponent) * maxExperienceScore
	if score > maxExperienceScore {
		score = maxExperienceScore
	}
	return score, score >= maxExperienceScore*0.5
}

// zeroYearsLeniencyCredit gives a zero-years user graduated credit against
// a job requiring up to jobYearsMax years, rather than flat leniency
// across the whole 0..3 range (spec.md §8: "user=0 matches job requiring
// 0..3 with graduated credit (8/10/6/10/4/10)"). A job that itself
// requires 0 years is an exact match, not leniency, so it earns full
// credit; a job requiring 1/2/3 years tapers to 8/10, 6/10, 4/10.
func zeroYearsLeniencyCredit(jobYearsMax int) float64 {
	switch jobYearsMax {
	case 0:
		return 1.0
	case 1:
		return 0.8
	case 2:
		return 0.6
	default: // 3
		return 0.4
	}
}

var jobFunctionSynonyms = map[string][]string{
	"sales":       {"business development", "account management"},
	"engineering": {"software development", "product development"},
	"marketing":   {"growth", "brand"},
}

// functionScore: exact or synonym match against desired job categories.
func functionScore(desiredCategories []string, jobFunction string) (float64, bool) {
	if jobFunction == "" || len(desiredCategories) == 0 {
		return 0, false
	}
	jf := strings.ToLower(jobFunction)
	for _, cat := range desiredCategories {
		c := strings.ToLower(cat)
		if c == jf || strings.Contains(jf, c) || strings.Contains(c, jf) {
			return maxFunctionScore, true
		}
		for canon, synonyms := range jobFunctionSynonyms {
			if c == canon || contains(synonyms, c) {
				if jf == canon || contains(synonyms, jf) {
					return maxFunctionScore, true
				}
			}
		}
	}
	return 0, false
}

var salesFriendlyIndustries = []string{"retail", "fmcg", "telecom", "real estate", "financial services", "insurance"}

// industryScore: exact or synonym match; sales-family roles get credit
// across a curated list of sales-friendly industries.
func industryScore(desiredIndustries []string, desiredTitles []string, jobIndustries []string) (float64, bool) {
	if len(jobIndustries) == 0 {
		return 0, false
	}
	for _, di := range desiredIndustries {
		for _, ji := range jobIndustries {
			if strings.EqualFold(di, ji) {
				return maxIndustryScore, true
			}
		}
	}
	if mentionsSalesFamily(desiredTitles) {
		for _, ji := range jobIndustries {
			if containsFold(salesFriendlyIndustries, ji) {
				return maxIndustryScore, true
			}
		}
	}
	return 0, false
}

// skillsScore weighs required-skill matches more than preferred-skill
// matches, with common synonyms collapsed before comparison.
func skillsScore(userRequired, userSoft []string, jobRequired, jobPreferred []string) (float64, bool) {
	requiredOverlap := overlapRatio(canonicalizeSkills(userRequired), canonicalizeSkills(jobRequired))
	preferredOverlap := overlapRatio(canonicalizeSkills(append(userRequired, userSoft...)), canonicalizeSkills(jobPreferred))

	score := requiredOverlap*maxSkillsScore*0.7 + preferredOverlap*maxSkillsScore*0.3
	if score > maxSkillsScore {
		score = maxSkillsScore
	}
	return score, score >= maxSkillsScore*0.5
}

var skillSynonyms = map[string]string{
	"js":         "javascript",
	"ts":         "typescript",
	"golang":     "go",
	"postgres":   "postgresql",
	"ml":         "machine learning",
	"k8s":        "kubernetes",
}

func canonicalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		lower := strings.ToLower(strings.TrimSpace(s))
		if canon, ok := skillSynonyms[lower]; ok {
			lower = canon
		}
		if lower != "" {
			out = append(out, lower)
		}
	}
	return out
}

func overlapRatio(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	bSet := make(map[string]bool, len(b))
	for _, v := range b {
		bSet[v] = true
	}
	matches := 0
	for _, v := range a {
		if bSet[v] {
			matches++
		}
	}
	return float64(matches) / float64(len(a))
}

// semanticClusterScore is the fallback cluster match applied only when
// direct title/function/industry comparisons found nothing — a coarse
// keyword-cluster overlap rather than a learned embedding comparison,
// since the rule matcher exists precisely for when embeddings are
// unavailable.
func semanticClusterScore(directHit bool, desiredTitles []string, jobTitle string) (float64, bool) {
	if directHit {
		return 0, false
	}
	sim := 0.0
	for _, dt := range desiredTitles {
		if s := tokenJaccard(dt, jobTitle); s > sim {
			sim = s
		}
	}
	if sim <= 0 {
		return 0, false
	}
	score := sim * maxClusterScore
	return score, score >= maxClusterScore*0.5
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
