package match

import (
	"testing"

	"github.com/hammed103/Aremu/internal/models"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int          { return &i }

func TestTitleScore(t *testing.T) {
	tests := []struct {
		name       string
		desired    []string
		jobTitle   string
		alternates []string
		wantHit    bool
	}{
		{"exact match", []string{"software engineer"}, "software engineer", nil, true},
		{"no overlap", []string{"nurse"}, "software engineer", nil, false},
		{"sales family both sides", []string{"account executive"}, "business development rep", nil, true},
		{"empty desired titles", nil, "software engineer", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, hit := titleScore(tt.desired, tt.jobTitle, tt.alternates)
			if hit != tt.wantHit {
				t.Errorf("titleScore(%v, %q) hit = %v, want %v (score %v)", tt.desired, tt.jobTitle, hit, tt.wantHit, score)
			}
			if score < 0 || score > maxTitleScore {
				t.Errorf("titleScore out of bounds: %v", score)
			}
		})
	}
}

func TestArrangementScore(t *testing.T) {
	score, hit := arrangementScore([]models.WorkArrangement{models.WorkArrangementRemote}, models.WorkArrangementRemote)
	if !hit || score != maxArrangementScore {
		t.Errorf("exact arrangement match: got score=%v hit=%v", score, hit)
	}

	score, hit = arrangementScore([]models.WorkArrangement{models.WorkArrangementHybrid}, models.WorkArrangementRemote)
	if !hit || score != 18 {
		t.Errorf("hybrid-broadens-to-remote: got score=%v hit=%v", score, hit)
	}

	score, hit = arrangementScore([]models.WorkArrangement{models.WorkArrangementOnsite}, models.WorkArrangementRemote)
	if hit || score != 0 {
		t.Errorf("onsite preference vs remote job should not match: got score=%v hit=%v", score, hit)
	}
}

func TestSalaryScore(t *testing.T) {
	user := models.SalaryRange{Min: floatPtr(50000), Max: floatPtr(70000), Currency: "USD"}

	within := models.SalaryRange{Min: floatPtr(55000), Max: floatPtr(65000), Currency: "USD"}
	if score, hit := salaryScore(user, within); !hit || score != maxSalaryScore {
		t.Errorf("within range: got score=%v hit=%v", score, hit)
	}

	tooLow := models.SalaryRange{Min: floatPtr(5000), Max: floatPtr(10000), Currency: "USD"}
	if _, hit := salaryScore(user, tooLow); hit {
		t.Error("salary far below user range should not match")
	}

	missing := models.SalaryRange{}
	if score, hit := salaryScore(user, missing); hit || score != 10 {
		t.Errorf("missing job salary should get baseline 10, non-matching: got score=%v hit=%v", score, hit)
	}
}

func TestExperienceScore(t *testing.T) {
	score, hit := experienceScore(models.LevelMid, intPtr(4), []string{"mid"}, intPtr(2), intPtr(5))
	if !hit {
		t.Errorf("exact level + years within range should hit, got score=%v", score)
	}

	score, _ = experienceScore(models.LevelEntry, intPtr(0), nil, nil, intPtr(2))
	if score <= 0 {
		t.Errorf("zero-years user against a junior job should get some leniency credit, got score=%v", score)
	}

	score, hit = experienceScore(models.LevelSenior, intPtr(6), []string{"lead"}, intPtr(4), nil)
	if !hit {
		t.Errorf("adjacent level + years at-or-above minimum should combine to a hit, got score=%v", score)
	}
}

// TestExperienceScore_ZeroYearsGraduatedCredit pins the years-component
// of a zero-years user against jobs requiring 0..3 years to the graduated
// values spec.md §8 names (8/10, 6/10, 4/10 for jobYearsMax 1, 2, 3; full
// credit for an exact jobYearsMax=0 match), not a flat leniency credit
// across the whole range. No level hierarchy is involved, so the
// observed score is the years component alone, scaled by maxExperienceScore.
func TestExperienceScore_ZeroYearsGraduatedCredit(t *testing.T) {
	tests := []struct {
		jobYearsMax int
		want        float64
	}{
		{0, 1.0 * maxExperienceScore},
		{1, 0.8 * maxExperienceScore},
		{2, 0.6 * maxExperienceScore},
		{3, 0.4 * maxExperienceScore},
	}

	for _, tt := range tests {
		score, _ := experienceScore("", intPtr(0), nil, nil, intPtr(tt.jobYearsMax))
		if score != tt.want {
			t.Errorf("jobYearsMax=%d: score = %v, want %v", tt.jobYearsMax, score, tt.want)
		}
	}

	// years 1 vs 2 vs 3 must be strictly differentiated, not flattened to
	// one value (the bug this graduated scale replaces).
	s1, _ := experienceScore("", intPtr(0), nil, nil, intPtr(1))
	s2, _ := experienceScore("", intPtr(0), nil, nil, intPtr(2))
	s3, _ := experienceScore("", intPtr(0), nil, nil, intPtr(3))
	if s1 <= s2 || s2 <= s3 {
		t.Errorf("expected strictly decreasing credit as jobYearsMax grows: s1=%v s2=%v s3=%v", s1, s2, s3)
	}
}

func TestFunctionScore(t *testing.T) {
	if score, hit := functionScore([]string{"sales"}, "Business Development"); !hit || score != maxFunctionScore {
		t.Errorf("synonym match: got score=%v hit=%v", score, hit)
	}
	if _, hit := functionScore([]string{"sales"}, "Accounting"); hit {
		t.Error("unrelated function should not match")
	}
	if _, hit := functionScore(nil, "Sales"); hit {
		t.Error("empty desired categories should not match")
	}
}

func TestIndustryScore(t *testing.T) {
	if score, hit := industryScore([]string{"fintech"}, nil, []string{"Fintech"}); !hit || score != maxIndustryScore {
		t.Errorf("exact industry match: got score=%v hit=%v", score, hit)
	}
	if score, hit := industryScore(nil, []string{"account executive"}, []string{"Retail"}); !hit || score != maxIndustryScore {
		t.Errorf("sales-family fallback to sales-friendly industry: got score=%v hit=%v", score, hit)
	}
	if _, hit := industryScore([]string{"fintech"}, nil, []string{"Agriculture"}); hit {
		t.Error("unrelated industry should not match")
	}
}

func TestSkillsScore(t *testing.T) {
	score, hit := skillsScore(
		[]string{"Go", "Postgres"}, []string{"communication"},
		[]string{"go", "postgresql"}, []string{"leadership"},
	)
	if !hit {
		t.Errorf("skill synonyms (postgres/postgresql) should collapse and match, got score=%v", score)
	}

	if _, hit := skillsScore([]string{"Go"}, nil, []string{"Java"}, nil); hit {
		t.Error("disjoint skill sets should not match")
	}
}

func TestSemanticClusterScore(t *testing.T) {
	if score, hit := semanticClusterScore(true, []string{"engineer"}, "software engineer"); hit || score != 0 {
		t.Errorf("direct hit should suppress cluster score, got score=%v hit=%v", score, hit)
	}

	score, hit := semanticClusterScore(false, []string{"software engineer"}, "senior software engineer")
	if !hit || score <= 0 {
		t.Errorf("related titles should produce a cluster hit, got score=%v hit=%v", score, hit)
	}
}
