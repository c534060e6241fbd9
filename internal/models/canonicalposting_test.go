package models

import (
	"testing"

	"github.com/pgvector/pgvector-go"
)

func TestHasEmbedding(t *testing.T) {
	c := &CanonicalPosting{}
	if c.HasEmbedding() {
		t.Error("expected no embedding by default")
	}

	vec := pgvector.NewVector([]float32{0.1, 0.2})
	c.Embedding = &vec
	if !c.HasEmbedding() {
		t.Error("expected HasEmbedding to be true once set")
	}
}

func TestEffectiveSalary_PrefersDirectRangeWhenPresent(t *testing.T) {
	min, max := 400000.0, 600000.0
	c := &CanonicalPosting{
		Salary:         SalaryRange{Min: &min, Max: &max},
		InferredSalary: SalaryRange{Min: float64Ptr(1), Max: float64Ptr(2)},
	}

	got := c.EffectiveSalary()
	if got.Min != &min || got.Max != &max {
		t.Errorf("expected the direct salary range, got %+v", got)
	}
}

func TestEffectiveSalary_FallsBackToInferredWhenDirectIsEmpty(t *testing.T) {
	inferredMin := 300000.0
	c := &CanonicalPosting{
		InferredSalary: SalaryRange{Min: &inferredMin},
	}

	got := c.EffectiveSalary()
	if got.Min != &inferredMin {
		t.Error("expected the inferred salary range when the direct one is empty")
	}
}

func TestResolvedWorkArrangement_UsesModelValueWhenValid(t *testing.T) {
	c := &CanonicalPosting{WorkArrangement: WorkArrangementHybrid}
	if got := c.ResolvedWorkArrangement(); got != WorkArrangementHybrid {
		t.Errorf("got %q, want %q", got, WorkArrangementHybrid)
	}
}

func TestResolvedWorkArrangement_FallsBackToRemoteWhenRemoteAllowed(t *testing.T) {
	c := &CanonicalPosting{RemoteAllowed: true}
	if got := c.ResolvedWorkArrangement(); got != WorkArrangementRemote {
		t.Errorf("got %q, want %q", got, WorkArrangementRemote)
	}
}

func TestResolvedWorkArrangement_FallsBackToOnsiteOtherwise(t *testing.T) {
	c := &CanonicalPosting{}
	if got := c.ResolvedWorkArrangement(); got != WorkArrangementOnsite {
		t.Errorf("got %q, want %q", got, WorkArrangementOnsite)
	}
}

func TestDedupKey_NormalizesCaseAndWhitespace(t *testing.T) {
	a := &CanonicalPosting{Title: " Backend Engineer ", Company: "Paystack", DisplayLocation: "Lagos, Nigeria"}
	b := &CanonicalPosting{Title: "backend engineer", Company: "PAYSTACK", DisplayLocation: "lagos, nigeria"}

	if a.DedupKey() != b.DedupKey() {
		t.Errorf("expected equal dedup keys, got %q and %q", a.DedupKey(), b.DedupKey())
	}
}

func TestDedupKey_DiffersOnLocation(t *testing.T) {
	a := &CanonicalPosting{Title: "Backend Engineer", Company: "Paystack", DisplayLocation: "Lagos"}
	b := &CanonicalPosting{Title: "Backend Engineer", Company: "Paystack", DisplayLocation: "Nairobi"}

	if a.DedupKey() == b.DedupKey() {
		t.Error("expected dedup keys to differ when location differs")
	}
}

func float64Ptr(f float64) *float64 { return &f }
