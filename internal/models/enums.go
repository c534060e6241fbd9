package models

// WorkArrangement is one of the three employment settings a job or a
// user's preference set can carry.
type WorkArrangement string

const (
	WorkArrangementRemote WorkArrangement = "remote"
	WorkArrangementHybrid WorkArrangement = "hybrid"
	WorkArrangementOnsite WorkArrangement = "on-site"
)

// IsValid reports whether w is one of the three recognized arrangements.
func (w WorkArrangement) IsValid() bool {
	switch w {
	case WorkArrangementRemote, WorkArrangementHybrid, WorkArrangementOnsite:
		return true
	}
	return false
}

// EmploymentType is one of the seven recognized contract types.
type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "full-time"
	EmploymentPartTime  EmploymentType = "part-time"
	EmploymentContract  EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
	EmploymentFreelance EmploymentType = "freelance"
	EmploymentTemporary EmploymentType = "temporary"
	EmploymentVolunteer EmploymentType = "volunteer"
)

// AllEmploymentTypes lists every recognized employment type.
func AllEmploymentTypes() []EmploymentType {
	return []EmploymentType{
		EmploymentFullTime, EmploymentPartTime, EmploymentContract,
		EmploymentInternship, EmploymentFreelance, EmploymentTemporary,
		EmploymentVolunteer,
	}
}

// ExperienceLevel is the ordered hierarchy used for adjacency scoring in
// the rule matcher (§4.5.2).
type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelJunior    ExperienceLevel = "junior"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelLead      ExperienceLevel = "lead"
	LevelExecutive ExperienceLevel = "executive"
)

// levelRank gives each level a position in the adjacency hierarchy; the
// rule matcher scores experience by rank distance, not string equality.
var levelRank = map[ExperienceLevel]int{
	LevelEntry:     0,
	LevelJunior:    1,
	LevelMid:       2,
	LevelSenior:    3,
	LevelLead:      4,
	LevelExecutive: 5,
}

// Rank returns the hierarchy position of the level, or -1 if unrecognized.
func (l ExperienceLevel) Rank() int {
	r, ok := levelRank[l]
	if !ok {
		return -1
	}
	return r
}

// DeliveryStage distinguishes a real-time dispatch from a reminder-daemon
// back-fill dispatch on a Delivery History row.
type DeliveryStage string

const (
	StageRealTime DeliveryStage = "real_time"
	StageBackfill DeliveryStage = "backfill"
)

// ReminderStage is one of the five window-expiry reminder thresholds.
type ReminderStage string

const (
	ReminderS1 ReminderStage = "S1"
	ReminderS2 ReminderStage = "S2"
	ReminderS3 ReminderStage = "S3"
	ReminderS4 ReminderStage = "S4"
	ReminderS5 ReminderStage = "S5"
)

// WindowStatus is the lifecycle state of a Conversation Window.
type WindowStatus string

const (
	WindowActive  WindowStatus = "active"
	WindowExpired WindowStatus = "expired"
)
