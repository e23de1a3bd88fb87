package model

// Verdict is the tri-state grading outcome of a test answer. A summary row
// stays Unanswered from assignment until the visitor submits.
type Verdict string

const (
	VerdictUnanswered Verdict = "unanswered"
	VerdictCorrect    Verdict = "correct"
	VerdictIncorrect  Verdict = "incorrect"
)

// TestSummary is one assigned test step for one person. All steps of a phase
// are materialized in a single batch, so a visitor can never hold a partial
// start or final test.
//
// swagger:model TestSummary
type TestSummary struct {
	BaseModel
	PersonID   uint     `gorm:"index:idx_summary_person;not null" json:"personId"`
	Person     Person   `json:"-"`
	TestStepID uint     `gorm:"not null" json:"testStepId"`
	TestStep   TestStep `json:"testStep"`
	Topic      string   `gorm:"size:16;index;not null" json:"topic"`
	UserAnswer string   `gorm:"size:255;default:''" json:"userAnswer"`
	Verdict    Verdict  `gorm:"type:varchar(16);default:'unanswered'" json:"verdict"`
}

func (TestSummary) TableName() string {
	return "test_summaries"
}
