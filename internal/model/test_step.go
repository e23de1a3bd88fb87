package model

// Test phases. The two topics partition the global test: the start test is
// taken before drilling, the final test after the drill quota is reached.
const (
	PhaseStart = "start"
	PhaseFinal = "final"
)

// TestStep is one immutable question of the start or final test.
//
// swagger:model TestStep
type TestStep struct {
	BaseModel
	Topic        string `gorm:"size:16;index;not null" json:"topic"`
	QuestionText string `gorm:"type:text;not null" json:"questionText"`
	AnswerText   string `gorm:"type:text;not null" json:"-"`
}

func (TestStep) TableName() string {
	return "test_steps"
}
