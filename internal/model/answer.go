package model

// Answer belongs to exactly one Question. A question with zero correct
// answers is valid content; the visitor is expected to assert "no correct
// answer" on it.
//
// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID uint     `gorm:"index;not null" json:"questionId"`
	Question   Question `json:"-"`
	AnswerText string   `gorm:"type:text;not null" json:"answerText"`
	IsCorrect  bool     `gorm:"default:false" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}
