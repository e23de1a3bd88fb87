package model

// Question is immutable drill content within a topic.
//
// swagger:model Question
type Question struct {
	BaseModel
	QuestionText    string `gorm:"type:text;not null" json:"questionText"`
	ExplanationText string `gorm:"type:text;default:''" json:"explanationText"`
	Topic           string `gorm:"size:100;index;not null" json:"topic"`
}

func (Question) TableName() string {
	return "questions"
}
