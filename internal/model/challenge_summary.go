package model

// ChallengeSummary counts how many times a question was presented to a
// person. Rows are created lazily, one per question, when the person first
// selects the question's topic.
//
// swagger:model ChallengeSummary
type ChallengeSummary struct {
	BaseModel
	PersonID   uint     `gorm:"uniqueIndex:idx_person_question;not null" json:"personId"`
	Person     Person   `json:"-"`
	QuestionID uint     `gorm:"uniqueIndex:idx_person_question;not null" json:"questionId"`
	Question   Question `json:"-"`
	AskedCount int      `gorm:"default:0" json:"askedCount"`
}

func (ChallengeSummary) TableName() string {
	return "challenge_summaries"
}
