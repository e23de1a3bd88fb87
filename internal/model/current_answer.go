package model

// CurrentAnswer is one of the answers currently on screen for a person's
// in-progress challenge. A person has at most one logical current challenge:
// old rows are removed before new ones are written. The active question is
// not stored, it is inferred from any row's parent question.
//
// swagger:model CurrentAnswer
type CurrentAnswer struct {
	BaseModel
	PersonID uint   `gorm:"index;not null" json:"personId"`
	Person   Person `json:"-"`
	AnswerID uint   `gorm:"not null" json:"answerId"`
	Answer   Answer `json:"answer"`
}

func (CurrentAnswer) TableName() string {
	return "current_answers"
}
