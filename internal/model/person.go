package model

// Person is a registered visitor's profile, distinct from the login identity
// it wraps. DiscloseAnswers means "reveal correctness on the current
// challenge until the next one is fetched".
//
// swagger:model Person
type Person struct {
	BaseModel
	UserID          uint   `gorm:"uniqueIndex;not null" json:"userId"`
	User            User   `json:"-"`
	DiscloseAnswers bool   `gorm:"default:false" json:"discloseAnswers"`
	ChallengeTopic  string `gorm:"size:100;default:''" json:"challengeTopic"`
}

func (Person) TableName() string {
	return "persons"
}
