package model

import "time"

// Invite is a single-use registration token. Once UsedByID is set the code
// can never be redeemed again.
//
// swagger:model Invite
type Invite struct {
	BaseModel
	Code      string    `gorm:"size:64;uniqueIndex;not null" json:"code"`
	InviterID uint      `gorm:"not null" json:"inviterId"`
	Inviter   Person    `json:"-"`
	UsedByID  *uint     `json:"usedById"`
	UsedBy    *Person   `json:"-"`
	Comment   string    `gorm:"size:255;default:''" json:"comment"`
	IssuedAt  time.Time `json:"issuedAt"`
}

func (Invite) TableName() string {
	return "invites"
}
