package model

type UserRole string

const (
	Member UserRole = "member"
	Staff  UserRole = "staff"
)

// swagger:model User
type User struct {
	BaseModel
	Username string   `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(16);default:'member'" json:"role"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsStaff() bool {
	return u.Role == Staff
}
