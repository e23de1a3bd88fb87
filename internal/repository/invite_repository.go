package repository

import (
	"simpledrill_backend/internal/model"

	"gorm.io/gorm"
)

type InviteRepository struct {
	DB *gorm.DB
}

func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{DB: db}
}

func (r *InviteRepository) Create(invite *model.Invite) error {
	return r.DB.Create(invite).Error
}

func (r *InviteRepository) FindByCode(code string) (*model.Invite, error) {
	var invite model.Invite
	err := r.DB.Where("code = ?", code).First(&invite).Error
	return &invite, err
}

func (r *InviteRepository) List() ([]model.Invite, error) {
	var invites []model.Invite
	err := r.DB.Order("issued_at DESC").Find(&invites).Error
	return invites, err
}
