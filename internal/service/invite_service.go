package service

import (
	"strings"
	"time"

	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"

	"github.com/google/uuid"
)

type InviteService struct {
	InviteRepo *repository.InviteRepository
}

func NewInviteService(inviteRepo *repository.InviteRepository) *InviteService {
	return &InviteService{InviteRepo: inviteRepo}
}

func (s *InviteService) AddInvite(person *model.Person, comment string) (*model.Invite, error) {
	if !person.User.IsStaff() {
		return nil, util.ErrPermissionDenied
	}

	invite := &model.Invite{
		Code:      strings.ReplaceAll(uuid.New().String(), "-", ""),
		InviterID: person.ID,
		Comment:   comment,
		IssuedAt:  time.Now(),
	}
	if err := s.InviteRepo.Create(invite); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *InviteService) ListInvites(person *model.Person) ([]model.Invite, error) {
	if !person.User.IsStaff() {
		return nil, util.ErrPermissionDenied
	}
	return s.InviteRepo.List()
}
