package service

import (
	"context"
	"errors"
	"time"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenDenylistPrefix = "auth:denylist:"

type AuthService struct {
	UserRepo   *repository.UserRepository
	PersonRepo *repository.PersonRepository
	DB         *gorm.DB
	Redis      *redis.Client
	Cfg        *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, personRepo *repository.PersonRepository, db *gorm.DB, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:   userRepo,
		PersonRepo: personRepo,
		DB:         db,
		Redis:      rdb,
		Cfg:        cfg,
	}
}

// Register redeems an invite code and creates identity plus person in one
// transaction. The invite row is re-checked inside the transaction so a code
// can never be redeemed twice, even by concurrent requests.
func (s *AuthService) Register(username, password, inviteCode string) (*model.Person, string, error) {
	if _, err := s.UserRepo.FindByUsername(username); err == nil {
		return nil, "", util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	var person *model.Person
	var user *model.User
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var invite model.Invite
		if err := tx.Where("code = ? AND used_by_id IS NULL", inviteCode).First(&invite).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.ErrInviteInvalid
			}
			return err
		}

		user = &model.User{
			Username: username,
			Password: string(hashedPassword),
			Role:     model.Member,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		person = &model.Person{UserID: user.ID}
		if err := tx.Create(person).Error; err != nil {
			return err
		}

		invite.UsedByID = &person.ID
		return tx.Save(&invite).Error
	})
	if err != nil {
		return nil, "", err
	}

	person.User = *user
	token, err := util.GenerateJWT(user, person, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return person, token, nil
}

func (s *AuthService) Login(username, password string) (*model.Person, string, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	person, err := s.PersonRepo.FindByUserID(user.ID)
	if err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, person, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return person, token, nil
}

// Logout denylists the token until its natural expiry.
func (s *AuthService) Logout(claims *util.Claims) error {
	if s.Redis == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(context.Background(), tokenDenylistPrefix+claims.ID, "1", ttl).Err()
}

func (s *AuthService) IsTokenRevoked(jti string) bool {
	if s.Redis == nil || jti == "" {
		return false
	}
	n, err := s.Redis.Exists(context.Background(), tokenDenylistPrefix+jti).Result()
	return err == nil && n > 0
}

// GetCurrentPerson resolves the request's person once at the boundary; engine
// calls below the controllers always receive it explicitly.
func (s *AuthService) GetCurrentPerson(c *gin.Context) *model.Person {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	person, err := s.PersonRepo.FindByID(claims.PersonID)
	if err != nil {
		return nil
	}
	return person
}
