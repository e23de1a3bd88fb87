package repository

import (
	"simpledrill_backend/internal/model"

	"gorm.io/gorm"
)

type PersonRepository struct {
	DB *gorm.DB
}

func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

func (r *PersonRepository) Create(person *model.Person) error {
	return r.DB.Create(person).Error
}

func (r *PersonRepository) FindByID(id uint) (*model.Person, error) {
	var person model.Person
	err := r.DB.Preload("User").First(&person, id).Error
	return &person, err
}

func (r *PersonRepository) FindByUserID(userID uint) (*model.Person, error) {
	var person model.Person
	err := r.DB.Preload("User").Where("user_id = ?", userID).First(&person).Error
	return &person, err
}

func (r *PersonRepository) Update(person *model.Person) error {
	return r.DB.Save(person).Error
}

// SetDiscloseAnswers flips only the disclose flag, leaving the rest of the
// row untouched.
func (r *PersonRepository) SetDiscloseAnswers(personID uint, disclose bool) error {
	return r.DB.Model(&model.Person{}).
		Where("id = ?", personID).
		Update("disclose_answers", disclose).
		Error
}
