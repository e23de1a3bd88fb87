package repository

import (
	"simpledrill_backend/internal/model"

	"gorm.io/gorm"
)

type TestSummaryRepository struct {
	DB *gorm.DB
}

func NewTestSummaryRepository(db *gorm.DB) *TestSummaryRepository {
	return &TestSummaryRepository{DB: db}
}

// CreateBatch materializes a whole phase in one insert so a visitor can never
// end up with a partial test.
func (r *TestSummaryRepository) CreateBatch(summaries []model.TestSummary) error {
	return r.DB.Create(&summaries).Error
}

func (r *TestSummaryRepository) Update(summary *model.TestSummary) error {
	return r.DB.Save(summary).Error
}

func (r *TestSummaryRepository) CountByPerson(personID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestSummary{}).
		Where("person_id = ?", personID).
		Count(&count).Error
	return count, err
}

func (r *TestSummaryRepository) CountByPersonAndTopic(personID uint, topic string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestSummary{}).
		Where("person_id = ? AND topic = ?", personID, topic).
		Count(&count).Error
	return count, err
}

func (r *TestSummaryRepository) CountUnanswered(personID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestSummary{}).
		Where("person_id = ? AND verdict = ?", personID, model.VerdictUnanswered).
		Count(&count).Error
	return count, err
}

func (r *TestSummaryRepository) CountUnansweredByTopic(personID uint, topic string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestSummary{}).
		Where("person_id = ? AND topic = ? AND verdict = ?", personID, topic, model.VerdictUnanswered).
		Count(&count).Error
	return count, err
}

func (r *TestSummaryRepository) CountCorrectByTopic(personID uint, topic string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestSummary{}).
		Where("person_id = ? AND topic = ? AND verdict = ?", personID, topic, model.VerdictCorrect).
		Count(&count).Error
	return count, err
}

// FirstUnanswered returns the pending step in assignment order, or
// gorm.ErrRecordNotFound when the visitor has no pending step.
func (r *TestSummaryRepository) FirstUnanswered(personID uint) (*model.TestSummary, error) {
	var summary model.TestSummary
	err := r.DB.Preload("TestStep").
		Where("person_id = ? AND verdict = ?", personID, model.VerdictUnanswered).
		Order("id").
		First(&summary).Error
	return &summary, err
}
