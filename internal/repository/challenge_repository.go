package repository

import (
	"simpledrill_backend/internal/model"

	"gorm.io/gorm"
)

type ChallengeRepository struct {
	DB *gorm.DB
}

func NewChallengeRepository(db *gorm.DB) *ChallengeRepository {
	return &ChallengeRepository{DB: db}
}

// SummariesByTopic returns the person's exposure counters for every question
// in the topic, ordered by question so tie-breaking is deterministic.
func (r *ChallengeRepository) SummariesByTopic(personID uint, topic string) ([]model.ChallengeSummary, error) {
	var summaries []model.ChallengeSummary
	err := r.DB.
		Joins("JOIN questions ON questions.id = challenge_summaries.question_id").
		Where("challenge_summaries.person_id = ? AND questions.topic = ?", personID, topic).
		Order("challenge_summaries.question_id").
		Find(&summaries).Error
	return summaries, err
}

func (r *ChallengeRepository) CreateSummaries(summaries []model.ChallengeSummary) error {
	return r.DB.Create(&summaries).Error
}

func (r *ChallengeRepository) IncrementAskedCount(personID, questionID uint) error {
	return r.DB.Model(&model.ChallengeSummary{}).
		Where("person_id = ? AND question_id = ?", personID, questionID).
		Update("asked_count", gorm.Expr("asked_count + 1")).
		Error
}

// SumAskedCounts is the total number of drills the person has been shown,
// across all topics. It drives the countdown to the final test.
func (r *ChallengeRepository) SumAskedCounts(personID uint) (int, error) {
	var total int64
	err := r.DB.Model(&model.ChallengeSummary{}).
		Where("person_id = ?", personID).
		Select("COALESCE(SUM(asked_count), 0)").
		Scan(&total).Error
	return int(total), err
}

func (r *ChallengeRepository) CurrentAnswers(personID uint) ([]model.CurrentAnswer, error) {
	var rows []model.CurrentAnswer
	err := r.DB.Preload("Answer").Preload("Answer.Question").
		Where("person_id = ?", personID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// ReplaceCurrentAnswers swaps the person's displayed answer set and disclose
// flag in one transaction. Hard delete: these rows are pure working state.
func (r *ChallengeRepository) ReplaceCurrentAnswers(personID uint, answers []model.Answer, disclose bool) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("person_id = ?", personID).
			Delete(&model.CurrentAnswer{}).Error; err != nil {
			return err
		}
		rows := make([]model.CurrentAnswer, 0, len(answers))
		for _, answer := range answers {
			rows = append(rows, model.CurrentAnswer{PersonID: personID, AnswerID: answer.ID})
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Person{}).
			Where("id = ?", personID).
			Update("disclose_answers", disclose).Error
	})
}

func (r *ChallengeRepository) DeleteCurrentAnswers(personID uint) error {
	return r.DB.Unscoped().
		Where("person_id = ?", personID).
		Delete(&model.CurrentAnswer{}).Error
}
