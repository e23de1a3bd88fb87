package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"simpledrill_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	topicQuestionsKeyPrefix = "content:questions:"
	topicQuestionsTTL       = time.Hour
)

// ContentRepository reads the immutable quiz content. Content only changes on
// a full fixture reload, so per-topic question lists are cached in redis.
type ContentRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewContentRepository(db *gorm.DB, rdb *redis.Client) *ContentRepository {
	return &ContentRepository{DB: db, Redis: rdb}
}

func (r *ContentRepository) TestStepsByTopic(topic string) ([]model.TestStep, error) {
	var steps []model.TestStep
	err := r.DB.Where("topic = ?", topic).Order("id").Find(&steps).Error
	return steps, err
}

func (r *ContentRepository) CountTestStepsByTopic(topic string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestStep{}).Where("topic = ?", topic).Count(&count).Error
	return count, err
}

func (r *ContentRepository) CountTestSteps() (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestStep{}).Count(&count).Error
	return count, err
}

func (r *ContentRepository) QuestionsByTopic(topic string) ([]model.Question, error) {
	ctx := context.Background()
	key := topicQuestionsKeyPrefix + topic

	if r.Redis != nil {
		if val, err := r.Redis.Get(ctx, key).Result(); err == nil {
			var cached []model.Question
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached, nil
			}
		}
	}

	var questions []model.Question
	if err := r.DB.Where("topic = ?", topic).Order("id").Find(&questions).Error; err != nil {
		return nil, err
	}

	if r.Redis != nil && len(questions) > 0 {
		if data, err := json.Marshal(questions); err == nil {
			r.Redis.Set(ctx, key, data, topicQuestionsTTL)
		}
	}

	return questions, nil
}

func (r *ContentRepository) AnswersByQuestion(questionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("question_id = ?", questionID).Order("id").Find(&answers).Error
	return answers, err
}

func (r *ContentRepository) QuestionByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, id).Error
	return &question, err
}

// InvalidateTopicCache drops cached question lists after a fixture reload.
func (r *ContentRepository) InvalidateTopicCache(topics []string) {
	if r.Redis == nil {
		return
	}
	ctx := context.Background()
	for _, topic := range topics {
		r.Redis.Del(ctx, fmt.Sprintf("%s%s", topicQuestionsKeyPrefix, topic))
	}
}
