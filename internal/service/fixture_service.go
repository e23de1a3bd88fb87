package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"
	"simpledrill_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Fixture file formats. Test fixtures (name contains "test") hold one object
// per test step; challenge fixtures (name contains "challenges") hold one
// object per question, where "+" lists correct answers and may be absent for
// questions that deliberately have no correct answer.
type fixtureTestStep struct {
	Question string `json:"q"`
	Topic    string `json:"topic"`
	Answer   string `json:"+"`
}

type fixtureChallenge struct {
	Question    string   `json:"q"`
	Explanation string   `json:"th"`
	Topic       string   `json:"topic"`
	Correct     []string `json:"+"`
	Incorrect   []string `json:"-"`
}

type FixtureService struct {
	DB          *gorm.DB
	ContentRepo *repository.ContentRepository
	Storage     *StorageService
}

func NewFixtureService(db *gorm.DB, contentRepo *repository.ContentRepository, storage *StorageService) *FixtureService {
	return &FixtureService{DB: db, ContentRepo: contentRepo, Storage: storage}
}

// ReloadAll wipes content and all per-person progress, then loads every JSON
// fixture in dir. Progress rows must go too: summaries and current answers
// reference content rows that are about to disappear.
func (s *FixtureService) ReloadAll(dir string) error {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}

	var topics []string
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{
			&model.CurrentAnswer{},
			&model.ChallengeSummary{},
			&model.TestSummary{},
			&model.Answer{},
			&model.Question{},
			&model.TestStep{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(m).Error; err != nil {
				return err
			}
		}

		for _, path := range entries {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			fileTopics, err := applyFixture(tx, filepath.Base(path), data)
			if err != nil {
				return err
			}
			topics = append(topics, fileTopics...)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.ContentRepo.InvalidateTopicCache(topics)
	logger.Log.Info("Fixtures reloaded", zap.Int("files", len(entries)))
	return nil
}

// ImportFixture archives the uploaded file, then loads its content
// additively.
func (s *FixtureService) ImportFixture(ctx context.Context, filename string, data []byte) error {
	if s.Storage != nil {
		if _, err := s.Storage.Provider.Upload(ctx, "fixtures/"+filename, bytes.NewReader(data), int64(len(data)), "application/json"); err != nil {
			logger.Log.Warn("Failed to archive fixture", zap.String("file", filename), zap.Error(err))
		}
	}

	var topics []string
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		topics, err = applyFixture(tx, filename, data)
		return err
	})
	if err != nil {
		return err
	}

	s.ContentRepo.InvalidateTopicCache(topics)
	logger.Log.Info("Fixture imported", zap.String("file", filename))
	return nil
}

func applyFixture(tx *gorm.DB, filename string, data []byte) ([]string, error) {
	switch {
	case strings.Contains(filename, "test"):
		return loadTestSteps(tx, data)
	case strings.Contains(filename, "challenges"):
		return loadChallenges(tx, data)
	default:
		return nil, fmt.Errorf("%w: %s is neither a test nor a challenges fixture", util.ErrBrokenFixture, filename)
	}
}

func loadTestSteps(tx *gorm.DB, data []byte) ([]string, error) {
	var steps []fixtureTestStep
	if err := json.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrBrokenFixture, err)
	}

	for _, step := range steps {
		if step.Topic != model.PhaseStart && step.Topic != model.PhaseFinal {
			logger.Log.Warn("Test step with unknown phase topic, it will never be assigned",
				zap.String("topic", step.Topic),
				zap.String("question", step.Question))
		}
		row := model.TestStep{
			Topic:        step.Topic,
			QuestionText: step.Question,
			AnswerText:   step.Answer,
		}
		if err := tx.Create(&row).Error; err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func loadChallenges(tx *gorm.DB, data []byte) ([]string, error) {
	var challenges []fixtureChallenge
	if err := json.Unmarshal(data, &challenges); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrBrokenFixture, err)
	}

	topicSet := make(map[string]bool)
	for _, challenge := range challenges {
		question := model.Question{
			QuestionText:    challenge.Question,
			ExplanationText: challenge.Explanation,
			Topic:           challenge.Topic,
		}
		if err := tx.Create(&question).Error; err != nil {
			return nil, err
		}
		topicSet[challenge.Topic] = true

		for _, text := range challenge.Correct {
			answer := model.Answer{QuestionID: question.ID, AnswerText: text, IsCorrect: true}
			if err := tx.Create(&answer).Error; err != nil {
				return nil, err
			}
		}
		for _, text := range challenge.Incorrect {
			answer := model.Answer{QuestionID: question.ID, AnswerText: text}
			if err := tx.Create(&answer).Error; err != nil {
				return nil, err
			}
		}
	}

	topics := make([]string, 0, len(topicSet))
	for topic := range topicSet {
		topics = append(topics, topic)
	}
	return topics, nil
}
