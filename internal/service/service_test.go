package service

import (
	"path/filepath"
	"testing"

	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/pkg/database"
	"simpledrill_backend/pkg/logger"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

// engine bundles a fresh database with all services wired the way the app
// wires them, so tests drive the same object graph as production.
type engine struct {
	db      *gorm.DB
	persons *repository.PersonRepository
	test    *TestService
	drill   *DrillService
}

func newEngine(t *testing.T) *engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	persons := repository.NewPersonRepository(db)
	content := repository.NewContentRepository(db, nil)
	summaries := repository.NewTestSummaryRepository(db)
	challenges := repository.NewChallengeRepository(db)
	locks := NewPersonLocks()

	return &engine{
		db:      db,
		persons: persons,
		test:    NewTestService(content, summaries, challenges, locks),
		drill:   NewDrillService(persons, content, challenges, locks),
	}
}

func (e *engine) newPerson(t *testing.T, username string) *model.Person {
	t.Helper()

	user := &model.User{Username: username, Password: "x", Role: model.Member}
	require.NoError(t, e.db.Create(user).Error)
	person := &model.Person{UserID: user.ID}
	require.NoError(t, e.db.Create(person).Error)
	person.User = *user
	return person
}

func (e *engine) reloadPerson(t *testing.T, person *model.Person) *model.Person {
	t.Helper()

	fresh, err := e.persons.FindByID(person.ID)
	require.NoError(t, err)
	return fresh
}

func (e *engine) seedTestStep(t *testing.T, phase, question, answer string) {
	t.Helper()
	require.NoError(t, e.db.Create(&model.TestStep{
		Topic:        phase,
		QuestionText: question,
		AnswerText:   answer,
	}).Error)
}

// seedQuestion creates a drill question with the given answer texts. Correct
// answers carry the "+" suffix convention used only inside tests: pass them
// through the correct slice instead.
func (e *engine) seedQuestion(t *testing.T, topic, text, explanation string, correct, incorrect []string) *model.Question {
	t.Helper()

	question := &model.Question{QuestionText: text, ExplanationText: explanation, Topic: topic}
	require.NoError(t, e.db.Create(question).Error)
	for _, answerText := range correct {
		require.NoError(t, e.db.Create(&model.Answer{
			QuestionID: question.ID,
			AnswerText: answerText,
			IsCorrect:  true,
		}).Error)
	}
	for _, answerText := range incorrect {
		require.NoError(t, e.db.Create(&model.Answer{
			QuestionID: question.ID,
			AnswerText: answerText,
		}).Error)
	}
	return question
}

// setRepetitionTarget pins the drill quota for the duration of one test.
func setRepetitionTarget(t *testing.T, target int) {
	t.Helper()

	previous := viper.Get("drill.repetition_target")
	viper.Set("drill.repetition_target", target)
	t.Cleanup(func() {
		viper.Set("drill.repetition_target", previous)
	})
}
