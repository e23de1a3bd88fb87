package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStepsFixture = `[
  {"q": "What shows the working tree status?", "topic": "start", "+": "git status"},
  {"q": "What records staged changes?", "topic": "final", "+": "git commit"}
]`

const challengesFixture = `[
  {
    "q": "Which command force-pushes safely?",
    "th": "--force-with-lease refuses to overwrite refs you have not seen.",
    "topic": "git",
    "+": ["git push --force-with-lease"],
    "-": ["git push --force", "git push -u", "git push --mirror"]
  },
  {
    "q": "Which command deletes a commit forever?",
    "th": "None of them do.",
    "topic": "git",
    "-": ["git delete", "git reset --hard", "git prune", "git gc"]
  }
]`

func newFixtureService(e *engine) *FixtureService {
	return NewFixtureService(e.db, repository.NewContentRepository(e.db, nil), nil)
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReloadAllLoadsContent(t *testing.T) {
	e := newEngine(t)
	fixtures := newFixtureService(e)

	dir := t.TempDir()
	writeFixture(t, dir, "git_test.json", testStepsFixture)
	writeFixture(t, dir, "git_challenges.json", challengesFixture)

	require.NoError(t, fixtures.ReloadAll(dir))

	var steps []model.TestStep
	require.NoError(t, e.db.Order("id").Find(&steps).Error)
	require.Len(t, steps, 2)
	assert.Equal(t, "start", steps[0].Topic)
	assert.Equal(t, "git status", steps[0].AnswerText)

	var questions []model.Question
	require.NoError(t, e.db.Order("id").Find(&questions).Error)
	require.Len(t, questions, 2)

	var correct int64
	require.NoError(t, e.db.Model(&model.Answer{}).
		Where("question_id = ? AND is_correct = ?", questions[0].ID, true).
		Count(&correct).Error)
	assert.EqualValues(t, 1, correct)

	// The "+" key may be absent: such a question has no correct answer.
	require.NoError(t, e.db.Model(&model.Answer{}).
		Where("question_id = ? AND is_correct = ?", questions[1].ID, true).
		Count(&correct).Error)
	assert.Zero(t, correct)
}

func TestReloadAllWipesProgress(t *testing.T) {
	e := newEngine(t)
	fixtures := newFixtureService(e)
	e.seedTestStep(t, model.PhaseStart, "old question", "old answer")
	person := e.newPerson(t, "alice")

	_, err := e.test.CurrentStep(person)
	require.NoError(t, err)

	dir := t.TempDir()
	writeFixture(t, dir, "git_test.json", testStepsFixture)
	require.NoError(t, fixtures.ReloadAll(dir))

	var summaries int64
	require.NoError(t, e.db.Model(&model.TestSummary{}).Count(&summaries).Error)
	assert.Zero(t, summaries, "progress rows reference replaced content and must go with it")

	var steps int64
	require.NoError(t, e.db.Model(&model.TestStep{}).Count(&steps).Error)
	assert.EqualValues(t, 2, steps)
}

func TestShippedFixturesDriveStartTest(t *testing.T) {
	e := newEngine(t)
	fixtures := newFixtureService(e)

	require.NoError(t, fixtures.ReloadAll(filepath.Join("..", "..", "fixtures")))

	// The sample content must seed both phases.
	var starts, finals int64
	require.NoError(t, e.db.Model(&model.TestStep{}).
		Where("topic = ?", model.PhaseStart).Count(&starts).Error)
	require.NoError(t, e.db.Model(&model.TestStep{}).
		Where("topic = ?", model.PhaseFinal).Count(&finals).Error)
	assert.Positive(t, starts)
	assert.Positive(t, finals)

	// A fresh visitor gets a start-test question, not an error.
	person := e.newPerson(t, "alice")
	view, err := e.test.CurrentStep(person)
	require.NoError(t, err)
	assert.False(t, view.Completed)
	assert.Equal(t, model.PhaseStart, view.Topic)
	assert.NotEmpty(t, view.QuestionText)
}

func TestImportFixtureIsAdditive(t *testing.T) {
	e := newEngine(t)
	fixtures := newFixtureService(e)
	e.seedQuestion(t, "git", "existing", "", []string{"right"}, fourWrong())

	err := fixtures.ImportFixture(context.Background(), "more_challenges.json", []byte(challengesFixture))
	require.NoError(t, err)

	var questions int64
	require.NoError(t, e.db.Model(&model.Question{}).Count(&questions).Error)
	assert.EqualValues(t, 3, questions)
}

func TestImportFixtureRejectsUnknownKind(t *testing.T) {
	e := newEngine(t)
	fixtures := newFixtureService(e)

	err := fixtures.ImportFixture(context.Background(), "mystery.json", []byte("[]"))
	assert.ErrorIs(t, err, util.ErrBrokenFixture)
}

func TestImportFixtureRejectsMalformedJSON(t *testing.T) {
	e := newEngine(t)
	fixtures := newFixtureService(e)

	err := fixtures.ImportFixture(context.Background(), "bad_challenges.json", []byte("{not json"))
	assert.ErrorIs(t, err, util.ErrBrokenFixture)

	var questions int64
	require.NoError(t, e.db.Model(&model.Question{}).Count(&questions).Error)
	assert.Zero(t, questions)
}
