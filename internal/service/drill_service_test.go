package service

import (
	"testing"

	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourWrong() []string {
	return []string{"wrong 1", "wrong 2", "wrong 3", "wrong 4"}
}

func answerIDs(answers []model.Answer) []uint {
	ids := make([]uint, 0, len(answers))
	for _, answer := range answers {
		ids = append(ids, answer.ID)
	}
	return ids
}

func findAnswer(t *testing.T, answers []model.Answer, correct bool) *model.Answer {
	t.Helper()
	for i := range answers {
		if answers[i].IsCorrect == correct {
			return &answers[i]
		}
	}
	t.Fatalf("no answer with IsCorrect=%v on screen", correct)
	return nil
}

func TestNextChallengeRequiresTopic(t *testing.T) {
	e := newEngine(t)
	person := e.newPerson(t, "alice")

	_, err := e.drill.NextChallenge(person)
	assert.ErrorIs(t, err, util.ErrNoTopicSelected)
}

func TestNextChallengeEmptyTopic(t *testing.T) {
	e := newEngine(t)
	person := e.newPerson(t, "alice")

	require.NoError(t, e.drill.SelectTopic(person, "ghost"))
	_, err := e.drill.NextChallenge(person)
	assert.ErrorIs(t, err, util.ErrNoQuestions)
}

func TestNextChallengeTooFewAnswers(t *testing.T) {
	e := newEngine(t)
	e.seedQuestion(t, "git", "broken", "", []string{"right"}, []string{"wrong 1", "wrong 2"})
	person := e.newPerson(t, "alice")

	require.NoError(t, e.drill.SelectTopic(person, "git"))
	_, err := e.drill.NextChallenge(person)
	assert.ErrorIs(t, err, util.ErrTooFewAnswers)
}

func TestNextChallengeSamplesFourAnswers(t *testing.T) {
	e := newEngine(t)
	question := e.seedQuestion(t, "git", "pick one", "because",
		[]string{"right"}, []string{"wrong 1", "wrong 2", "wrong 3", "wrong 4", "wrong 5"})
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	challenge, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	assert.Equal(t, question.ID, challenge.Question.ID)
	assert.False(t, challenge.DiscloseAnswers)
	require.Len(t, challenge.Answers, 4)

	seen := make(map[uint]bool)
	for _, answer := range challenge.Answers {
		assert.Equal(t, question.ID, answer.QuestionID)
		assert.False(t, seen[answer.ID], "sampled answers must be distinct")
		seen[answer.ID] = true
	}
}

func TestCurrentChallengeRoundTrip(t *testing.T) {
	e := newEngine(t)
	e.seedQuestion(t, "git", "pick one", "because", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	issued, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	current, err := e.drill.CurrentChallenge(person)
	require.NoError(t, err)
	require.NotNil(t, current)

	assert.Equal(t, issued.Question.ID, current.Question.ID)
	assert.ElementsMatch(t, answerIDs(issued.Answers), answerIDs(current.Answers))
	assert.False(t, current.DiscloseAnswers)
}

func TestCurrentChallengeNilWithoutOne(t *testing.T) {
	e := newEngine(t)
	person := e.newPerson(t, "alice")

	challenge, err := e.drill.CurrentChallenge(person)
	require.NoError(t, err)
	assert.Nil(t, challenge)
}

func TestRepetitionFairness(t *testing.T) {
	e := newEngine(t)
	for _, text := range []string{"q1", "q2", "q3"} {
		e.seedQuestion(t, "git", text, "", []string{"right"}, fourWrong())
	}
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	// Three consecutive challenges must cover all three questions.
	seen := make(map[uint]bool)
	for i := 0; i < 3; i++ {
		challenge, err := e.drill.NextChallenge(person)
		require.NoError(t, err)
		seen[challenge.Question.ID] = true
	}
	assert.Len(t, seen, 3)

	// After two full rounds every exposure counter reads two.
	for i := 0; i < 3; i++ {
		_, err := e.drill.NextChallenge(person)
		require.NoError(t, err)
	}
	var summaries []model.ChallengeSummary
	require.NoError(t, e.db.Where("person_id = ?", person.ID).Find(&summaries).Error)
	require.Len(t, summaries, 3)
	for _, summary := range summaries {
		assert.Equal(t, 2, summary.AskedCount)
	}
}

func TestSubmitCorrectAnswerKeepsChallenge(t *testing.T) {
	e := newEngine(t)
	question := e.seedQuestion(t, "git", "pick one", "because", []string{"right"}, []string{"wrong 1", "wrong 2", "wrong 3"})
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	challenge, err := e.drill.NextChallenge(person)
	require.NoError(t, err)
	correct := findAnswer(t, challenge.Answers, true)

	result, err := e.drill.SubmitAnswer(person, correct.ID)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.NotNil(t, result.Challenge)
	assert.True(t, result.Challenge.DiscloseAnswers)

	current, err := e.drill.CurrentChallenge(e.reloadPerson(t, person))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, question.ID, current.Question.ID, "a solved challenge stays on screen")
	assert.True(t, current.DiscloseAnswers)
}

func TestSubmitWrongAnswerAdvances(t *testing.T) {
	e := newEngine(t)
	e.seedQuestion(t, "git", "q1", "explained here", []string{"right"}, []string{"wrong 1", "wrong 2", "wrong 3"})
	e.seedQuestion(t, "git", "q2", "", []string{"right"}, []string{"wrong 1", "wrong 2", "wrong 3"})
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	challenge, err := e.drill.NextChallenge(person)
	require.NoError(t, err)
	failedID := challenge.Question.ID
	wrong := findAnswer(t, challenge.Answers, false)

	result, err := e.drill.SubmitAnswer(person, wrong.ID)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, challenge.Question.ExplanationText, result.Explanation)
	require.NotNil(t, result.Challenge)
	assert.Equal(t, failedID, result.Challenge.Question.ID, "the result must carry the failed challenge")
	assert.True(t, result.Challenge.DiscloseAnswers)

	current, err := e.drill.CurrentChallenge(e.reloadPerson(t, person))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.NotEqual(t, failedID, current.Question.ID, "a failed challenge rolls to the next one")
	assert.False(t, current.DiscloseAnswers)
}

func TestStaleAnswerRejectedWithoutMutation(t *testing.T) {
	e := newEngine(t)
	e.seedQuestion(t, "git", "q1", "", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	challenge, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	_, err = e.drill.SubmitAnswer(person, 99999)
	assert.ErrorIs(t, err, util.ErrStaleAnswer)

	current, err := e.drill.CurrentChallenge(e.reloadPerson(t, person))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, challenge.Question.ID, current.Question.ID)
	assert.ElementsMatch(t, answerIDs(challenge.Answers), answerIDs(current.Answers))
	assert.False(t, current.DiscloseAnswers)

	var summary model.ChallengeSummary
	require.NoError(t, e.db.Where("person_id = ?", person.ID).First(&summary).Error)
	assert.Equal(t, 1, summary.AskedCount, "a stale submission must not touch counters")
}

func TestSubmitAnswerWithoutChallenge(t *testing.T) {
	e := newEngine(t)
	person := e.newPerson(t, "alice")

	_, err := e.drill.SubmitAnswer(person, 1)
	assert.ErrorIs(t, err, util.ErrNoActiveChallenge)
}

func TestNoCorrectAnswerClaimRight(t *testing.T) {
	e := newEngine(t)
	question := e.seedQuestion(t, "git", "trick question", "none of these work", nil, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	_, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	result, err := e.drill.SubmitNoCorrectAnswer(person)
	require.NoError(t, err)

	assert.True(t, result.Success)

	current, err := e.drill.CurrentChallenge(e.reloadPerson(t, person))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, question.ID, current.Question.ID)
	assert.True(t, current.DiscloseAnswers)
}

func TestNoCorrectAnswerClaimChecksFullAnswerSet(t *testing.T) {
	e := newEngine(t)
	// Five answers with one correct: the four on screen may all be wrong,
	// but the claim is judged against the full set.
	trick := e.seedQuestion(t, "git", "q1", "there is one", []string{"right"}, fourWrong())
	e.seedQuestion(t, "git", "q2", "", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	var challenge *Challenge
	var err error
	for {
		challenge, err = e.drill.NextChallenge(person)
		require.NoError(t, err)
		if challenge.Question.ID == trick.ID {
			break
		}
	}

	result, err := e.drill.SubmitNoCorrectAnswer(person)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "there is one", result.Explanation)
	require.NotNil(t, result.Challenge)
	assert.Equal(t, trick.ID, result.Challenge.Question.ID)

	current, err := e.drill.CurrentChallenge(e.reloadPerson(t, person))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.NotEqual(t, trick.ID, current.Question.ID, "a wrong claim rolls to the next challenge")
}

func TestGiveUpKeepsChallenge(t *testing.T) {
	e := newEngine(t)
	question := e.seedQuestion(t, "git", "hard one", "like so", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	_, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	result, err := e.drill.GiveUp(person)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, "like so", result.Explanation)

	current, err := e.drill.CurrentChallenge(e.reloadPerson(t, person))
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, question.ID, current.Question.ID, "giving up does not advance")
	assert.True(t, current.DiscloseAnswers)

	var summary model.ChallengeSummary
	require.NoError(t, e.db.Where("person_id = ?", person.ID).First(&summary).Error)
	assert.Equal(t, 1, summary.AskedCount)
}

func TestSelectTopicSwitchAbandonsChallenge(t *testing.T) {
	e := newEngine(t)
	e.seedQuestion(t, "git", "q1", "", []string{"right"}, fourWrong())
	e.seedQuestion(t, "math", "q2", "", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	_, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	require.NoError(t, e.drill.SelectTopic(person, "math"))

	challenge, err := e.drill.CurrentChallenge(person)
	require.NoError(t, err)
	assert.Nil(t, challenge, "switching topics abandons the in-flight challenge")
}

func TestSelectSameTopicIsNoop(t *testing.T) {
	e := newEngine(t)
	e.seedQuestion(t, "git", "q1", "", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	issued, err := e.drill.NextChallenge(person)
	require.NoError(t, err)

	require.NoError(t, e.drill.SelectTopic(person, "git"))

	current, err := e.drill.CurrentChallenge(person)
	require.NoError(t, err)
	require.NotNil(t, current, "re-selecting the current topic keeps the challenge")
	assert.Equal(t, issued.Question.ID, current.Question.ID)
}

func TestCountdownTracksQuota(t *testing.T) {
	e := newEngine(t)
	setRepetitionTarget(t, 10)
	e.seedQuestion(t, "git", "q1", "", []string{"right"}, fourWrong())
	person := e.newPerson(t, "alice")
	require.NoError(t, e.drill.SelectTopic(person, "git"))

	countdown, err := e.drill.Countdown(person)
	require.NoError(t, err)
	assert.Equal(t, 10, countdown)

	for i := 0; i < 2; i++ {
		_, err := e.drill.NextChallenge(person)
		require.NoError(t, err)
	}

	countdown, err = e.drill.Countdown(person)
	require.NoError(t, err)
	assert.Equal(t, 8, countdown)
}
