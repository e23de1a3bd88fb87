package service

import (
	"fmt"
	"math/rand"

	"simpledrill_backend/internal/config"
	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"
	"simpledrill_backend/pkg/monitoring"
)

// answersOnScreen is how many answer choices a challenge displays. A question
// with fewer answers than this is broken content.
const answersOnScreen = 4

// DrillService picks which question to show next for a visitor's selected
// topic, tracks exposure counts and persists enough state to resume a
// challenge mid-question.
type DrillService struct {
	PersonRepo    *repository.PersonRepository
	ContentRepo   *repository.ContentRepository
	ChallengeRepo *repository.ChallengeRepository
	Locks         *PersonLocks
}

func NewDrillService(
	personRepo *repository.PersonRepository,
	contentRepo *repository.ContentRepository,
	challengeRepo *repository.ChallengeRepository,
	locks *PersonLocks,
) *DrillService {
	return &DrillService{
		PersonRepo:    personRepo,
		ContentRepo:   contentRepo,
		ChallengeRepo: challengeRepo,
		Locks:         locks,
	}
}

// Challenge is one drill round: a question plus the answer choices currently
// on screen.
type Challenge struct {
	Question        model.Question `json:"question"`
	Answers         []model.Answer `json:"answers"`
	DiscloseAnswers bool           `json:"discloseAnswers"`
}

// ChallengeResult reports the outcome of a submission. On failure the
// challenge carried here is the failed one, disclosed for inspection, even
// when the stored state has already advanced to a fresh challenge.
type ChallengeResult struct {
	Success     bool       `json:"success"`
	Explanation string     `json:"explanation,omitempty"`
	Challenge   *Challenge `json:"challenge,omitempty"`
}

// countdownToFinalTest is shared with the test progression state machine: the
// drill quota comes from the environment on every call, so operators can move
// the target without a restart.
func countdownToFinalTest(challengeRepo *repository.ChallengeRepository, person *model.Person) (int, error) {
	drilled, err := challengeRepo.SumAskedCounts(person.ID)
	if err != nil {
		return 0, err
	}
	return config.RepetitionTarget() - drilled, nil
}

func (s *DrillService) Countdown(person *model.Person) (int, error) {
	return countdownToFinalTest(s.ChallengeRepo, person)
}

// SelectTopic switches the visitor's drill topic. Switching abandons any
// in-flight challenge; re-selecting the current topic is a no-op.
func (s *DrillService) SelectTopic(person *model.Person, topic string) error {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()

	if person.ChallengeTopic == topic {
		return nil
	}

	person.ChallengeTopic = topic
	if err := s.PersonRepo.Update(person); err != nil {
		return err
	}
	return s.ChallengeRepo.DeleteCurrentAnswers(person.ID)
}

// CurrentChallenge rebuilds the in-progress challenge from the stored answer
// rows. The question is not stored, it is inferred from any stored answer's
// parent. Returns nil when there is no current challenge.
func (s *DrillService) CurrentChallenge(person *model.Person) (*Challenge, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()
	return s.currentChallenge(person)
}

func (s *DrillService) currentChallenge(person *model.Person) (*Challenge, error) {
	rows, err := s.ChallengeRepo.CurrentAnswers(person.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	challenge := &Challenge{
		Question:        rows[0].Answer.Question,
		DiscloseAnswers: person.DiscloseAnswers,
	}
	for _, row := range rows {
		answer := row.Answer
		answer.Question = model.Question{}
		challenge.Answers = append(challenge.Answers, answer)
	}
	return challenge, nil
}

// NextChallenge runs the selection algorithm: materialize exposure counters
// for the topic if needed, pick the least-asked question (round-robin over
// ties), sample the answer choices, bump the counter and persist the new
// current challenge.
func (s *DrillService) NextChallenge(person *model.Person) (*Challenge, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()
	return s.nextChallenge(person)
}

func (s *DrillService) nextChallenge(person *model.Person) (*Challenge, error) {
	topic := person.ChallengeTopic
	if topic == "" {
		return nil, util.ErrNoTopicSelected
	}

	summaries, err := s.ChallengeRepo.SummariesByTopic(person.ID, topic)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		if err := s.materializeTopic(person, topic); err != nil {
			return nil, err
		}
		summaries, err = s.ChallengeRepo.SummariesByTopic(person.ID, topic)
		if err != nil {
			return nil, err
		}
	}

	chosen := pickLeastAsked(summaries)

	question, err := s.ContentRepo.QuestionByID(chosen.QuestionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.ContentRepo.AnswersByQuestion(question.ID)
	if err != nil {
		return nil, err
	}
	if len(answers) < answersOnScreen {
		return nil, fmt.Errorf("%w: question %d has %d", util.ErrTooFewAnswers, question.ID, len(answers))
	}

	sampled := sampleAnswers(answers, answersOnScreen)

	if err := s.ChallengeRepo.IncrementAskedCount(person.ID, question.ID); err != nil {
		return nil, err
	}
	if err := s.ChallengeRepo.ReplaceCurrentAnswers(person.ID, sampled, false); err != nil {
		return nil, err
	}
	person.DiscloseAnswers = false

	return &Challenge{Question: *question, Answers: sampled}, nil
}

// materializeTopic writes one zero counter per question in the topic, so the
// person can then be asked each question any number of times.
func (s *DrillService) materializeTopic(person *model.Person, topic string) error {
	questions, err := s.ContentRepo.QuestionsByTopic(topic)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		return fmt.Errorf("%w: %s", util.ErrNoQuestions, topic)
	}

	summaries := make([]model.ChallengeSummary, 0, len(questions))
	for _, question := range questions {
		summaries = append(summaries, model.ChallengeSummary{
			PersonID:   person.ID,
			QuestionID: question.ID,
		})
	}
	return s.ChallengeRepo.CreateSummaries(summaries)
}

// pickLeastAsked selects among the questions at the minimum exposure count.
// Ties are broken by a cyclic index recomputed from the stored counts, which
// spreads exposure evenly instead of always picking the first candidate.
func pickLeastAsked(summaries []model.ChallengeSummary) model.ChallengeSummary {
	minAsked := summaries[0].AskedCount
	total := 0
	for _, summary := range summaries {
		total += summary.AskedCount
		if summary.AskedCount < minAsked {
			minAsked = summary.AskedCount
		}
	}

	var candidates []model.ChallengeSummary
	for _, summary := range summaries {
		if summary.AskedCount == minAsked {
			candidates = append(candidates, summary)
		}
	}
	return candidates[total%len(candidates)]
}

// sampleAnswers draws n distinct answers uniformly at random.
func sampleAnswers(answers []model.Answer, n int) []model.Answer {
	sampled := make([]model.Answer, 0, n)
	for _, i := range rand.Perm(len(answers))[:n] {
		sampled = append(sampled, answers[i])
	}
	return sampled
}

// SubmitAnswer handles a choice by answer identity. A submission that does
// not match the answers on screen is stale (the challenge has already
// advanced) and is rejected without touching state. A wrong answer disclosed
// the solution and immediately rolls to the next challenge; a right one
// leaves the challenge in place so the visitor sees it marked correct.
func (s *DrillService) SubmitAnswer(person *model.Person, answerID uint) (*ChallengeResult, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()

	challenge, err := s.currentChallenge(person)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, util.ErrNoActiveChallenge
	}

	var chosen *model.Answer
	for i := range challenge.Answers {
		if challenge.Answers[i].ID == answerID {
			chosen = &challenge.Answers[i]
			break
		}
	}
	if chosen == nil {
		return nil, util.ErrStaleAnswer
	}

	challenge.DiscloseAnswers = true

	if chosen.IsCorrect {
		if err := s.PersonRepo.SetDiscloseAnswers(person.ID, true); err != nil {
			return nil, err
		}
		person.DiscloseAnswers = true
		monitoring.DrillAnswerCounter.WithLabelValues(challenge.Question.Topic, "success").Inc()
		return &ChallengeResult{Success: true, Challenge: challenge}, nil
	}

	if _, err := s.nextChallenge(person); err != nil {
		return nil, err
	}
	monitoring.DrillAnswerCounter.WithLabelValues(challenge.Question.Topic, "failure").Inc()
	return &ChallengeResult{
		Success:     false,
		Explanation: challenge.Question.ExplanationText,
		Challenge:   challenge,
	}, nil
}

// SubmitNoCorrectAnswer handles the assertion that the question has no
// correct answer at all. The assertion is checked against the question's full
// answer set, not only the four on screen.
func (s *DrillService) SubmitNoCorrectAnswer(person *model.Person) (*ChallengeResult, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()

	challenge, err := s.currentChallenge(person)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, util.ErrNoActiveChallenge
	}

	allAnswers, err := s.ContentRepo.AnswersByQuestion(challenge.Question.ID)
	if err != nil {
		return nil, err
	}
	hasCorrect := false
	for _, answer := range allAnswers {
		if answer.IsCorrect {
			hasCorrect = true
			break
		}
	}

	challenge.DiscloseAnswers = true

	if hasCorrect {
		if _, err := s.nextChallenge(person); err != nil {
			return nil, err
		}
		monitoring.DrillAnswerCounter.WithLabelValues(challenge.Question.Topic, "failure").Inc()
		return &ChallengeResult{
			Success:     false,
			Explanation: challenge.Question.ExplanationText,
			Challenge:   challenge,
		}, nil
	}

	if err := s.PersonRepo.SetDiscloseAnswers(person.ID, true); err != nil {
		return nil, err
	}
	person.DiscloseAnswers = true
	monitoring.DrillAnswerCounter.WithLabelValues(challenge.Question.Topic, "success").Inc()
	return &ChallengeResult{Success: true, Challenge: challenge}, nil
}

// GiveUp marks the current challenge disclosed and failed but leaves it in
// place for inspection. Unlike a wrong answer it does not advance.
func (s *DrillService) GiveUp(person *model.Person) (*ChallengeResult, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()

	challenge, err := s.currentChallenge(person)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, util.ErrNoActiveChallenge
	}

	if err := s.PersonRepo.SetDiscloseAnswers(person.ID, true); err != nil {
		return nil, err
	}
	person.DiscloseAnswers = true
	challenge.DiscloseAnswers = true

	monitoring.DrillAnswerCounter.WithLabelValues(challenge.Question.Topic, "giveup").Inc()
	return &ChallengeResult{
		Success:     false,
		Explanation: challenge.Question.ExplanationText,
		Challenge:   challenge,
	}, nil
}
