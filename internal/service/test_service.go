package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"simpledrill_backend/internal/model"
	"simpledrill_backend/internal/repository"
	"simpledrill_backend/internal/util"
	"simpledrill_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// answerLengthSlack tolerates minor formatting around the expected answer
// while rejecting submissions padded with unrelated content.
const answerLengthSlack = 5

// TestService is the start/final test state machine. The phase a visitor is
// in is never stored, it is inferred from counting their summary rows.
type TestService struct {
	ContentRepo   *repository.ContentRepository
	SummaryRepo   *repository.TestSummaryRepository
	ChallengeRepo *repository.ChallengeRepository
	Locks         *PersonLocks
}

func NewTestService(
	contentRepo *repository.ContentRepository,
	summaryRepo *repository.TestSummaryRepository,
	challengeRepo *repository.ChallengeRepository,
	locks *PersonLocks,
) *TestService {
	return &TestService{
		ContentRepo:   contentRepo,
		SummaryRepo:   summaryRepo,
		ChallengeRepo: challengeRepo,
		Locks:         locks,
	}
}

// TestStepView is what the presentation layer renders for the test page:
// either the pending question plus its position counter, or the completion
// scores.
type TestStepView struct {
	Completed    bool    `json:"completed"`
	QuestionText string  `json:"questionText,omitempty"`
	Topic        string  `json:"topic,omitempty"`
	Countdown    string  `json:"countdown,omitempty"`
	StartScore   *string `json:"startScore,omitempty"`
	FinalScore   *string `json:"finalScore,omitempty"`
}

// ProgressSummary projects the progression state machine for the homepage.
type ProgressSummary struct {
	Phase      string  `json:"phase"`
	Message    string  `json:"message"`
	NextPage   string  `json:"nextPage"`
	StartScore *string `json:"startScore,omitempty"`
	FinalScore *string `json:"finalScore,omitempty"`
}

func (s *TestService) DidStartTest(person *model.Person) (bool, error) {
	stepCount, err := s.ContentRepo.CountTestStepsByTopic(model.PhaseStart)
	if err != nil {
		return false, err
	}
	assigned, err := s.SummaryRepo.CountByPersonAndTopic(person.ID, model.PhaseStart)
	if err != nil {
		return false, err
	}
	unanswered, err := s.SummaryRepo.CountUnanswered(person.ID)
	if err != nil {
		return false, err
	}
	return stepCount == assigned && unanswered == 0, nil
}

func (s *TestService) DidFinalTest(person *model.Person) (bool, error) {
	stepCount, err := s.ContentRepo.CountTestSteps()
	if err != nil {
		return false, err
	}
	assigned, err := s.SummaryRepo.CountByPerson(person.ID)
	if err != nil {
		return false, err
	}
	unanswered, err := s.SummaryRepo.CountUnanswered(person.ID)
	if err != nil {
		return false, err
	}
	return stepCount == assigned && unanswered == 0, nil
}

// CurrentStep returns the visitor's pending test step, assigning whole phases
// on the way: the start phase on first contact, the final phase once the
// drill countdown reaches zero.
func (s *TestService) CurrentStep(person *model.Person) (*TestStepView, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()
	return s.currentStep(person)
}

func (s *TestService) currentStep(person *model.Person) (*TestStepView, error) {
	assigned, err := s.SummaryRepo.CountByPerson(person.ID)
	if err != nil {
		return nil, err
	}

	if assigned == 0 {
		if err := s.assignPhase(person, model.PhaseStart); err != nil {
			return nil, err
		}
	} else {
		didFinal, err := s.DidFinalTest(person)
		if err != nil {
			return nil, err
		}
		if didFinal {
			return s.completedView(person)
		}

		finalAssigned, err := s.SummaryRepo.CountByPersonAndTopic(person.ID, model.PhaseFinal)
		if err != nil {
			return nil, err
		}
		countdown, err := s.countdown(person)
		if err != nil {
			return nil, err
		}
		if finalAssigned == 0 && countdown <= 0 {
			if err := s.assignPhase(person, model.PhaseFinal); err != nil {
				return nil, err
			}
		}
	}

	summary, err := s.SummaryRepo.FirstUnanswered(person.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.completedView(person)
		}
		return nil, err
	}

	counter, err := s.positionCounter(person, summary.Topic)
	if err != nil {
		return nil, err
	}

	return &TestStepView{
		QuestionText: summary.TestStep.QuestionText,
		Topic:        summary.Topic,
		Countdown:    counter,
	}, nil
}

// assignPhase materializes every step of the phase at once, so the visitor is
// sure to take all obligatory steps. Zero configured steps is a content
// configuration fault, not a user error.
func (s *TestService) assignPhase(person *model.Person, topic string) error {
	steps, err := s.ContentRepo.TestStepsByTopic(topic)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		return fmt.Errorf("%w: %s", util.ErrNoTestSteps, topic)
	}

	summaries := make([]model.TestSummary, 0, len(steps))
	for _, step := range steps {
		summaries = append(summaries, model.TestSummary{
			PersonID:   person.ID,
			TestStepID: step.ID,
			Topic:      topic,
			Verdict:    model.VerdictUnanswered,
		})
	}
	return s.SummaryRepo.CreateBatch(summaries)
}

// SubmitAnswer grades the pending step and returns the next view. The
// expected answer must appear in the submission, and the submission may be at
// most answerLengthSlack runes longer than the expected answer.
func (s *TestService) SubmitAnswer(person *model.Person, answer string) (*TestStepView, error) {
	unlock := s.Locks.Lock(person.ID)
	defer unlock()

	if strings.TrimSpace(answer) == "" {
		return nil, util.ErrEmptyTestAnswer
	}

	summary, err := s.SummaryRepo.FirstUnanswered(person.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNoPendingTestStep
		}
		return nil, err
	}

	submitted := strings.ToLower(answer)
	expected := strings.ToLower(summary.TestStep.AnswerText)

	verdict := model.VerdictIncorrect
	if strings.Contains(submitted, expected) &&
		utf8.RuneCountInString(submitted) <= utf8.RuneCountInString(expected)+answerLengthSlack {
		verdict = model.VerdictCorrect
	}

	summary.UserAnswer = submitted
	summary.Verdict = verdict
	if err := s.SummaryRepo.Update(summary); err != nil {
		return nil, err
	}

	monitoring.TestAnswerCounter.WithLabelValues(summary.Topic, string(verdict)).Inc()

	return s.currentStep(person)
}

// Score reports "<correct> of <total>" per phase. A phase's score exists only
// once that phase is fully answered.
func (s *TestService) Score(person *model.Person) (startScore, finalScore *string, err error) {
	didStart, err := s.DidStartTest(person)
	if err != nil {
		return nil, nil, err
	}
	didFinal, err := s.DidFinalTest(person)
	if err != nil {
		return nil, nil, err
	}

	if didStart {
		score, err := s.phaseScore(person, model.PhaseStart)
		if err != nil {
			return nil, nil, err
		}
		startScore = &score
	}
	if didFinal {
		score, err := s.phaseScore(person, model.PhaseFinal)
		if err != nil {
			return nil, nil, err
		}
		finalScore = &score
	}
	return startScore, finalScore, nil
}

func (s *TestService) phaseScore(person *model.Person, topic string) (string, error) {
	total, err := s.ContentRepo.CountTestStepsByTopic(topic)
	if err != nil {
		return "", err
	}
	correct, err := s.SummaryRepo.CountCorrectByTopic(person.ID, topic)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d of %d", correct, total), nil
}

// positionCounter renders "<position> of <phase total>", recomputed from the
// unanswered count on every call.
func (s *TestService) positionCounter(person *model.Person, topic string) (string, error) {
	total, err := s.ContentRepo.CountTestStepsByTopic(topic)
	if err != nil {
		return "", err
	}
	unanswered, err := s.SummaryRepo.CountUnansweredByTopic(person.ID, topic)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d of %d", total-unanswered+1, total), nil
}

func (s *TestService) completedView(person *model.Person) (*TestStepView, error) {
	startScore, finalScore, err := s.Score(person)
	if err != nil {
		return nil, err
	}
	return &TestStepView{
		Completed:  true,
		StartScore: startScore,
		FinalScore: finalScore,
	}, nil
}

func (s *TestService) countdown(person *model.Person) (int, error) {
	return countdownToFinalTest(s.ChallengeRepo, person)
}

// ProgressSummary tells the visitor where they are in the start test → drills
// → final test sequence and which page to go to next.
func (s *TestService) ProgressSummary(person *model.Person) (*ProgressSummary, error) {
	drilled, err := s.ChallengeRepo.SumAskedCounts(person.ID)
	if err != nil {
		return nil, err
	}
	countdown, err := s.countdown(person)
	if err != nil {
		return nil, err
	}
	didStart, err := s.DidStartTest(person)
	if err != nil {
		return nil, err
	}
	didFinal, err := s.DidFinalTest(person)
	if err != nil {
		return nil, err
	}
	startScore, finalScore, err := s.Score(person)
	if err != nil {
		return nil, err
	}

	summary := &ProgressSummary{StartScore: startScore, FinalScore: finalScore}
	switch {
	case drilled == 0 && !didStart:
		summary.Phase = "not_started"
		summary.Message = "We recommend that you take our test before you start drilling."
		summary.NextPage = "/test"
	case countdown > 0:
		summary.Phase = "drilling"
		summary.Message = fmt.Sprintf(
			"Your start test score: %s.\nAfter doing %d drills you will be able to take the test again.\nGo and practice!",
			deref(startScore), countdown)
		summary.NextPage = "/select_topic"
	case didFinal:
		summary.Phase = "completed"
		summary.Message = fmt.Sprintf(
			"Congratulations!\nYou have completed all the tests.\nYour start test score: %s.\nYour final test score: %s.\nGo and practice more!",
			deref(startScore), deref(finalScore))
		summary.NextPage = "/select_topic"
	default:
		summary.Phase = "final_unlocked"
		summary.Message = "You have done a lot of drilling.\nIt is time to take your final test."
		summary.NextPage = "/test"
	}
	return summary, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
