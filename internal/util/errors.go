package util

import "errors"

// User-input errors: recoverable, rendered as inline messages. No state is
// mutated on these paths.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInviteInvalid      = errors.New("invalid or already used invite code")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrStaleAnswer        = errors.New("the submitted answer does not match the current question, try again with the answers on screen")
	ErrNoTopicSelected    = errors.New("no drill topic selected")
	ErrPermissionDenied   = errors.New("permission denied")
)

// Content-integrity errors: fatal configuration faults, not user-recoverable.
var (
	ErrNoTestSteps   = errors.New("no test steps configured for phase")
	ErrNoQuestions   = errors.New("no questions configured for topic")
	ErrTooFewAnswers = errors.New("question has fewer answers than the display size")
	ErrBrokenFixture = errors.New("fixture file is malformed")
)

// Invariant violations: caller bugs, unreachable via normal flow.
var (
	ErrNoPendingTestStep = errors.New("test answer submitted without a pending test step")
	ErrEmptyTestAnswer   = errors.New("test answer submitted empty")
	ErrNoActiveChallenge = errors.New("drill answer submitted without an active challenge")
)
