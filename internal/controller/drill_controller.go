package controller

import (
	"errors"

	"simpledrill_backend/internal/service"
	"simpledrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DrillController struct {
	AuthService  *service.AuthService
	TestService  *service.TestService
	DrillService *service.DrillService
}

func NewDrillController(authService *service.AuthService, testService *service.TestService, drillService *service.DrillService) *DrillController {
	return &DrillController{
		AuthService:  authService,
		TestService:  testService,
		DrillService: drillService,
	}
}

// swagger:model SelectTopicRequest
type SelectTopicRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// SelectTopic godoc
// @Summary Select a drill topic
// @Description Requires a completed start test. Switching topics abandons the current challenge.
// @Tags drill
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SelectTopicRequest true "the topic"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "start test not completed"
// @Router /drill/topic [post]
func (c *DrillController) SelectTopic(ctx *gin.Context) {
	var req SelectTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	// The start test comes before drilling.
	didStart, err := c.TestService.DidStartTest(person)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if !didStart {
		util.Error(ctx, 409, "take the start test before drilling")
		return
	}

	if err := c.DrillService.SelectTopic(person, req.Topic); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"topic": req.Topic})
}

// GetChallenge godoc
// @Summary Current challenge
// @Description Returns the in-progress challenge, fetching a fresh one when none is pending
// @Tags drill
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Challenge}
// @Router /drill/challenge [get]
func (c *DrillController) GetChallenge(ctx *gin.Context) {
	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	challenge, err := c.DrillService.CurrentChallenge(person)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if challenge == nil {
		challenge, err = c.DrillService.NextChallenge(person)
		if err != nil {
			if errors.Is(err, util.ErrNoTopicSelected) {
				util.BadRequest(ctx, err.Error())
				return
			}
			util.LogInternalError(ctx, err)
			return
		}
	}
	util.Success(ctx, challenge)
}

// NextChallenge godoc
// @Summary Advance to the next challenge
// @Tags drill
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.Challenge}
// @Router /drill/next [post]
func (c *DrillController) NextChallenge(ctx *gin.Context) {
	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	challenge, err := c.DrillService.NextChallenge(person)
	if err != nil {
		if errors.Is(err, util.ErrNoTopicSelected) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, challenge)
}

// swagger:model SubmitDrillAnswerRequest
type SubmitDrillAnswerRequest struct {
	AnswerID        uint `json:"answerId"`
	NoCorrectAnswer bool `json:"noCorrectAnswer"`
	GiveUp          bool `json:"giveUp"`
}

// SubmitAnswer godoc
// @Summary Submit a drill answer
// @Description Accepts an answer id, the "no correct answer" assertion, or a give-up
// @Tags drill
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitDrillAnswerRequest true "exactly one of answerId, noCorrectAnswer, giveUp"
// @Success 200 {object} util.Response{data=service.ChallengeResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response "stale answer"
// @Router /drill/answer [post]
func (c *DrillController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitDrillAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	var result *service.ChallengeResult
	var err error
	switch {
	case req.GiveUp:
		result, err = c.DrillService.GiveUp(person)
	case req.NoCorrectAnswer:
		result, err = c.DrillService.SubmitNoCorrectAnswer(person)
	case req.AnswerID != 0:
		result, err = c.DrillService.SubmitAnswer(person, req.AnswerID)
	default:
		util.BadRequest(ctx, "one of answerId, noCorrectAnswer or giveUp is required")
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, util.ErrStaleAnswer):
			util.Error(ctx, 409, err.Error())
		case errors.Is(err, util.ErrNoActiveChallenge):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// GetCountdown godoc
// @Summary Drills remaining before the final test unlocks
// @Tags drill
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object}
// @Router /drill/countdown [get]
func (c *DrillController) GetCountdown(ctx *gin.Context) {
	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	countdown, err := c.DrillService.Countdown(person)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"countdown": countdown})
}
