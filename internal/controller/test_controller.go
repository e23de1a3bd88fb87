package controller

import (
	"errors"

	"simpledrill_backend/internal/service"
	"simpledrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	AuthService *service.AuthService
	TestService *service.TestService
}

func NewTestController(authService *service.AuthService, testService *service.TestService) *TestController {
	return &TestController{AuthService: authService, TestService: testService}
}

// GetProgressSummary godoc
// @Summary Progression summary
// @Description Where the visitor is in the start test, drills, final test sequence
// @Tags test
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressSummary}
// @Router /test/summary [get]
func (c *TestController) GetProgressSummary(ctx *gin.Context) {
	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	summary, err := c.TestService.ProgressSummary(person)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// GetCurrentStep godoc
// @Summary Current test step
// @Description The pending question, or the completion scores when the test is done
// @Tags test
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.TestStepView}
// @Router /test/step [get]
func (c *TestController) GetCurrentStep(ctx *gin.Context) {
	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.TestService.CurrentStep(person)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// swagger:model SubmitTestAnswerRequest
type SubmitTestAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// SubmitAnswer godoc
// @Summary Submit a test answer
// @Description Grades the pending step and returns the next one
// @Tags test
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SubmitTestAnswerRequest true "the answer text"
// @Success 200 {object} util.Response{data=service.TestStepView}
// @Failure 400 {object} util.Response
// @Router /test/answer [post]
func (c *TestController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitTestAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.TestService.SubmitAnswer(person, req.Answer)
	if err != nil {
		if errors.Is(err, util.ErrEmptyTestAnswer) || errors.Is(err, util.ErrNoPendingTestStep) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
