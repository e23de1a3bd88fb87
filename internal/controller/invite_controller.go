package controller

import (
	"errors"

	"simpledrill_backend/internal/service"
	"simpledrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InviteController struct {
	AuthService   *service.AuthService
	InviteService *service.InviteService
}

func NewInviteController(authService *service.AuthService, inviteService *service.InviteService) *InviteController {
	return &InviteController{AuthService: authService, InviteService: inviteService}
}

// swagger:model AddInviteRequest
type AddInviteRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// AddInvite godoc
// @Summary Issue an invite code
// @Description Staff only. Creates a single-use registration code.
// @Tags invites
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddInviteRequest true "who the invite is for"
// @Success 201 {object} util.Response{data=model.Invite}
// @Failure 403 {object} util.Response
// @Router /invites [post]
func (c *InviteController) AddInvite(ctx *gin.Context) {
	var req AddInviteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	invite, err := c.InviteService.AddInvite(person, req.Comment)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, invite)
}

// ListInvites godoc
// @Summary List all invites
// @Description Staff only.
// @Tags invites
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Invite}
// @Failure 403 {object} util.Response
// @Router /invites [get]
func (c *InviteController) ListInvites(ctx *gin.Context) {
	person := c.AuthService.GetCurrentPerson(ctx)
	if person == nil {
		util.Unauthorized(ctx)
		return
	}

	invites, err := c.InviteService.ListInvites(person)
	if err != nil {
		if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, invites)
}
