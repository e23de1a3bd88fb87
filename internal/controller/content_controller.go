package controller

import (
	"errors"
	"io"

	"simpledrill_backend/internal/service"
	"simpledrill_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	FixtureService *service.FixtureService
}

func NewContentController(fixtureService *service.FixtureService) *ContentController {
	return &ContentController{FixtureService: fixtureService}
}

// ImportFixture godoc
// @Summary Upload a content fixture
// @Description Staff only. Archives the JSON file and loads its test steps or challenges.
// @Tags content
// @Accept  multipart/form-data
// @Produce  json
// @Security ApiKeyAuth
// @Param   file formData file true "fixture JSON"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "malformed fixture"
// @Router /admin/fixtures [post]
func (c *ContentController) ImportFixture(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "fixture file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.FixtureService.ImportFixture(ctx.Request.Context(), fileHeader.Filename, data); err != nil {
		if errors.Is(err, util.ErrBrokenFixture) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"file": fileHeader.Filename})
}
