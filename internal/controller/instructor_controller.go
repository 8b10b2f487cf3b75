package controller

import (
	"errors"
	"strconv"

	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type InstructorController struct {
	InstructorService *service.InstructorService
}

func NewInstructorController(instructorService *service.InstructorService) *InstructorController {
	return &InstructorController{InstructorService: instructorService}
}

// Apply godoc
// @Summary Apply to become an instructor
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ApplicationInput true "Application details"
// @Success 201 {object} util.Response{data=model.InstructorApplication}
// @Failure 409 {object} util.Response "A pending application already exists"
// @Router /api/instructor/apply [post]
func (c *InstructorController) Apply(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var input service.ApplicationInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	app, err := c.InstructorService.Apply(claims.UserID, input)
	if err != nil {
		if errors.Is(err, util.ErrApplicationDuplicate) {
			util.Error(ctx, 409, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, app)
}

// ListApplications godoc
// @Summary List instructor applications
// @Tags instructor
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved, rejected or all"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/applications [get]
func (c *InstructorController) ListApplications(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	status := ctx.DefaultQuery("status", "pending")

	apps, total, err := c.InstructorService.ListApplications(status, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: apps, Total: total, Page: page, Limit: limit})
}

type ReviewRequest struct {
	Approve  bool   `json:"approve"`
	Feedback string `json:"feedback"`
}

// ReviewApplication godoc
// @Summary Approve or reject an application
// @Description Approval promotes the applicant to the instructor role.
// @Tags instructor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param body body ReviewRequest true "Review decision"
// @Success 200 {object} util.Response{data=model.InstructorApplication}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already reviewed"
// @Router /api/admin/applications/{id}/review [put]
func (c *InstructorController) ReviewApplication(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	app, err := c.InstructorService.Review(ctx.Param("id"), claims.UserID, req.Approve, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrApplicationNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrApplicationReviewed):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, app)
}
