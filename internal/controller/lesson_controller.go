package controller

import (
	"errors"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService  *service.LessonService
	StorageService *service.StorageService
}

func NewLessonController(lessonService *service.LessonService, storageService *service.StorageService) *LessonController {
	return &LessonController{LessonService: lessonService, StorageService: storageService}
}

// ListLessons godoc
// @Summary Lessons of a course, in order
// @Tags lessons
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/courses/{courseId}/lessons [get]
func (c *LessonController) ListLessons(ctx *gin.Context) {
	lessons, err := c.LessonService.ListLessons(ctx.Param("courseId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// GetLesson godoc
// @Summary Lesson details
// @Description Students receive the embedded quiz without answers or explanations.
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	forStudent := claims == nil || claims.Role == model.Student
	lesson, err := c.LessonService.GetLesson(ctx.Param("id"), forStudent)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, lesson)
}

// CreateLesson godoc
// @Summary Add a lesson to a course
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param body body service.LessonInput true "Lesson details"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/courses/{courseId}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.CreateLesson(ctx.Param("courseId"), claims.UserID, claims.Role == model.Admin, input)
	if err != nil {
		respondLessonError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// UpdateLesson godoc
// @Summary Update lesson content
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param body body service.LessonInput true "Lesson fields"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var input service.LessonInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.UpdateLesson(ctx.Param("id"), claims.UserID, claims.Role == model.Admin, input)
	if err != nil {
		respondLessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// UpdateLessonQuiz godoc
// @Summary Replace the lesson's quiz definition
// @Description Draft quizzes may be incomplete; a published lesson only accepts a gradeable quiz.
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param body body model.Quiz true "Quiz definition"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id}/quiz [put]
func (c *LessonController) UpdateLessonQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var quiz model.Quiz
	if err := ctx.ShouldBindJSON(&quiz); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.UpdateLessonQuiz(ctx.Param("id"), claims.UserID, claims.Role == model.Admin, &quiz)
	if err != nil {
		respondLessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// PublishLesson godoc
// @Summary Publish or unpublish a lesson
// @Tags lessons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Param body body PublishRequest true "Publish flag"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id}/publish [put]
func (c *LessonController) PublishLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.LessonService.PublishLesson(ctx.Param("id"), claims.UserID, claims.Role == model.Admin, req.Published)
	if err != nil {
		respondLessonError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Delete a lesson
// @Tags lessons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lesson ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if err := c.LessonService.DeleteLesson(ctx.Param("id"), claims.UserID, claims.Role == model.Admin); err != nil {
		respondLessonError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadVideo godoc
// @Summary Upload a lesson video
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Video file"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Router /api/uploads/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	result, err := c.StorageService.UploadVideo(ctx.Request.Context(), file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// UploadImage godoc
// @Summary Upload an image (thumbnail or avatar)
// @Tags lessons
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} util.Response{data=service.UploadResult}
// @Router /api/uploads/image [post]
func (c *LessonController) UploadImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing file")
		return
	}
	result, err := c.StorageService.UploadImage(ctx.Request.Context(), file)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

func respondLessonError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrLessonNotFound), errors.Is(err, util.ErrCourseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizNotGradeable), isQuizValidationError(err):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

func isQuizValidationError(err error) bool {
	return errors.Is(err, model.ErrEmptyQuiz) ||
		errors.Is(err, model.ErrEmptyQuestionText) ||
		errors.Is(err, model.ErrTooFewOptions) ||
		errors.Is(err, model.ErrTooManyOptions) ||
		errors.Is(err, model.ErrNoCorrectOption) ||
		errors.Is(err, model.ErrEmptyCorrectAnswer) ||
		errors.Is(err, model.ErrUnknownQuestionType)
}
